package vl53l5cx

import (
	"encoding/binary"
	"errors"
	"testing"
)

// block assembles one result block in host byte order: a 4-byte header
// (type | element count | index) followed by the payload.
func block(idx uint16, btype, count int, payload []byte) []byte {
	bh := uint32(idx)<<16 | uint32(count&0xfff)<<4 | uint32(btype&0xf)
	out := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(out, bh)
	return append(out, payload...)
}

// packet wraps blocks in the 16-byte stream prefix and 4-byte trailer of a
// result read, already in host byte order.
func packet(blocks ...[]byte) []byte {
	buf := make([]byte, 16)
	for _, b := range blocks {
		buf = append(buf, b...)
	}
	return append(buf, 0, 0, 0, 0)
}

func le16(vals ...int16) []byte {
	out := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

func le32(vals ...uint32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func repeat16(v int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func repeat32(v uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func repeat8(v byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func metaBlock(silicon int8) []byte {
	meta := make([]byte, 12)
	meta[8] = byte(silicon)
	return block(idxMetadata, 0, 12, meta)
}

func TestDecodeFrameScaling(t *testing.T) {
	const zones = 16

	dist := repeat16(4*123, zones) // 123 mm after scaling
	dist[0] = -8                   // negative raw clamps to 0
	dist[1] = 401                  // truncates to 100
	dist[2] = 399                  // truncates to 99

	buf := packet(
		metaBlock(-10),
		block(idxAmbientRate, 4, zones, le32(repeat32(5*2048, zones)...)),
		block(idxSpadCount, 4, zones, le32(repeat32(1234, zones)...)),
		block(idxNbTarget, 1, zones, repeat8(1, zones)),
		block(idxSignalRate, 4, zones, le32(repeat32(200*2048, zones)...)),
		block(idxRangeSigma, 2, zones, le16(repeat16(5*128, zones)...)),
		block(idxDistance, 2, zones, le16(dist...)),
		block(idxReflectance, 1, zones, repeat8(77, zones)),
		block(idxTargetStatus, 1, zones, repeat8(uint8(TargetStatusValid), zones)),
	)

	var f Frame
	if err := decodeFrame(buf, Resolution4x4, &f); err != nil {
		t.Fatal(err)
	}

	if f.SiliconTempCelsius() != -10 {
		t.Errorf("silicon = %d, want -10", f.SiliconTempCelsius())
	}
	if got := f.Distance().At(0, 0)[0]; got != 0 {
		t.Errorf("distance zone 0 = %d, want 0 (clamped)", got)
	}
	if got := f.Distance().At(0, 1)[0]; got != 100 {
		t.Errorf("distance zone 1 = %d, want 100", got)
	}
	if got := f.Distance().At(0, 2)[0]; got != 99 {
		t.Errorf("distance zone 2 = %d, want 99", got)
	}
	if got := f.Distance().At(3, 3)[0]; got != 123 {
		t.Errorf("distance zone 15 = %d, want 123", got)
	}
	if got := f.RangeSigma().At(2, 2)[0]; got != 5 {
		t.Errorf("sigma = %d, want 5", got)
	}
	if got := f.SignalPerSPAD().At(1, 0)[0]; got != 200 {
		t.Errorf("signal = %d, want 200", got)
	}
	if got := f.AmbientPerSPAD().At(0, 3); got != 5 {
		t.Errorf("ambient = %d, want 5", got)
	}
	if got := f.SPADsEnabled().At(2, 0); got != 1234 {
		t.Errorf("spads = %d, want 1234", got)
	}
	if got := f.Reflectance().At(1, 1)[0]; got != 77 {
		t.Errorf("reflectance = %d, want 77", got)
	}
	if got := f.TargetStatus().At(1, 2)[0]; got != TargetStatusValid {
		t.Errorf("status = %d, want %d", got, TargetStatusValid)
	}
}

func TestDecodeFrameMarksEmptyZones(t *testing.T) {
	const zones = 16

	nb := repeat8(1, zones)
	nb[3] = 0
	nb[9] = 0

	buf := packet(
		metaBlock(25),
		block(idxNbTarget, 1, zones, nb),
		block(idxDistance, 2, zones, le16(repeat16(4*50, zones)...)),
		block(idxTargetStatus, 1, zones, repeat8(uint8(TargetStatusValid), zones)),
	)

	var f Frame
	if err := decodeFrame(buf, Resolution4x4, &f); err != nil {
		t.Fatal(err)
	}

	status := f.TargetStatus()
	for z := 0; z < zones; z++ {
		got := status.At(z/4, z%4)[0]
		want := TargetStatusValid
		if z == 3 || z == 9 {
			want = TargetStatusNoTarget
		}
		if got != want {
			t.Errorf("zone %d status = %d, want %d", z, got, want)
		}
	}
}

func TestDecodeFrameSkipsUnknownBlocks(t *testing.T) {
	const zones = 16

	buf := packet(
		metaBlock(25),
		block(0xAAAA, 4, 4, le32(repeat32(0xdeadbeef, 4)...)),
		block(idxNbTarget, 1, zones, repeat8(1, zones)),
		block(idxDistance, 2, zones, le16(repeat16(4*321, zones)...)),
	)

	var f Frame
	if err := decodeFrame(buf, Resolution4x4, &f); err != nil {
		t.Fatal(err)
	}
	if got := f.Distance().At(2, 1)[0]; got != 321 {
		t.Errorf("distance = %d, want 321", got)
	}
}

func TestDecodeFrameCorrupt(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
	}{
		{
			// Header claims 16 distance elements, payload holds 5.
			"truncated block",
			packet(block(idxDistance, 2, 16, le16(repeat16(0, 5)...))),
		},
		{
			// Consistent block, but too small for the 4x4 grid.
			"undersized distance",
			packet(block(idxDistance, 2, 8, le16(repeat16(0, 8)...))),
		},
		{
			"undersized metadata",
			packet(block(idxMetadata, 0, 8, make([]byte, 8))),
		},
		{
			"undersized ambient",
			packet(block(idxAmbientRate, 4, 4, le32(repeat32(0, 4)...))),
		},
	}
	for _, c := range cases {
		var f Frame
		if err := decodeFrame(c.buf, Resolution4x4, &f); !errors.Is(err, ErrCorruptFrame) {
			t.Errorf("%s: err = %v, want ErrCorruptFrame", c.name, err)
		}
	}
}

func TestDecodeFrameFreshGridAfterResize(t *testing.T) {
	wide := make([]int16, 64)
	for z := range wide {
		wide[z] = int16(4 * (1000 + z))
	}
	buf8 := packet(
		metaBlock(25),
		block(idxNbTarget, 1, 64, repeat8(1, 64)),
		block(idxDistance, 2, 64, le16(wide...)),
	)

	var f Frame
	if err := decodeFrame(buf8, Resolution8x8, &f); err != nil {
		t.Fatal(err)
	}
	if f.Resolution() != Resolution8x8 || f.Distance().Side() != 8 {
		t.Fatalf("first decode: resolution = %v", f.Resolution())
	}
	if got := f.Distance().At(7, 7)[0]; got != 1063 {
		t.Fatalf("zone 63 = %d, want 1063", got)
	}

	buf4 := packet(
		metaBlock(25),
		block(idxNbTarget, 1, 16, repeat8(1, 16)),
		block(idxDistance, 2, 16, le16(repeat16(4*7, 16)...)),
	)
	if err := decodeFrame(buf4, Resolution4x4, &f); err != nil {
		t.Fatal(err)
	}
	if f.Resolution() != Resolution4x4 || f.Distance().Side() != 4 {
		t.Fatalf("second decode: resolution = %v", f.Resolution())
	}
	dist := f.Distance()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if got := dist.At(row, col)[0]; got != 7 {
				t.Errorf("zone %d,%d = %d, want 7", row, col, got)
			}
		}
	}
}

func TestFrameCopyIsSnapshot(t *testing.T) {
	first := packet(
		metaBlock(25),
		block(idxNbTarget, 1, 16, repeat8(1, 16)),
		block(idxDistance, 2, 16, le16(repeat16(4*100, 16)...)),
	)
	second := packet(
		metaBlock(30),
		block(idxNbTarget, 1, 16, repeat8(1, 16)),
		block(idxDistance, 2, 16, le16(repeat16(4*900, 16)...)),
	)

	var f Frame
	if err := decodeFrame(first, Resolution4x4, &f); err != nil {
		t.Fatal(err)
	}
	snap := f
	if err := decodeFrame(second, Resolution4x4, &f); err != nil {
		t.Fatal(err)
	}

	if got := snap.Distance().At(0, 0)[0]; got != 100 {
		t.Errorf("snapshot distance = %d, want 100", got)
	}
	if got := snap.SiliconTempCelsius(); got != 25 {
		t.Errorf("snapshot silicon = %d, want 25", got)
	}
	if got := f.Distance().At(0, 0)[0]; got != 900 {
		t.Errorf("live distance = %d, want 900", got)
	}
}

func TestDecodeRawFrame(t *testing.T) {
	buf := packet(
		metaBlock(31),
		block(idxNbTarget, 1, 16, repeat8(1, 16)),
		block(idxDistance, 2, 16, le16(repeat16(4*444, 16)...)),
	)

	// A raw packet is the byte-swapped image of the decoded one.
	raw := make([]byte, len(buf))
	copy(raw, buf)
	SwapBuffer(raw)

	var f Frame
	if err := DecodeRawFrame(raw, Resolution4x4, &f); err != nil {
		t.Fatal(err)
	}
	if got := f.Distance().At(1, 3)[0]; got != 444 {
		t.Errorf("distance = %d, want 444", got)
	}
	if got := f.SiliconTempCelsius(); got != 31 {
		t.Errorf("silicon = %d, want 31", got)
	}

	if err := DecodeRawFrame(raw[:8], Resolution4x4, &f); !errors.Is(err, ErrCorruptFrame) {
		t.Errorf("short packet: err = %v, want ErrCorruptFrame", err)
	}
}
