package vl53l5cx

import "encoding/binary"

// The factory calibration grids are stored at 8x8. Ranging at 4x4 needs each
// 2x2 quad averaged into the first 16 cells before the table is sent.

// collapse8x8 folds an 8x8 grid down to 4x4 in place and zeroes the unused
// tail.
func collapse8x8[T int16 | uint32](grid *[64]T) {
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			q := 2*i + 16*j
			sum := int64(grid[q]) + int64(grid[q+1]) + int64(grid[q+8]) + int64(grid[q+9])
			grid[i+4*j] = T(sum / 4)
		}
	}
	for k := 16; k < 64; k++ {
		grid[k] = 0
	}
}

// sendOffsetData pushes the NVM offset calibration to the firmware, rescaled
// for the given resolution.
func (d *Device) sendOffsetData(res Resolution) error {
	buf := d.temp[:offsetBufferSize]
	copy(buf, d.offsetData[:])

	if res == Resolution4x4 {
		dss4x4 := [8]byte{0x0f, 0x04, 0x04, 0x00, 0x08, 0x10, 0x10, 0x07}
		copy(buf[0x10:], dss4x4[:])
		d.p.SwapBuffer(buf)

		var signalGrid [64]uint32
		var rangeGrid [64]int16
		for k := range signalGrid {
			signalGrid[k] = binary.LittleEndian.Uint32(buf[0x3c+4*k:])
		}
		for k := range rangeGrid {
			rangeGrid[k] = int16(binary.LittleEndian.Uint16(buf[0x140+2*k:]))
		}
		collapse8x8(&signalGrid)
		collapse8x8(&rangeGrid)
		for k := range signalGrid {
			binary.LittleEndian.PutUint32(buf[0x3c+4*k:], signalGrid[k])
		}
		for k := range rangeGrid {
			binary.LittleEndian.PutUint16(buf[0x140+2*k:], uint16(rangeGrid[k]))
		}
		d.p.SwapBuffer(buf)
	}

	// The firmware takes the table shifted by two words, with a fixed
	// footer in the last eight bytes.
	copy(buf[:offsetBufferSize-4], d.temp[8:offsetBufferSize+4])
	footer := [8]byte{0x00, 0x00, 0x00, 0x0f, 0x03, 0x01, 0x01, 0xe4}
	copy(buf[0x1e0:], footer[:])

	if err := d.p.WriteBytes(0x2e18, buf); err != nil {
		return err
	}
	return d.pollForAnswer(4, 1, regUICmdStatus, 0xff, 0x03)
}

// sendXtalkData pushes the crosstalk correction table to the firmware,
// rescaled for the given resolution.
func (d *Device) sendXtalkData(res Resolution) error {
	buf := d.temp[:XtalkSize]
	copy(buf, d.xtalkData[:])

	if res == Resolution4x4 {
		res4x4 := [8]byte{0x0f, 0x04, 0x04, 0x17, 0x08, 0x10, 0x10, 0x07}
		dss4x4 := [8]byte{0x00, 0x78, 0x00, 0x08, 0x00, 0x00, 0x00, 0x08}
		copy(buf[0x08:], res4x4[:])
		copy(buf[0x20:], dss4x4[:])
		d.p.SwapBuffer(buf)

		var signalGrid [64]uint32
		for k := range signalGrid {
			signalGrid[k] = binary.LittleEndian.Uint32(buf[0x34+4*k:])
		}
		collapse8x8(&signalGrid)
		for k := range signalGrid {
			binary.LittleEndian.PutUint32(buf[0x34+4*k:], signalGrid[k])
		}
		d.p.SwapBuffer(buf)

		profile4x4 := [4]byte{0xa0, 0xfc, 0x01, 0x00}
		copy(buf[0x134:], profile4x4[:])
		for k := 0; k < 4; k++ {
			buf[0x78+k] = 0
		}
	}

	if err := d.p.WriteBytes(0x2cf8, buf); err != nil {
		return err
	}
	return d.pollForAnswer(4, 1, regUICmdStatus, 0xff, 0x03)
}
