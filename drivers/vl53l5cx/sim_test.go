package vl53l5cx

import (
	"encoding/binary"
	"testing"
)

// simSensor emulates the sensor's register and DCI behaviour closely enough
// to run the full driver against it: boot handshakes, firmware upload, NVM
// readout, DCI transactions and ranging frames all answer the way the real
// part does.
type simSensor struct {
	t *testing.T

	regs map[uint16]uint8
	dci  map[uint16][]byte

	power      uint8
	newAddr    uint16
	nvmPending bool
	pendingDCI uint16
	pendingLen int
	haveDCI    bool

	enables      uint32
	dataReadSize uint32

	// Frame generation. Zone emptyZone reports no target.
	seq     uint8
	silicon int8

	fwBytes      int
	bankOrder    []uint8
	configSent   bool
	offsetSent   int
	xtalkSent    int
	lastOffset   [offsetBufferSize]byte
	failChecksum bool

	waits uint32
}

var _ Platform = (*simSensor)(nil)
var _ AddressObserver = (*simSensor)(nil)

const emptyZone = 2

func newSim(t *testing.T) *simSensor {
	s := &simSensor{
		t:       t,
		regs:    map[uint16]uint8{},
		dci:     map[uint16][]byte{},
		power:   0x04,
		silicon: 23,
	}
	// Power-on DCI contents: 4x4, 1Hz, 5ms integration, strongest-first,
	// autonomous.
	s.dci[dciZoneConfig] = []byte{4, 4, 0, 0, 8, 8, 0, 0}
	s.dci[dciDSSConfig] = make([]byte, 16)
	s.dci[dciFreqHz] = []byte{0, 1, 0, 0}
	s.dci[dciIntTime] = append([]byte{0x88, 0x13, 0x00, 0x00}, make([]byte, 16)...)
	s.dci[dciSharpener] = make([]byte, 16)
	s.dci[dciTargetOrder] = []byte{2, 0, 0, 0}
	s.dci[dciRangingMode] = []byte{0, 3, 0, 0, 0, 2, 0, 0}
	s.dci[dciFWNbTarget] = make([]byte, 16)
	return s
}

func testBundle() *FirmwareBundle {
	return &FirmwareBundle{
		Firmware:             make([]byte, FirmwareSize),
		DefaultConfiguration: make([]byte, DefaultConfigSize),
		DefaultXtalk:         make([]byte, XtalkSize),
		NVMCommand:           make([]byte, NVMCommandSize),
	}
}

func (s *simSensor) ReadBytes(index uint16, buf []byte) error {
	switch {
	case index == 0x0000 && len(buf) == 1:
		buf[0] = 0xf0 // device id
	case index == 0x0001 && len(buf) == 1:
		buf[0] = 0x02 // revision id
	case index == 0x0000 && len(buf) == 4:
		buf[0] = s.seq
		buf[1] = 0x05
		buf[2] = 0x05
		buf[3] = 0x10
	case index == 0x0000 && len(buf) == int(s.dataReadSize):
		copy(buf, s.frameRaw())
	case index == 0x0006 && len(buf) == 1:
		if s.regs[0x0014] == 0x01 {
			buf[0] = 0x80 // MCU stop acknowledged
		} else {
			buf[0] = 0x01 // booted
		}
	case index == 0x0007 && len(buf) == 1:
		buf[0] = 0x84 // benign stop status
	case index == 0x0009 && len(buf) == 1:
		buf[0] = s.power
	case index == 0x0021 && len(buf) == 1:
		if s.regs[0x0003] == 0x0d && !s.failChecksum {
			buf[0] = 0x10 // checksum ok
		} else {
			buf[0] = 0x04 // firmware access granted
		}
	case index == 0x7fff && len(buf) == 1:
		buf[0] = s.regs[0x7fff]
	case index == regUICmdStatus && len(buf) == 4:
		buf[0] = 0x02
		buf[1] = 0x03
		buf[2] = 0x00
		buf[3] = 0x00
	case index == regUICmdStart && s.nvmPending && len(buf) == nvmDataSize:
		for i := range buf {
			buf[i] = byte(i % 251)
		}
		s.nvmPending = false
	case index == regUICmdStart && s.haveDCI:
		s.serveDCI(buf)
	case index == 0x2ffc && len(buf) == 4:
		// Auto-stop flag: anything but 0x4ff forces the manual stop.
		buf[0], buf[1], buf[2], buf[3] = 0, 0, 0, 0
	default:
		s.t.Fatalf("unexpected read of %d bytes at 0x%04x", len(buf), index)
	}
	return nil
}

func (s *simSensor) WriteBytes(index uint16, data []byte) error {
	switch {
	case len(data) == 1:
		s.writeReg(index, data[0])
	case index == 0x0000:
		s.fwBytes += len(data) // firmware bank
	case index == 0x2fd8 && len(data) == NVMCommandSize:
		s.nvmPending = true
	case index == 0x2e18 && len(data) == offsetBufferSize:
		s.offsetSent++
		copy(s.lastOffset[:], data)
	case index == 0x2cf8 && len(data) == XtalkSize:
		s.xtalkSent++
	case index == 0x2c34 && len(data) == DefaultConfigSize:
		s.configSent = true
	case int(index)+len(data)-1 == regUICmdEnd:
		s.uiCommand(data)
	default:
		s.t.Fatalf("unexpected write of %d bytes at 0x%04x", len(data), index)
	}
	return nil
}

func (s *simSensor) WaitMS(ms uint32) error {
	s.waits += ms
	return nil
}

func (s *simSensor) SwapBuffer(buf []byte) { SwapBuffer(buf) }

func (s *simSensor) AddressChanged(addr uint16) { s.newAddr = addr }

func (s *simSensor) writeReg(index uint16, v uint8) {
	s.regs[index] = v
	switch index {
	case 0x0009:
		// 0x02 sleep and 0x04 wakeup move the power state; 0x05 is the
		// interrupt bypass command and leaves it alone.
		if v == 0x02 || v == 0x04 {
			s.power = v
		}
	case 0x000f:
		// Software reboot clears a pending checksum request.
		delete(s.regs, 0x0003)
	case 0x7fff:
		if v == 0x09 || v == 0x0a || v == 0x0b {
			s.bankOrder = append(s.bankOrder, v)
		}
	}
}

// uiCommand handles writes landing at the tail of the UI command window:
// ranging session commands, DCI read commands and DCI writes.
func (s *simSensor) uiCommand(data []byte) {
	if len(data) == 4 {
		return // session start command
	}
	idx := uint16(data[0])<<8 | uint16(data[1])
	size := int(data[2])<<4 | int(data[3])>>4
	if len(data) == 12 && data[9] == 0x02 && data[11] == 0x08 {
		s.pendingDCI = idx
		s.pendingLen = size
		s.haveDCI = true
		return
	}
	if len(data) != size+12 {
		s.t.Fatalf("dci write of %d bytes does not match header size %d", len(data), size)
	}
	logical := append([]byte(nil), data[4:4+size]...)
	SwapBuffer(logical)
	s.dci[idx] = logical
	s.dciWritten(idx, logical)
}

func (s *simSensor) dciWritten(idx uint16, logical []byte) {
	switch idx {
	case dciOutputConfig:
		s.dataReadSize = binary.LittleEndian.Uint32(logical)
		rd := make([]byte, 12)
		binary.LittleEndian.PutUint16(rd[8:], uint16(s.dataReadSize))
		s.dci[dciRangeData] = rd
	case dciOutputEnable:
		s.enables = binary.LittleEndian.Uint32(logical)
	}
}

func (s *simSensor) serveDCI(buf []byte) {
	if len(buf) != s.pendingLen+12 {
		s.t.Fatalf("dci readback of %d bytes, want %d", len(buf), s.pendingLen+12)
	}
	block, ok := s.dci[s.pendingDCI]
	if !ok {
		s.t.Fatalf("dci read of unseeded block 0x%04x", s.pendingDCI)
	}
	for i := range buf {
		buf[i] = 0
	}
	copy(buf[4:4+s.pendingLen], block)
	SwapBuffer(buf)
	s.haveDCI = false
}

func (s *simSensor) resolution() int {
	zone := s.dci[dciZoneConfig]
	return int(zone[0]) * int(zone[1])
}

// Synthetic per-zone values the frame builder encodes and the assertions
// below expect back after scaling.
func simDistance(z, t int) int16 { return int16(100*(z+1) + t) }
func simSignal(z, t int) uint32  { return uint32(10 + z + t) }
func simSigma(t int) uint16      { return uint16(3 + t) }
func simAmbient(z int) uint32    { return uint32(7 + z) }
func simSPADs(z int) uint32      { return uint32(50 + z) }
func simReflectance(z int) uint8 { return uint8(40 + z) }

// frameRaw produces the raw (byte-swapped) result packet for the current
// sequence number, resolution and enabled categories.
func (s *simSensor) frameRaw() []byte {
	zones := s.resolution()
	targets := MaxTargetsPerZone

	buf := make([]byte, 16, s.dataReadSize)
	buf[3] = s.seq

	bh := func(header, size uint32) {
		btype := header & 0xf
		if btype >= 0x1 && btype < 0xd {
			header = header&0xffff000f | size<<4
		}
		var h [4]byte
		binary.LittleEndian.PutUint32(h[:], header)
		buf = append(buf, h[:]...)
	}
	le16 := func(v uint16) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		buf = append(buf, b[:]...)
	}
	le32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}

	bh(bhStart, 0)
	bh(bhMetadata, 0)
	meta := make([]byte, 12)
	meta[8] = byte(s.silicon)
	buf = append(buf, meta...)
	bh(bhCommonData, 0)
	buf = append(buf, make([]byte, 4)...)

	if s.enables&(1<<3) != 0 {
		bh(bhAmbientRate, uint32(zones))
		for z := 0; z < zones; z++ {
			le32(2048 * simAmbient(z))
		}
	}
	if s.enables&(1<<4) != 0 {
		bh(bhSpadCount, uint32(zones))
		for z := 0; z < zones; z++ {
			le32(simSPADs(z))
		}
	}
	if s.enables&(1<<5) != 0 {
		bh(bhNbTarget, uint32(zones))
		for z := 0; z < zones; z++ {
			if z == emptyZone {
				buf = append(buf, 0)
			} else {
				buf = append(buf, 1)
			}
		}
	}
	if s.enables&(1<<6) != 0 {
		bh(bhSignalRate, uint32(zones*targets))
		for z := 0; z < zones; z++ {
			for t := 0; t < targets; t++ {
				le32(2048 * simSignal(z, t))
			}
		}
	}
	if s.enables&(1<<7) != 0 {
		bh(bhRangeSigma, uint32(zones*targets))
		for z := 0; z < zones; z++ {
			for t := 0; t < targets; t++ {
				le16(128 * simSigma(t))
			}
		}
	}
	if s.enables&(1<<8) != 0 {
		bh(bhDistance, uint32(zones*targets))
		for z := 0; z < zones; z++ {
			for t := 0; t < targets; t++ {
				le16(uint16(4 * simDistance(z, t)))
			}
		}
	}
	if s.enables&(1<<9) != 0 {
		bh(bhReflectance, uint32(zones*targets))
		for z := 0; z < zones; z++ {
			for t := 0; t < targets; t++ {
				buf = append(buf, simReflectance(z))
			}
		}
	}
	if s.enables&(1<<10) != 0 {
		bh(bhTargetStatus, uint32(zones*targets))
		for z := 0; z < zones; z++ {
			for t := 0; t < targets; t++ {
				buf = append(buf, uint8(TargetStatusValid))
			}
		}
	}
	buf = append(buf, make([]byte, 4)...)

	if len(buf) != int(s.dataReadSize) {
		s.t.Fatalf("built frame of %d bytes, driver expects %d", len(buf), s.dataReadSize)
	}
	SwapBuffer(buf)
	return buf
}
