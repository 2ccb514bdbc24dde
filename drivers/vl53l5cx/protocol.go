package vl53l5cx

// Low level register access and DCI (device configuration interface)
// transactions. Every exchange goes through the scratch buffer d.temp so the
// driver performs no per-call allocation.

// regWrite is one step of a scripted register sequence.
type regWrite struct {
	index uint16
	value uint8
}

func (d *Device) wrSeq(seq []regWrite) error {
	for _, w := range seq {
		if err := d.wrByte(w.index, w.value); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) rdByte(index uint16) (uint8, error) {
	var b [1]byte
	if err := d.p.ReadBytes(index, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Device) wrByte(index uint16, value uint8) error {
	b := [1]byte{value}
	return d.p.WriteBytes(index, b[:])
}

// pollForAnswer reads size bytes from index every 10ms until
// buf[pos]&mask == expected. It gives up after 2 seconds, and reports an MCU
// fault when the status byte carries one.
func (d *Device) pollForAnswer(size, pos int, index uint16, mask, expected uint8) error {
	for timeout := 0; ; timeout++ {
		if err := d.p.ReadBytes(index, d.temp[:size]); err != nil {
			return err
		}
		if err := d.p.WaitMS(10); err != nil {
			return err
		}
		if timeout >= 200 {
			return ErrTimeout
		}
		if size >= 4 && d.temp[2] >= 0x7f {
			return devErr("poll answer", statusMCUError)
		}
		if d.temp[pos]&mask == expected {
			return nil
		}
	}
}

// pollForMCUBoot waits up to 500ms for the firmware to report boot completion
// in GO2_STATUS_0. A set error bit aborts the wait with the fault code from
// GO2_STATUS_1.
func (d *Device) pollForMCUBoot() error {
	for timeout := 0; timeout < 500; timeout++ {
		s0, err := d.rdByte(0x06)
		if err != nil {
			return err
		}
		if s0&0x80 != 0 {
			s1, err := d.rdByte(0x07)
			if err != nil {
				return err
			}
			return devErr("mcu boot", Status(s1))
		}
		if err := d.p.WaitMS(1); err != nil {
			return err
		}
		if s0&0x01 != 0 {
			return nil
		}
	}
	return nil
}

// dciRead fetches len(data) bytes of the DCI block at index.
func (d *Device) dciRead(index uint16, data []byte) error {
	size := len(data)
	if size+12 > len(d.temp) {
		return devErr("dci read", StatusError)
	}
	cmd := [12]byte{
		byte(index >> 8), byte(index),
		byte((size & 0xff0) >> 4), byte((size & 0xf) << 4),
		0x00, 0x00, 0x00, 0x0f,
		0x00, 0x02, 0x00, 0x08,
	}
	if err := d.p.WriteBytes(regUICmdEnd-11, cmd[:]); err != nil {
		return err
	}
	if err := d.pollForAnswer(4, 1, regUICmdStatus, 0xff, 0x03); err != nil {
		return err
	}
	if err := d.p.ReadBytes(regUICmdStart, d.temp[:size+12]); err != nil {
		return err
	}
	d.p.SwapBuffer(d.temp[:size+12])
	copy(data, d.temp[4:4+size])
	return nil
}

// dciWrite stores data into the DCI block at index. The caller's slice is
// swapped in place for the transfer and restored before returning.
func (d *Device) dciWrite(index uint16, data []byte) error {
	size := len(data)
	if size+12 > len(d.temp) {
		return devErr("dci write", StatusError)
	}
	header := [4]byte{
		byte(index >> 8), byte(index),
		byte((size & 0xff0) >> 4), byte((size & 0xf) << 4),
	}
	footer := [8]byte{
		0x00, 0x00, 0x00, 0x0f, 0x05, 0x01,
		byte((size + 8) >> 8), byte(size + 8),
	}
	address := regUICmdEnd - uint16(size+12) + 1

	d.p.SwapBuffer(data)
	copy(d.temp[:4], header[:])
	copy(d.temp[4:], data)
	copy(d.temp[4+size:], footer[:])

	err := d.p.WriteBytes(address, d.temp[:size+12])
	if err == nil {
		err = d.pollForAnswer(4, 1, regUICmdStatus, 0xff, 0x03)
	}
	d.p.SwapBuffer(data)
	return err
}

// dciReplace patches len(patch) bytes at offset pos inside the DCI block at
// index, leaving the rest of the block as the device reported it.
func (d *Device) dciReplace(index uint16, data []byte, patch []byte, pos int) error {
	if err := d.dciRead(index, data); err != nil {
		return err
	}
	copy(data[pos:], patch)
	return d.dciWrite(index, data)
}
