package vl53l5cx

import "encoding/binary"

// StartRanging builds the output block list for the compiled-in categories,
// programs it into the firmware and starts the session. The transfer size the
// firmware settles on is read back and checked against the host's own
// arithmetic before the device is considered ranging.
func (d *Device) StartRanging() error {
	if err := d.requireIdle(); err != nil {
		return err
	}

	res, err := d.readResolution()
	if err != nil {
		return err
	}
	d.resolution = res
	d.streamCount = 255
	d.dataReadSize = 0

	// Candidate output blocks, one enable bit each. Enabled blocks get
	// their size field patched to the session's zone and target counts.
	output := [12]uint32{
		bhStart, bhMetadata, bhCommonData,
		bhAmbientRate, bhSpadCount, bhNbTarget,
		bhSignalRate, bhRangeSigma, bhDistance,
		bhReflectance, bhTargetStatus, bhMotionDetect,
	}

	zones := uint32(res.Zones())
	for i := range output {
		if outputEnableBits&(uint32(1)<<uint(i)) == 0 {
			continue
		}
		bh := output[i]
		btype := bh & 0xf
		if btype >= 0x1 && btype < 0xd {
			idx := uint16(bh >> 16)
			size := zones
			if idx < idxPerZoneFirst || idx >= idxPerZoneLast {
				size = zones * MaxTargetsPerZone
			}
			output[i] = bh&0xffff000f | size<<4
			d.dataReadSize += btype * size
		} else {
			d.dataReadSize += bh >> 4 & 0xfff
		}
		d.dataReadSize += 4
	}
	d.dataReadSize += 20

	var list [48]byte
	for i, bh := range output {
		binary.LittleEndian.PutUint32(list[4*i:], bh)
	}
	if err := d.dciWrite(dciOutputList, list[:]); err != nil {
		return err
	}

	var headerConfig [8]byte
	binary.LittleEndian.PutUint32(headerConfig[0:], d.dataReadSize)
	binary.LittleEndian.PutUint32(headerConfig[4:], uint32(len(output))+1)
	if err := d.dciWrite(dciOutputConfig, headerConfig[:]); err != nil {
		return err
	}

	var enables [16]byte
	binary.LittleEndian.PutUint32(enables[0:], outputEnableBits)
	binary.LittleEndian.PutUint32(enables[12:], 0xc0000000)
	if err := d.dciWrite(dciOutputEnable, enables[:]); err != nil {
		return err
	}

	// Route the interrupt through the xshut bypass.
	if err := d.wrSeq([]regWrite{
		{0x7fff, 0x00},
		{0x0009, 0x05},
		{0x7fff, 0x02},
	}); err != nil {
		return err
	}

	cmd := [4]byte{0x00, 0x03, 0x00, 0x00}
	if err := d.p.WriteBytes(regUICmdEnd-3, cmd[:]); err != nil {
		return err
	}
	if err := d.pollForAnswer(4, 1, regUICmdStatus, 0xff, 0x03); err != nil {
		return err
	}

	var rangeData [12]byte
	if err := d.dciRead(dciRangeData, rangeData[:]); err != nil {
		return err
	}
	if binary.LittleEndian.Uint16(rangeData[8:]) != uint16(d.dataReadSize) {
		return devErr("start ranging", StatusError)
	}

	d.state = stateRanging
	return nil
}

// StopRanging halts the session. The MCU is stopped by hand unless the
// firmware already stopped on its own, then the interrupt bypass is unwound.
// The device is considered idle afterwards even when stopping reported an
// error, since the session is gone either way.
func (d *Device) StopRanging() error {
	if err := d.requireRanging(); err != nil {
		return err
	}

	var flag [4]byte
	err := d.p.ReadBytes(0x2ffc, flag[:])
	if err == nil && binary.LittleEndian.Uint32(flag[:]) != 0x4ff {
		err = d.provokeMCUStop()
	}

	if err == nil {
		var s0 uint8
		if s0, err = d.rdByte(0x0006); err == nil && s0&0x80 != 0 {
			var s1 uint8
			if s1, err = d.rdByte(0x0007); err == nil && s1 != 0x84 && s1 != 0x85 {
				err = devErr("stop ranging", Status(s1))
			}
		}
	}

	// Undo the MCU stop and the xshut bypass even when stopping failed.
	undoErr := d.wrSeq([]regWrite{
		{0x7fff, 0x00},
		{0x0014, 0x00},
		{0x0015, 0x00},
		{0x0009, 0x04},
		{0x7fff, 0x02},
	})
	d.state = stateIdle
	if err == nil {
		err = undoErr
	}
	return err
}

func (d *Device) provokeMCUStop() error {
	if err := d.wrSeq([]regWrite{
		{0x7fff, 0x00},
		{0x0015, 0x16},
		{0x0014, 0x01},
	}); err != nil {
		return err
	}
	for timeout := 0; timeout <= 500; timeout++ {
		s0, err := d.rdByte(0x0006)
		if err != nil {
			return err
		}
		if s0&0x80 != 0 {
			return nil
		}
		if err := d.p.WaitMS(10); err != nil {
			return err
		}
	}
	return ErrTimeout
}

// CheckDataReady reports whether a frame newer than the one last collected by
// GetRangingData is available. It never blocks and has no side effects, so
// polling it repeatedly before collecting is fine.
func (d *Device) CheckDataReady() (bool, error) {
	if err := d.requireRanging(); err != nil {
		return false, err
	}
	var hdr [4]byte
	if err := d.p.ReadBytes(0x0000, hdr[:]); err != nil {
		return false, err
	}
	if hdr[0] != d.streamCount && hdr[0] != 255 &&
		hdr[1] == 0x05 && hdr[2]&0x05 == 0x05 && hdr[3]&0x10 == 0x10 {
		return true, nil
	}
	if hdr[3]&0x80 != 0 {
		return false, devErr("check data ready", Status(hdr[2]))
	}
	return false, nil
}
