package vl53l5cx

// Init performs the full sensor bringup: software reboot, firmware upload
// with checksum verification, factory calibration restore from NVM and the
// default ranging configuration. It leaves the device idle at 4x4 resolution.
// A sensor that lost power forgets everything, so it must be re-initialized;
// calling Init again from idle does that.
func (d *Device) Init() error {
	if d.state == stateRanging {
		return ErrNotIdle
	}
	d.state = stateUninitialized

	if err := d.rebootSensor(); err != nil {
		return err
	}
	if err := d.uploadFirmware(); err != nil {
		return err
	}
	if err := d.bootMCU(); err != nil {
		return err
	}
	if err := d.restoreFactoryData(); err != nil {
		return err
	}
	if err := d.applyStartupConfig(); err != nil {
		return err
	}
	d.state = stateIdle
	return nil
}

// rebootSensor drives the software reboot and power-on register dance, then
// waits for the boot ROM to report ready.
func (d *Device) rebootSensor() error {
	if err := d.wrSeq([]regWrite{
		{0x7fff, 0x00},
		{0x0009, 0x04},
		{0x000f, 0x40},
		{0x000a, 0x03},
	}); err != nil {
		return err
	}
	if _, err := d.rdByte(0x7fff); err != nil {
		return err
	}
	if err := d.wrSeq([]regWrite{
		{0x000c, 0x01},
		{0x0101, 0x00},
		{0x0102, 0x00},
		{0x010a, 0x01},
		{0x4002, 0x01},
		{0x4002, 0x00},
		{0x010a, 0x03},
		{0x0103, 0x01},
		{0x000c, 0x00},
		{0x000f, 0x43},
	}); err != nil {
		return err
	}
	if err := d.p.WaitMS(1); err != nil {
		return err
	}
	if err := d.wrSeq([]regWrite{
		{0x000f, 0x40},
		{0x000a, 0x01},
	}); err != nil {
		return err
	}
	if err := d.p.WaitMS(100); err != nil {
		return err
	}

	if err := d.wrByte(0x7fff, 0x00); err != nil {
		return err
	}
	if err := d.pollForAnswer(1, 0, 0x06, 0xff, 0x01); err != nil {
		return err
	}
	return d.wrSeq([]regWrite{
		{0x000e, 0x01},
		{0x7fff, 0x02},
	})
}

// uploadFirmware streams the MCU image into the three banks the bootloader
// maps at address 0 and verifies the firmware checksum.
func (d *Device) uploadFirmware() error {
	if err := d.wrSeq([]regWrite{
		{0x7fff, 0x01},
		{0x0006, 0x01},
	}); err != nil {
		return err
	}
	if err := d.pollForAnswer(1, 0, 0x21, 0xff, 0x04); err != nil {
		return err
	}
	if err := d.wrByte(0x7fff, 0x00); err != nil {
		return err
	}

	// Host access to GO1.
	if _, err := d.rdByte(0x7fff); err != nil {
		return err
	}
	if err := d.wrByte(0x000c, 0x01); err != nil {
		return err
	}

	// Power-on status.
	if err := d.wrSeq([]regWrite{
		{0x7fff, 0x00},
		{0x0101, 0x00},
		{0x0102, 0x00},
		{0x010a, 0x01},
		{0x4002, 0x01},
		{0x4002, 0x00},
		{0x010a, 0x03},
		{0x0103, 0x01},
		{0x400f, 0x00},
		{0x021a, 0x43},
		{0x021a, 0x03},
		{0x021a, 0x01},
		{0x021a, 0x00},
		{0x0219, 0x00},
		{0x021b, 0x00},
	}); err != nil {
		return err
	}

	// Wake up the MCU.
	if err := d.wrByte(0x7fff, 0x00); err != nil {
		return err
	}
	if _, err := d.rdByte(0x7fff); err != nil {
		return err
	}
	if err := d.wrSeq([]regWrite{
		{0x000c, 0x00},
		{0x7fff, 0x01},
		{0x0020, 0x07},
		{0x0020, 0x06},
	}); err != nil {
		return err
	}

	fw := d.bundle.Firmware
	for _, bank := range []struct {
		sel  uint8
		data []byte
	}{
		{0x09, fw[:0x8000]},
		{0x0a, fw[0x8000:0x10000]},
		{0x0b, fw[0x10000:]},
	} {
		if err := d.wrByte(0x7fff, bank.sel); err != nil {
			return err
		}
		if err := d.p.WriteBytes(0, bank.data); err != nil {
			return err
		}
	}
	if err := d.wrByte(0x7fff, 0x01); err != nil {
		return err
	}

	// Checksum check.
	if err := d.wrSeq([]regWrite{
		{0x7fff, 0x02},
		{0x0003, 0x0d},
		{0x7fff, 0x01},
	}); err != nil {
		return err
	}
	return d.pollForAnswer(1, 0, 0x21, 0x10, 0x10)
}

// bootMCU resets the MCU into the freshly uploaded firmware and waits for it
// to come up.
func (d *Device) bootMCU() error {
	if err := d.wrByte(0x7fff, 0x00); err != nil {
		return err
	}
	if _, err := d.rdByte(0x7fff); err != nil {
		return err
	}
	if err := d.wrByte(0x000c, 0x01); err != nil {
		return err
	}

	if err := d.wrSeq([]regWrite{
		{0x7fff, 0x00},
		{0x0114, 0x00},
		{0x0115, 0x00},
		{0x0116, 0x42},
		{0x0117, 0x00},
		{0x000b, 0x00},
	}); err != nil {
		return err
	}
	if _, err := d.rdByte(0x7fff); err != nil {
		return err
	}
	if err := d.wrSeq([]regWrite{
		{0x000c, 0x00},
		{0x000b, 0x01},
	}); err != nil {
		return err
	}
	if err := d.pollForMCUBoot(); err != nil {
		return err
	}
	return d.wrByte(0x7fff, 0x02)
}

// restoreFactoryData reads the per-unit offset calibration out of NVM and
// pushes it, together with the default crosstalk table, to the firmware.
func (d *Device) restoreFactoryData() error {
	if err := d.p.WriteBytes(0x2fd8, d.bundle.NVMCommand); err != nil {
		return err
	}
	if err := d.pollForAnswer(4, 0, regUICmdStatus, 0xff, 0x02); err != nil {
		return err
	}
	if err := d.p.ReadBytes(regUICmdStart, d.temp[:nvmDataSize]); err != nil {
		return err
	}
	copy(d.offsetData[:], d.temp[:offsetBufferSize])
	if err := d.sendOffsetData(Resolution4x4); err != nil {
		return err
	}

	copy(d.xtalkData[:], d.bundle.DefaultXtalk)
	return d.sendXtalkData(Resolution4x4)
}

// applyStartupConfig loads the default configuration block and the runtime
// pipe settings: target count, single-range mode and the glare filter.
func (d *Device) applyStartupConfig() error {
	if err := d.p.WriteBytes(0x2c34, d.bundle.DefaultConfiguration); err != nil {
		return err
	}
	if err := d.pollForAnswer(4, 1, regUICmdStatus, 0xff, 0x03); err != nil {
		return err
	}

	pipeCtrl := [4]byte{MaxTargetsPerZone, 0x00, 0x01, 0x00}
	if err := d.dciWrite(dciPipeControl, pipeCtrl[:]); err != nil {
		return err
	}
	if MaxTargetsPerZone != 1 {
		var block [16]byte
		patch := [1]byte{MaxTargetsPerZone}
		if err := d.dciReplace(dciFWNbTarget, block[:], patch[:], 0x0c); err != nil {
			return err
		}
	}

	singleRange := [4]byte{0x01, 0x00, 0x00, 0x00}
	if err := d.dciWrite(dciSingleRange, singleRange[:]); err != nil {
		return err
	}

	glare := [2]byte{0x01, 0x01}
	return d.dciWrite(dciGlareFilter, glare[:])
}
