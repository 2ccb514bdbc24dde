package vl53l5cx

// Configuration is only accepted while the device is idle. The firmware
// ignores or corrupts DCI writes that land during ranging, so every setter
// here goes through requireIdle.

// IsAlive probes the device and revision identifiers. It works before Init
// and is the cheapest way to confirm the sensor answers on the bus.
func (d *Device) IsAlive() (bool, error) {
	if err := d.wrByte(0x7fff, 0x00); err != nil {
		return false, err
	}
	deviceID, err := d.rdByte(0x0000)
	if err != nil {
		return false, err
	}
	revisionID, err := d.rdByte(0x0001)
	if err != nil {
		return false, err
	}
	if err := d.wrByte(0x7fff, 0x02); err != nil {
		return false, err
	}
	return deviceID == 0xf0 && revisionID == 0x02, nil
}

// SetI2CAddress moves the sensor to a new 7-bit bus address. When the
// platform implements AddressObserver it is told before the final register
// write, which already has to reach the device at its new address.
func (d *Device) SetI2CAddress(addr uint16) error {
	if d.state == stateRanging {
		return ErrNotIdle
	}
	if addr == 0 || addr > 0x7f {
		return ErrInvalidParam
	}
	if err := d.wrByte(0x7fff, 0x00); err != nil {
		return err
	}
	if err := d.wrByte(0x0004, uint8(addr)); err != nil {
		return err
	}
	if obs, ok := d.p.(AddressObserver); ok {
		obs.AddressChanged(addr)
	}
	return d.wrByte(0x7fff, 0x02)
}

func (d *Device) readResolution() (Resolution, error) {
	var zone [8]byte
	if err := d.dciRead(dciZoneConfig, zone[:]); err != nil {
		return 0, err
	}
	return decodeResolution(zone[0] * zone[1])
}

// GetResolution reads the zone grid currently configured on the device.
func (d *Device) GetResolution() (Resolution, error) {
	if err := d.requireIdle(); err != nil {
		return 0, err
	}
	return d.readResolution()
}

// SetResolution switches the zone grid between 4x4 and 8x8. The calibration
// tables depend on the grid, so both are rescaled and re-sent.
func (d *Device) SetResolution(res Resolution) error {
	if err := d.requireIdle(); err != nil {
		return err
	}

	var dss [16]byte
	var zone [8]byte
	switch res {
	case Resolution4x4:
		if err := d.dciRead(dciDSSConfig, dss[:]); err != nil {
			return err
		}
		dss[0x04] = 64
		dss[0x06] = 64
		dss[0x09] = 4
		if err := d.dciWrite(dciDSSConfig, dss[:]); err != nil {
			return err
		}
		if err := d.dciRead(dciZoneConfig, zone[:]); err != nil {
			return err
		}
		zone[0x00] = 4
		zone[0x01] = 4
		zone[0x04] = 8
		zone[0x05] = 8
		if err := d.dciWrite(dciZoneConfig, zone[:]); err != nil {
			return err
		}
	case Resolution8x8:
		if err := d.dciRead(dciDSSConfig, dss[:]); err != nil {
			return err
		}
		dss[0x04] = 16
		dss[0x06] = 16
		dss[0x09] = 1
		if err := d.dciWrite(dciDSSConfig, dss[:]); err != nil {
			return err
		}
		if err := d.dciRead(dciZoneConfig, zone[:]); err != nil {
			return err
		}
		zone[0x00] = 8
		zone[0x01] = 8
		zone[0x04] = 4
		zone[0x05] = 4
		if err := d.dciWrite(dciZoneConfig, zone[:]); err != nil {
			return err
		}
	default:
		return ErrInvalidParam
	}

	if err := d.sendOffsetData(res); err != nil {
		return err
	}
	return d.sendXtalkData(res)
}

// GetRangingFrequencyHz reads the configured ranging rate.
func (d *Device) GetRangingFrequencyHz() (uint8, error) {
	if err := d.requireIdle(); err != nil {
		return 0, err
	}
	var block [4]byte
	if err := d.dciRead(dciFreqHz, block[:]); err != nil {
		return 0, err
	}
	return block[0x01], nil
}

// SetRangingFrequencyHz sets the ranging rate. The ceiling depends on the
// grid: 60Hz at 4x4, 15Hz at 8x8.
func (d *Device) SetRangingFrequencyHz(hz uint8) error {
	if err := d.requireIdle(); err != nil {
		return err
	}
	res, err := d.readResolution()
	if err != nil {
		return err
	}
	if hz < 1 || hz > res.MaxFrequencyHz() {
		return ErrInvalidParam
	}
	var block [4]byte
	patch := [1]byte{hz}
	return d.dciReplace(dciFreqHz, block[:], patch[:], 0x01)
}

// GetIntegrationTimeMS reads the per-ranging integration time.
func (d *Device) GetIntegrationTimeMS() (uint32, error) {
	if err := d.requireIdle(); err != nil {
		return 0, err
	}
	var block [20]byte
	if err := d.dciRead(dciIntTime, block[:]); err != nil {
		return 0, err
	}
	us := uint32(block[0]) | uint32(block[1])<<8 | uint32(block[2])<<16 | uint32(block[3])<<24
	return us / 1000, nil
}

// SetIntegrationTimeMS sets the integration time, 2 to 1000 milliseconds.
// The value only applies in autonomous mode; continuous mode always
// integrates for the full frame period.
func (d *Device) SetIntegrationTimeMS(ms uint32) error {
	if err := d.requireIdle(); err != nil {
		return err
	}
	if ms < 2 || ms > 1000 {
		return ErrInvalidParam
	}
	us := ms * 1000
	patch := [4]byte{byte(us), byte(us >> 8), byte(us >> 16), byte(us >> 24)}
	var block [20]byte
	return d.dciReplace(dciIntTime, block[:], patch[:], 0x00)
}

// GetSharpenerPercent reads the sharpener strength as a percentage.
func (d *Device) GetSharpenerPercent() (uint8, error) {
	if err := d.requireIdle(); err != nil {
		return 0, err
	}
	var block [16]byte
	if err := d.dciRead(dciSharpener, block[:]); err != nil {
		return 0, err
	}
	return uint8((int(block[0x0d]) * 100) / 255), nil
}

// SetSharpenerPercent sets the sharpener strength, 0 to 99 percent. Higher
// values keep close targets in neighbouring zones better separated.
func (d *Device) SetSharpenerPercent(pct uint8) error {
	if err := d.requireIdle(); err != nil {
		return err
	}
	if pct >= 100 {
		return ErrInvalidParam
	}
	patch := [1]byte{uint8((int(pct) * 255) / 100)}
	var block [16]byte
	return d.dciReplace(dciSharpener, block[:], patch[:], 0x0d)
}

// GetTargetOrder reads how targets within a zone are ranked.
func (d *Device) GetTargetOrder() (TargetOrder, error) {
	if err := d.requireIdle(); err != nil {
		return 0, err
	}
	var block [4]byte
	if err := d.dciRead(dciTargetOrder, block[:]); err != nil {
		return 0, err
	}
	return decodeTargetOrder(block[0])
}

// SetTargetOrder selects how targets within a zone are ranked.
func (d *Device) SetTargetOrder(order TargetOrder) error {
	if err := d.requireIdle(); err != nil {
		return err
	}
	if order != TargetOrderClosest && order != TargetOrderStrongest {
		return ErrInvalidParam
	}
	patch := [1]byte{uint8(order)}
	var block [4]byte
	return d.dciReplace(dciTargetOrder, block[:], patch[:], 0x00)
}

// GetRangingMode reads the configured ranging mode.
func (d *Device) GetRangingMode() (RangingMode, error) {
	if err := d.requireIdle(); err != nil {
		return 0, err
	}
	var block [8]byte
	if err := d.dciRead(dciRangingMode, block[:]); err != nil {
		return 0, err
	}
	return decodeRangingMode(block[0x01])
}

// SetRangingMode switches between continuous and autonomous ranging.
// Continuous mode ranges back to back at maximum duty; autonomous mode idles
// between frames and honours the integration time.
func (d *Device) SetRangingMode(mode RangingMode) error {
	if err := d.requireIdle(); err != nil {
		return err
	}
	var block [8]byte
	if err := d.dciRead(dciRangingMode, block[:]); err != nil {
		return err
	}

	var singleRange [4]byte
	switch mode {
	case RangingModeContinuous:
		block[0x01] = 0x01
		block[0x05] = 0x05
		singleRange[0] = 0x00
	case RangingModeAutonomous:
		block[0x01] = 0x03
		block[0x05] = 0x02
		singleRange[0] = 0x01
	default:
		return ErrInvalidParam
	}

	if err := d.dciWrite(dciRangingMode, block[:]); err != nil {
		return err
	}
	return d.dciWrite(dciSingleRange, singleRange[:])
}

// GetPowerMode reads the device power state.
func (d *Device) GetPowerMode() (PowerMode, error) {
	if err := d.requireIdle(); err != nil {
		return 0, err
	}
	return d.readPowerMode()
}

func (d *Device) readPowerMode() (PowerMode, error) {
	if err := d.wrByte(0x7fff, 0x00); err != nil {
		return 0, err
	}
	reg, err := d.rdByte(0x0009)
	if err != nil {
		return 0, err
	}
	mode, err := decodePowerReg(reg)
	if err != nil {
		return 0, err
	}
	return mode, d.wrByte(0x7fff, 0x02)
}

// SetPowerMode moves the device between sleep and wakeup. Sleep retains the
// uploaded firmware but loses the ranging session, so it is only accepted
// while idle. Waking up waits for the MCU to boot again.
func (d *Device) SetPowerMode(mode PowerMode) error {
	if err := d.requireIdle(); err != nil {
		return err
	}
	current, err := d.readPowerMode()
	if err != nil {
		return err
	}
	if mode == current {
		return nil
	}

	switch mode {
	case PowerModeWakeup:
		if err := d.wrByte(0x7fff, 0x00); err != nil {
			return err
		}
		if err := d.wrByte(0x0009, 0x04); err != nil {
			return err
		}
		if err := d.pollForMCUBoot(); err != nil {
			return err
		}
	case PowerModeSleep:
		if err := d.wrByte(0x7fff, 0x00); err != nil {
			return err
		}
		if err := d.wrByte(0x0009, 0x02); err != nil {
			return err
		}
	default:
		return ErrInvalidParam
	}
	return d.wrByte(0x7fff, 0x02)
}
