// Package vl53l5cx drives the ST VL53L5CX multi-zone time-of-flight sensor.
//
// The sensor resolves distances over a 4x4 or 8x8 zone grid at up to 60Hz and
// holds no firmware in non-volatile storage, so Init must upload the vendor
// firmware image on every cold boot. All bus traffic goes through the
// Platform interface; NewI2CPlatform adapts any drivers.I2C bus.
//
// Result categories (distance, target status, signal rate and so on) are
// selected at build time with vl53l5cx_no_* tags, and the per-zone target
// capacity with a vl53l5cx_targetsN tag. Disabled categories are neither
// requested from the sensor nor stored, which shrinks both the I2C transfer
// and the Frame.
package vl53l5cx

// deviceState tracks the session lifecycle. Configuration is only accepted
// while idle, results are only served while ranging.
type deviceState uint8

const (
	stateUninitialized deviceState = iota
	stateIdle
	stateRanging
)

// maxResultsSize is the largest ranging packet the compiled-in categories can
// produce: 48 bytes of framing (packet header, start, metadata and common
// blocks plus trailer) and one maximally sized block per category.
const maxResultsSize = 48 +
	ambientBlockSize + spadsBlockSize + nbTargetsBlockSize +
	signalBlockSize + sigmaBlockSize + distanceBlockSize +
	reflectanceBlockSize + statusBlockSize

// The scratch buffer also serves firmware checksum reads and DCI transfers,
// which need 1KiB regardless of the result configuration.
const tempBufferSize = max(1024, maxResultsSize)

// outputEnableBits is the block enable mask sent at ranging start: header,
// metadata and common data always, plus one bit per compiled-in category.
const outputEnableBits uint32 = 0x7 |
	ambientEnableBit | spadsEnableBit | nbTargetsEnableBit |
	signalEnableBit | sigmaEnableBit | distanceEnableBit |
	reflectanceEnableBit | statusEnableBit

// Config holds the inputs needed to initialize a Device.
type Config struct {
	// Bundle supplies the firmware image and factory tables uploaded by
	// Init. Required.
	Bundle *FirmwareBundle
}

// Device is a VL53L5CX sensor handle. It is not safe for concurrent use.
type Device struct {
	p Platform

	state        deviceState
	bundle       *FirmwareBundle
	resolution   Resolution
	streamCount  uint8
	dataReadSize uint32

	// Factory calibration read back from NVM during Init, re-sent to the
	// firmware whenever the resolution changes.
	offsetData [offsetBufferSize]byte
	xtalkData  [XtalkSize]byte

	temp [tempBufferSize]byte
}

// New prepares a Device on the given platform. The sensor itself is untouched
// until Init.
func New(p Platform, cfg Config) (*Device, error) {
	if cfg.Bundle == nil {
		return nil, ErrBundle
	}
	if err := cfg.Bundle.validate(); err != nil {
		return nil, err
	}
	return &Device{p: p, bundle: cfg.Bundle}, nil
}

func (d *Device) requireInit() error {
	if d.state == stateUninitialized {
		return ErrNotInitialized
	}
	return nil
}

func (d *Device) requireIdle() error {
	switch d.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateRanging:
		return ErrNotIdle
	}
	return nil
}

func (d *Device) requireRanging() error {
	switch d.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateIdle:
		return ErrNotRanging
	}
	return nil
}
