package vl53l5cx

import (
	"errors"
	"strconv"
)

// Status is the sensor's result code. The device only guarantees OK and
// Error as meaningful in isolation; every other value is an undocumented
// combination of error bits and is preserved raw for diagnostics.
type Status uint8

const (
	StatusOK    Status = 0
	StatusError Status = 255

	// Raised when the firmware MCU reports a fault during a command poll.
	// Not part of the exposed closed set; collapses to StatusError.
	statusMCUError Status = 66
)

// Errors returned by the driver.
var (
	ErrNotInitialized = errors.New("vl53l5cx: device not initialized")
	ErrNotIdle        = errors.New("vl53l5cx: device is ranging")
	ErrNotRanging     = errors.New("vl53l5cx: device is not ranging")
	ErrTimeout        = errors.New("vl53l5cx: timeout waiting for device")
	ErrInvalidParam   = errors.New("vl53l5cx: invalid parameter")
	ErrBadEnum        = errors.New("vl53l5cx: unknown value read from device")
	ErrCorruptFrame   = errors.New("vl53l5cx: corrupt result frame")
	ErrBundle         = errors.New("vl53l5cx: bad firmware bundle")
)

// DeviceError carries a non-OK status accumulated from the device during the
// named operation.
type DeviceError struct {
	Op     string
	Status Status
}

func (e *DeviceError) Error() string {
	return "vl53l5cx: " + e.Op + ": device status " + strconv.Itoa(int(e.Status))
}

// devErr folds a raw status byte into an error, nil when the status is OK.
func devErr(op string, st Status) error {
	if st == StatusOK {
		return nil
	}
	return &DeviceError{Op: op, Status: st}
}

// StatusOf collapses an error to the closed status pair: nil is StatusOK,
// everything else StatusError. The raw device byte, when there is one, stays
// on the DeviceError for diagnostics.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	return StatusError
}
