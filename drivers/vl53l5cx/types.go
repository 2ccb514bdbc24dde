package vl53l5cx

// Resolution selects the zone grid. The wire value is the zone count.
type Resolution uint8

const (
	Resolution4x4 Resolution = 16
	Resolution8x8 Resolution = 64
)

// Side returns the grid side length (4 or 8).
func (r Resolution) Side() int {
	if r == Resolution8x8 {
		return 8
	}
	return 4
}

// Zones returns the number of addressable zones (16 or 64).
func (r Resolution) Zones() int { return int(r) }

func (r Resolution) String() string {
	switch r {
	case Resolution4x4:
		return "4x4"
	case Resolution8x8:
		return "8x8"
	default:
		return "invalid"
	}
}

// MaxFrequencyHz returns the highest ranging frequency the device accepts at
// this resolution.
func (r Resolution) MaxFrequencyHz() uint8 {
	if r == Resolution8x8 {
		return 15
	}
	return 60
}

func decodeResolution(v uint8) (Resolution, error) {
	switch Resolution(v) {
	case Resolution4x4, Resolution8x8:
		return Resolution(v), nil
	default:
		return 0, ErrBadEnum
	}
}

// TargetOrder selects how targets within a zone are ranked.
type TargetOrder uint8

const (
	TargetOrderClosest   TargetOrder = 1
	TargetOrderStrongest TargetOrder = 2
)

func (o TargetOrder) String() string {
	switch o {
	case TargetOrderClosest:
		return "closest"
	case TargetOrderStrongest:
		return "strongest"
	default:
		return "invalid"
	}
}

func decodeTargetOrder(v uint8) (TargetOrder, error) {
	switch TargetOrder(v) {
	case TargetOrderClosest, TargetOrderStrongest:
		return TargetOrder(v), nil
	default:
		return 0, ErrBadEnum
	}
}

// RangingMode selects continuous (back-to-back, integration time fixed by
// the frequency) or autonomous (timed, integration time applies) ranging.
type RangingMode uint8

const (
	RangingModeContinuous RangingMode = 1
	RangingModeAutonomous RangingMode = 3
)

func (m RangingMode) String() string {
	switch m {
	case RangingModeContinuous:
		return "continuous"
	case RangingModeAutonomous:
		return "autonomous"
	default:
		return "invalid"
	}
}

func decodeRangingMode(v uint8) (RangingMode, error) {
	switch RangingMode(v) {
	case RangingModeContinuous, RangingModeAutonomous:
		return RangingMode(v), nil
	default:
		return 0, ErrBadEnum
	}
}

// PowerMode is the device's coarse power state.
type PowerMode uint8

const (
	PowerModeSleep  PowerMode = 0
	PowerModeWakeup PowerMode = 1
)

func (m PowerMode) String() string {
	switch m {
	case PowerModeSleep:
		return "sleep"
	case PowerModeWakeup:
		return "wakeup"
	default:
		return "invalid"
	}
}

// The power register reads back 0x02 (sleep) or 0x04 (wakeup); anything else
// fails closed.
func decodePowerReg(v uint8) (PowerMode, error) {
	switch v {
	case 0x02:
		return PowerModeSleep, nil
	case 0x04:
		return PowerModeWakeup, nil
	default:
		return 0, ErrBadEnum
	}
}

// TargetStatus is the per-target validity byte, preserved raw. Only the
// vendor's integer meanings are authoritative; this layer contributes names,
// not reinterpretation.
type TargetStatus uint8

const (
	// TargetStatusNotUpdated means the zone was not refreshed this cycle.
	TargetStatusNotUpdated TargetStatus = 0
	// TargetStatusValid is a range with 100% confidence.
	TargetStatusValid TargetStatus = 5
	// TargetStatusNoTarget marks an empty slot (also applied by the decoder
	// to every slot of a zone whose detected-target count is zero).
	TargetStatusNoTarget TargetStatus = 255
)

// IsValid reports full confidence (status 5).
func (s TargetStatus) IsValid() bool { return s == TargetStatusValid }

// IsSemiValid reports the vendor's reduced-confidence levels (6 and 9),
// usable when some measurement error is tolerable.
func (s TargetStatus) IsSemiValid() bool { return s == 6 || s == 9 }

// IsRangeable reports a slot whose distance is usable at all.
func (s TargetStatus) IsRangeable() bool { return s.IsValid() || s.IsSemiValid() }
