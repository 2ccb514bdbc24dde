//go:build !vl53l5cx_no_nbtargets

package vl53l5cx

const (
	nbTargetsEnableBit uint32 = 1 << 5
	nbTargetsBlockSize        = 4 + maxZones
)

type nbTargetsData struct {
	targetsDetected [maxZones]uint8
}

// TargetsDetected returns how many targets the sensor resolved in each zone.
func (f *Frame) TargetsDetected() Matrix[uint8] {
	return matrixOf(f.resolution.Side(), f.targetsDetected[:])
}

func (f *Frame) captureTargetsDetected(payload []byte, zones int) {
	copy(f.targetsDetected[:zones], payload[:zones])
}

func (f *Frame) targetsDetectedAt(zone int) (uint8, bool) {
	return f.targetsDetected[zone], true
}
