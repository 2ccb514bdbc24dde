//go:build vl53l5cx_no_nbtargets

package vl53l5cx

const (
	nbTargetsEnableBit uint32 = 0
	nbTargetsBlockSize        = 0
)

type nbTargetsData struct{}

func (f *Frame) captureTargetsDetected(payload []byte, zones int) {}

func (f *Frame) targetsDetectedAt(zone int) (uint8, bool) {
	return 0, false
}
