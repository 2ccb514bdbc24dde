//go:build vl53l5cx_no_reflectance

package vl53l5cx

const (
	reflectanceEnableBit uint32 = 0
	reflectanceBlockSize        = 0
)

type reflectanceData struct{}

func (f *Frame) captureReflectance(payload []byte, zones, targets int) {}
