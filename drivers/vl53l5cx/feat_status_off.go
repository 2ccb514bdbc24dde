//go:build vl53l5cx_no_status

package vl53l5cx

const (
	statusEnableBit uint32 = 0
	statusBlockSize        = 0
)

type statusData struct{}

func (f *Frame) captureTargetStatus(payload []byte, zones, targets int) {}

func (f *Frame) markNoTarget(zone, targets int) {}
