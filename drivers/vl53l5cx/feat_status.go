//go:build !vl53l5cx_no_status

package vl53l5cx

const (
	statusEnableBit uint32 = 1 << 10
	statusBlockSize        = 4 + maxZones*MaxTargetsPerZone
)

type statusData struct {
	targetStatus [maxZones][MaxTargetsPerZone]TargetStatus
}

// TargetStatus returns the per-target measurement validity codes.
func (f *Frame) TargetStatus() Matrix[[MaxTargetsPerZone]TargetStatus] {
	return matrixOf(f.resolution.Side(), f.targetStatus[:])
}

func (f *Frame) captureTargetStatus(payload []byte, zones, targets int) {
	for z := 0; z < zones; z++ {
		for t := 0; t < targets; t++ {
			f.targetStatus[z][t] = TargetStatus(payload[z*targets+t])
		}
	}
}

func (f *Frame) markNoTarget(zone, targets int) {
	for t := 0; t < targets; t++ {
		f.targetStatus[zone][t] = TargetStatusNoTarget
	}
}
