//go:build !vl53l5cx_no_reflectance

package vl53l5cx

const (
	reflectanceEnableBit uint32 = 1 << 9
	reflectanceBlockSize        = 4 + maxZones*MaxTargetsPerZone
)

type reflectanceData struct {
	reflectance [maxZones][MaxTargetsPerZone]uint8
}

// Reflectance returns the estimated per-target reflectance in percent.
func (f *Frame) Reflectance() Matrix[[MaxTargetsPerZone]uint8] {
	return matrixOf(f.resolution.Side(), f.reflectance[:])
}

func (f *Frame) captureReflectance(payload []byte, zones, targets int) {
	for z := 0; z < zones; z++ {
		for t := 0; t < targets; t++ {
			f.reflectance[z][t] = payload[z*targets+t]
		}
	}
}
