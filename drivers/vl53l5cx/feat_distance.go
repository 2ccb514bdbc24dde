//go:build !vl53l5cx_no_distance

package vl53l5cx

import "encoding/binary"

const (
	distanceEnableBit uint32 = 1 << 8
	distanceBlockSize        = 4 + 2*maxZones*MaxTargetsPerZone
)

type distanceData struct {
	distance [maxZones][MaxTargetsPerZone]int16
}

// Distance returns the per-target ranging distance in millimeters.
func (f *Frame) Distance() Matrix[[MaxTargetsPerZone]int16] {
	return matrixOf(f.resolution.Side(), f.distance[:])
}

func (f *Frame) captureDistance(payload []byte, zones, targets int) {
	for z := 0; z < zones; z++ {
		for t := 0; t < targets; t++ {
			v := int16(binary.LittleEndian.Uint16(payload[2*(z*targets+t):]))
			v /= 4
			if v < 0 {
				v = 0
			}
			f.distance[z][t] = v
		}
	}
}
