//go:build !vl53l5cx_no_sigma

package vl53l5cx

import "encoding/binary"

const (
	sigmaEnableBit uint32 = 1 << 7
	sigmaBlockSize        = 4 + 2*maxZones*MaxTargetsPerZone
)

type sigmaData struct {
	rangeSigma [maxZones][MaxTargetsPerZone]uint16
}

// RangeSigma returns the per-target ranging noise estimate in millimeters.
func (f *Frame) RangeSigma() Matrix[[MaxTargetsPerZone]uint16] {
	return matrixOf(f.resolution.Side(), f.rangeSigma[:])
}

func (f *Frame) captureRangeSigma(payload []byte, zones, targets int) {
	for z := 0; z < zones; z++ {
		for t := 0; t < targets; t++ {
			v := binary.LittleEndian.Uint16(payload[2*(z*targets+t):])
			f.rangeSigma[z][t] = v / 128
		}
	}
}
