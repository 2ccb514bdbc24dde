//go:build !vl53l5cx_no_signal

package vl53l5cx

import "encoding/binary"

const (
	signalEnableBit uint32 = 1 << 6
	signalBlockSize        = 4 + 4*maxZones*MaxTargetsPerZone
)

type signalData struct {
	signalPerSPAD [maxZones][MaxTargetsPerZone]uint32
}

// SignalPerSPAD returns the per-target return signal rate in kcps/SPAD.
func (f *Frame) SignalPerSPAD() Matrix[[MaxTargetsPerZone]uint32] {
	return matrixOf(f.resolution.Side(), f.signalPerSPAD[:])
}

func (f *Frame) captureSignalPerSPAD(payload []byte, zones, targets int) {
	for z := 0; z < zones; z++ {
		for t := 0; t < targets; t++ {
			v := binary.LittleEndian.Uint32(payload[4*(z*targets+t):])
			f.signalPerSPAD[z][t] = v / 2048
		}
	}
}
