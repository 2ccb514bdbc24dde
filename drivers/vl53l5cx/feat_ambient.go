//go:build !vl53l5cx_no_ambient

package vl53l5cx

import "encoding/binary"

const (
	ambientEnableBit uint32 = 1 << 3
	ambientBlockSize        = 4 + 4*maxZones
)

type ambientData struct {
	ambientPerSPAD [maxZones]uint32
}

// AmbientPerSPAD returns the per-zone ambient light level in kcps/SPAD.
func (f *Frame) AmbientPerSPAD() Matrix[uint32] {
	return matrixOf(f.resolution.Side(), f.ambientPerSPAD[:])
}

func (f *Frame) captureAmbientPerSPAD(payload []byte, zones int) {
	for z := 0; z < zones; z++ {
		v := binary.LittleEndian.Uint32(payload[4*z:])
		f.ambientPerSPAD[z] = v / 2048
	}
}
