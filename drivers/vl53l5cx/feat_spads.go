//go:build !vl53l5cx_no_spads

package vl53l5cx

import "encoding/binary"

const (
	spadsEnableBit uint32 = 1 << 4
	spadsBlockSize        = 4 + 4*maxZones
)

type spadsData struct {
	spadsEnabled [maxZones]uint32
}

// SPADsEnabled returns the number of SPADs active in each zone.
func (f *Frame) SPADsEnabled() Matrix[uint32] {
	return matrixOf(f.resolution.Side(), f.spadsEnabled[:])
}

func (f *Frame) captureSPADsEnabled(payload []byte, zones int) {
	for z := 0; z < zones; z++ {
		f.spadsEnabled[z] = binary.LittleEndian.Uint32(payload[4*z:])
	}
}
