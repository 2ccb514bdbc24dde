//go:build vl53l5cx_no_spads

package vl53l5cx

const (
	spadsEnableBit uint32 = 0
	spadsBlockSize        = 0
)

type spadsData struct{}

func (f *Frame) captureSPADsEnabled(payload []byte, zones int) {}
