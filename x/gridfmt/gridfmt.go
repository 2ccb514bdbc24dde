// Package gridfmt renders ranging frames as fixed-width ASCII grids for
// terminal display.
package gridfmt

import (
	"vl53l5cx-go/drivers/vl53l5cx"
	"vl53l5cx-go/x/conv"
	"vl53l5cx-go/x/mathx"
)

// shades orders intensity from far to near. Index 0 is reserved for zones
// without a rangeable target.
const shades = " .:-=+*#%@"

// FarLimitMM is the distance mapped to the coolest heatmap shade. The
// sensor tops out at four meters.
const FarLimitMM = 4000

const cellWidth = 5

// Renderer formats frames into an internal buffer reused across calls.
// The zero value is ready to use.
type Renderer struct {
	buf  []byte
	cell [8]byte
}

// Distance renders the first-target distance in millimeters, one grid row
// per line. Zones without a rangeable target show "----".
func (r *Renderer) Distance(f *vl53l5cx.Frame) string {
	side := f.Resolution().Side()
	dist := f.Distance()
	status := f.TargetStatus()

	r.buf = r.buf[:0]
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			if col > 0 {
				r.buf = append(r.buf, ' ')
			}
			if status.At(row, col)[0].IsRangeable() {
				r.pad(int64(dist.At(row, col)[0]))
			} else {
				r.buf = append(r.buf, " ----"...)
			}
		}
		r.buf = append(r.buf, '\n')
	}
	return string(r.buf)
}

// Status renders the raw per-zone target status byte of the first target.
func (r *Renderer) Status(f *vl53l5cx.Frame) string {
	side := f.Resolution().Side()
	status := f.TargetStatus()

	r.buf = r.buf[:0]
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			if col > 0 {
				r.buf = append(r.buf, ' ')
			}
			r.pad(int64(status.At(row, col)[0]))
		}
		r.buf = append(r.buf, '\n')
	}
	return string(r.buf)
}

// Heatmap renders one shade character per zone, bright for near targets,
// dim for far ones. Zones without a rangeable target render as a space.
func (r *Renderer) Heatmap(f *vl53l5cx.Frame) string {
	side := f.Resolution().Side()
	dist := f.Distance()
	status := f.TargetStatus()

	r.buf = r.buf[:0]
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			if !status.At(row, col)[0].IsRangeable() {
				r.buf = append(r.buf, ' ')
				continue
			}
			mm := mathx.Clamp(dist.At(row, col)[0], 0, FarLimitMM)
			hot := mathx.MapU16(uint16(mm), 0, FarLimitMM, 0, uint16(len(shades)-2))
			r.buf = append(r.buf, shades[len(shades)-1-int(hot)])
		}
		r.buf = append(r.buf, '\n')
	}
	return string(r.buf)
}

// pad appends n right-aligned to cellWidth.
func (r *Renderer) pad(n int64) {
	s := conv.Itoa(r.cell[:], n)
	for i := len(s); i < cellWidth; i++ {
		r.buf = append(r.buf, ' ')
	}
	r.buf = append(r.buf, s...)
}
