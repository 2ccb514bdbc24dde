package vl53l5cx

// maxZones sizes every backing array for the largest grid; the active
// resolution decides how much of it a fetch writes and a Matrix exposes.
const maxZones = int(Resolution8x8)

// Matrix is a 2D view over one result category of a Frame, dimensioned by
// the resolution active when the frame was fetched. Row and col are in
// [0, Side()). Per-target categories carry a [MaxTargetsPerZone]T element
// per zone.
//
// A Matrix aliases its Frame's storage: it stays valid until the Frame is
// reused for another fetch. Copy the Frame (plain value copy) to snapshot.
type Matrix[T any] struct {
	side int
	data []T
}

// Side returns the grid side length.
func (m Matrix[T]) Side() int { return m.side }

// At returns the entry for a zone by grid position. The zone with flat index
// z maps to (row, col) = (z/side, z%side); this numbering is fixed by the
// sensor's physical layout.
func (m Matrix[T]) At(row, col int) T { return m.data[row*m.side+col] }

func matrixOf[T any](side int, data []T) Matrix[T] {
	return Matrix[T]{side: side, data: data[:side*side]}
}

// Frame is one decoded ranging snapshot: the resolution it was fetched at,
// the die temperature, and one matrix per compiled-in result category. A
// zero Frame is ready for use as the out-parameter of GetRangingData; a
// fetch fully rewrites the region covered by the active resolution.
type Frame struct {
	resolution Resolution
	silicon    int8

	ambientData
	spadsData
	nbTargetsData
	signalData
	sigmaData
	distanceData
	reflectanceData
	statusData
}

// Resolution the frame was fetched at. Zero until the first fetch.
func (f *Frame) Resolution() Resolution { return f.resolution }

// SiliconTempCelsius is the die temperature reported with the frame.
func (f *Frame) SiliconTempCelsius() int8 { return f.silicon }
