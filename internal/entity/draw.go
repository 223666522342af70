package entity

// Draw is the local snapshot of a lottery draw owned by the draw-management
// service. The range and series count never change once inventory
// generation has started.
type Draw struct {
	Base

	MinNumber   int
	MaxNumber   int
	TotalSeries int
}

// TotalUnits is the size of the addressable number space of the draw.
func (d Draw) TotalUnits() int {
	return (d.MaxNumber - d.MinNumber + 1) * d.TotalSeries
}
