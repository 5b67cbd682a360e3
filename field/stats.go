package field

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the heights currently stored in a field.
type Stats struct {
	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
	Mean   float64 `csv:"mean"`
	StdDev float64 `csv:"std_dev"`
}

// Float64s copies the field into a float64 slice for numeric routines.
func (f *HeightField) Float64s() []float64 {
	out := make([]float64, len(f.data))
	for i, v := range f.data {
		out[i] = float64(v)
	}
	return out
}

// ComputeStats returns min, max, mean and standard deviation of all cells.
func (f *HeightField) ComputeStats() Stats {
	vals := f.Float64s()
	mean, std := stat.MeanStdDev(vals, nil)
	return Stats{
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
		Mean:   mean,
		StdDev: std,
	}
}
