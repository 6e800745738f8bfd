package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// Dot is the Euclidean inner product, vectors must have equal length
func Dot(a, b []float64) float64 { return floats.Dot(a, b) }

func Norm2(v []float64) float64 { return floats.Norm(v, 2) }

func NormInf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, math.Inf(1))
}

// Extrema tracks running minimum and maximum values of a set of named quantities
type Extrema struct {
	Min, Max []float64
}

func NewExtrema(n int) (e *Extrema) {
	e = &Extrema{
		Min: ConstArray(n, math.Inf(1)),
		Max: ConstArray(n, math.Inf(-1)),
	}
	return
}

func (e *Extrema) Observe(vals ...float64) {
	for i, v := range vals {
		e.Min[i] = math.Min(e.Min[i], v)
		e.Max[i] = math.Max(e.Max[i], v)
	}
}

// Reduce combines the extrema of all ranks
func (e *Extrema) Reduce(comm Communicator) {
	comm.ReduceMin(e.Min)
	comm.ReduceMax(e.Max)
}
