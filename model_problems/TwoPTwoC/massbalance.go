package TwoPTwoC

import (
	"math"

	"github.com/notargets/twophase/types"
	"github.com/notargets/twophase/utils"
	"github.com/sirupsen/logrus"
)

// Indices into MassBalance.Mass
const (
	MassNTotal = iota // Nonwetting component in both phases
	MassNInN          // Nonwetting component in the nonwetting phase
	MassWTotal        // Wetting component in both phases
	MassWInW          // Wetting component in the wetting phase
)

// Indices into the extrema of a MassBalance
const (
	ExtSatN = iota
	ExtPressureW
	ExtXAW // Mass fraction of the nonwetting component in the wetting phase
	ExtTemperature
	numExtrema
)

type MassBalance struct {
	Mass     [4]float64 // Summed over all ranks
	Min, Max [numExtrema]float64
	Global   bool // Extrema were reduced over all ranks
}

/*
CalculateMass integrates the component masses over every sub-control volume of the local grid.
The totals are summed over all ranks, the extrema only when Diagnostics.GlobalExtrema is set.
*/
func (m *Model) CalculateMass(sol []PrimaryVarVector) (mb MassBalance, err error) {
	var (
		ext     = utils.NewExtrema(numExtrema)
		elemDat []VertexData
		w, n    = types.WPhase, types.NPhase
	)
	for _, elem := range m.Grid.Elements {
		if elemDat, err = m.residual.ElementVertexData(elem, sol, false); err != nil {
			return
		}
		for i, scv := range elem.SCV {
			var (
				vd = &elemDat[i]
				vp = scv.Volume * vd.Porosity
			)
			mb.Mass[MassNTotal] += vp * (vd.Saturation[n]*vd.Density[n]*vd.MassFrac[types.NComp][n] +
				vd.Saturation[w]*vd.Density[w]*vd.MassFrac[types.NComp][w])
			mb.Mass[MassNInN] += vp * vd.Saturation[n] * vd.Density[n] * vd.MassFrac[types.NComp][n]
			mb.Mass[MassWTotal] += vp * (vd.Saturation[w]*vd.Density[w]*vd.MassFrac[types.WComp][w] +
				vd.Saturation[n]*vd.Density[n]*vd.MassFrac[types.WComp][n])
			mb.Mass[MassWInW] += vp * vd.Saturation[w] * vd.Density[w] * vd.MassFrac[types.WComp][w]
			ext.Observe(vd.Saturation[n], vd.Pressure[w], vd.MassFrac[types.NComp][w], vd.Temperature)
		}
	}
	m.Comm.ReduceSum(mb.Mass[:])
	if m.Config.Diagnostics.GlobalExtrema {
		ext.Reduce(m.Comm)
		mb.Global = true
	}
	copy(mb.Min[:], ext.Min)
	copy(mb.Max[:], ext.Max)
	if m.Comm.Rank() == 0 {
		m.Metrics.setMass(mb.Mass)
		m.Log.WithFields(logrus.Fields{
			"Sn":   [2]float64{mb.Min[ExtSatN], mb.Max[ExtSatN]},
			"pW":   [2]float64{mb.Min[ExtPressureW], mb.Max[ExtPressureW]},
			"XaW":  [2]float64{mb.Min[ExtXAW], mb.Max[ExtXAW]},
			"T":    [2]float64{mb.Min[ExtTemperature], mb.Max[ExtTemperature]},
			"mass": mb.Mass,
		}).Info("mass balance")
	}
	return
}

// BoundingBox of the whole domain, reduced over all ranks
func (m *Model) BoundingBox() (min, max []float64) {
	min = utils.ConstArray(m.Grid.Dim, math.Inf(1))
	max = utils.ConstArray(m.Grid.Dim, math.Inf(-1))
	for _, x := range m.Grid.Vertices {
		for d := 0; d < m.Grid.Dim; d++ {
			min[d] = math.Min(min[d], x[d])
			max[d] = math.Max(max[d], x[d])
		}
	}
	m.Comm.ReduceMin(min)
	m.Comm.ReduceMax(max)
	return
}
