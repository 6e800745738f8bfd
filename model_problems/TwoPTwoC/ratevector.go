package TwoPTwoC

import (
	"github.com/notargets/twophase/types"
)

// RateVector is a per-equation mass rate, used for sources and Neumann fluxes
type RateVector PrimaryVarVector

// SetMassRate sets kg/s (or kg/s/m^d) per component
func (rv *RateVector) SetMassRate(idx Indices, rate [types.NumComponents]float64) {
	for comp := 0; comp < types.NumComponents; comp++ {
		rv[idx.Comp2Mass(comp)] = rate[comp]
	}
}

// SetMolarRate converts mol/s per component to mass rates
func (rv *RateVector) SetMolarRate(idx Indices, fs FluidSystem, rate [types.NumComponents]float64) {
	for comp := 0; comp < types.NumComponents; comp++ {
		rv[idx.Comp2Mass(comp)] = rate[comp] * fs.MolarMass(comp)
	}
}

/*
SetVolumetricRate converts a volume rate of one phase, composed as in vd, to component mass rates.
*/
func (rv *RateVector) SetVolumetricRate(idx Indices, vd *VertexData, phase int, volRate float64) {
	for comp := 0; comp < types.NumComponents; comp++ {
		rv[idx.Comp2Mass(comp)] = volRate * vd.Density[phase] * vd.MassFrac[comp][phase]
	}
}

func (rv RateVector) Primary() PrimaryVarVector { return PrimaryVarVector(rv) }
