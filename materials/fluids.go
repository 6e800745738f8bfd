package materials

import (
	"fmt"
	"math"

	"github.com/notargets/twophase/types"
)

const (
	RGas       = 8.314462618 // J/(mol K)
	MolarMassW = 0.018015    // kg/mol, water
	MolarMassA = 0.028963    // kg/mol, air
)

/*
WaterAir is the water (wetting) and air (nonwetting) fluid system. The liquid density is the linear
model rho = R0 + C (p - P0), the gas is ideal. Dissolved air follows Henry's law, water vapour
follows the Magnus vapour pressure correlation.
*/
type WaterAir struct {
	R0, C, P0    float64 // Liquid density model
	MuW, MuN     float64 // Dynamic viscosities, Pa s
	Henry        float64 // Henry coefficient of air in water, Pa
	DiffW, DiffN float64 // Binary diffusion coefficients in the liquid and gas, m^2/s
}

func NewWaterAir() *WaterAir {
	return &WaterAir{
		R0:    1000,
		C:     4.5e-7,
		P0:    1e5,
		MuW:   1e-3,
		MuN:   1.8e-5,
		Henry: 6.6e9,
		DiffW: 2e-9,
		DiffN: 2.6e-5,
	}
}

func checkPressure(p float64) error {
	if !(p > 0) || math.IsInf(p, 0) {
		return fmt.Errorf("pressure %v out of range", p)
	}
	return nil
}

func (wa *WaterAir) Density(phase int, p, T float64) (rho float64, err error) {
	if err = checkPressure(p); err != nil {
		return
	}
	switch phase {
	case types.WPhase:
		rho = wa.R0 + wa.C*(p-wa.P0)
	case types.NPhase:
		rho = p * MolarMassA / (RGas * T)
	default:
		err = fmt.Errorf("invalid phase index %d", phase)
	}
	return
}

func (wa *WaterAir) Viscosity(phase int, p, T float64) float64 {
	if phase == types.WPhase {
		return wa.MuW
	}
	return wa.MuN
}

// VapourPressure of water, Pa
func (wa *WaterAir) VapourPressure(T float64) float64 {
	tc := T - 273.15
	return 611.2 * math.Exp(17.62*tc/(243.12+tc))
}

// XWN is the equilibrium mass fraction of water in the gas phase
func (wa *WaterAir) XWN(pN, T float64) (X float64, err error) {
	if err = checkPressure(pN); err != nil {
		return
	}
	x := math.Min(1, wa.VapourPressure(T)/pN)
	X = x * MolarMassW / (x*MolarMassW + (1-x)*MolarMassA)
	return
}

// XAW is the equilibrium mass fraction of air dissolved in the liquid phase
func (wa *WaterAir) XAW(p, T float64) (X float64, err error) {
	if err = checkPressure(p); err != nil {
		return
	}
	x := math.Min(1, p/wa.Henry)
	X = x * MolarMassA / (x*MolarMassA + (1-x)*MolarMassW)
	return
}

func (wa *WaterAir) MolarMass(comp int) float64 {
	if comp == types.WComp {
		return MolarMassW
	}
	return MolarMassA
}

func (wa *WaterAir) DiffCoeff(phase int, p, T float64) float64 {
	if phase == types.WPhase {
		return wa.DiffW
	}
	return wa.DiffN
}
