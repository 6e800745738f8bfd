package TwoPTwoC

import (
	"fmt"

	"github.com/notargets/twophase/types"
)

// VertexData is the full set of secondary variables at one vertex for one time level
type VertexData struct {
	Pressure    [types.NumPhases]float64
	Pc          float64
	Saturation  [types.NumPhases]float64
	Density     [types.NumPhases]float64
	Mobility    [types.NumPhases]float64
	MassFrac    [types.NumComponents][types.NumPhases]float64 // [component][phase]
	DiffCoeff   [types.NumPhases]float64                      // Binary molecular diffusion coefficient
	Porosity    float64
	Temperature float64
}

/*
NewVertexData evaluates the secondary variables of one vertex from its primary variables and phase state.
It only depends on its arguments. Material law failures are returned with the vertex position attached.
*/
func NewVertexData(pv PrimaryVarVector, state types.PhaseState, T float64, pos []float64, elem int,
	localPos []float64, law MaterialLaw, fs FluidSystem, idx Indices, porosity float64) (vd VertexData, err error) {
	var (
		w, n = types.WPhase, types.NPhase
		sw   = pv[idx.SwitchIdx]
		xMax float64
	)
	vd.Temperature = T
	vd.Porosity = porosity

	switch state {
	case types.BothPhases:
		if idx.Formulation == types.PwSn {
			vd.Saturation[n] = sw
			vd.Saturation[w] = 1 - sw
		} else {
			vd.Saturation[w] = sw
			vd.Saturation[n] = 1 - sw
		}
	case types.WPhaseOnly:
		vd.Saturation[w], vd.Saturation[n] = 1, 0
	case types.NPhaseOnly:
		vd.Saturation[w], vd.Saturation[n] = 0, 1
	default:
		err = fmt.Errorf("invalid phase state %d at %v", state, pos)
		return
	}

	if vd.Pc, err = law.Pc(vd.Saturation[w], pos, elem, localPos, T); err != nil {
		err = fmt.Errorf("capillary pressure at %v: %w", pos, err)
		return
	}
	if idx.Formulation == types.PwSn {
		vd.Pressure[w] = pv[idx.PressureIdx]
		vd.Pressure[n] = vd.Pressure[w] + vd.Pc
	} else {
		vd.Pressure[n] = pv[idx.PressureIdx]
		vd.Pressure[w] = vd.Pressure[n] - vd.Pc
	}

	// Components present in a phase at their equilibrium bound unless the switch slot carries them
	switch state {
	case types.BothPhases:
		if vd.MassFrac[types.NComp][w], err = fs.XAW(vd.Pressure[n], T); err != nil {
			break
		}
		vd.MassFrac[types.WComp][n], err = fs.XWN(vd.Pressure[n], T)
	case types.WPhaseOnly:
		vd.MassFrac[types.NComp][w] = sw
		xMax, err = fs.XWN(vd.Pressure[n], T)
		vd.MassFrac[types.WComp][n] = xMax
	case types.NPhaseOnly:
		vd.MassFrac[types.WComp][n] = sw
		xMax, err = fs.XAW(vd.Pressure[n], T)
		vd.MassFrac[types.NComp][w] = xMax
	}
	if err != nil {
		err = fmt.Errorf("equilibrium composition at %v: %w", pos, err)
		return
	}
	vd.MassFrac[types.WComp][w] = 1 - vd.MassFrac[types.NComp][w]
	vd.MassFrac[types.NComp][n] = 1 - vd.MassFrac[types.WComp][n]

	kr := [types.NumPhases]float64{law.Krw(vd.Saturation[w]), law.Krn(vd.Saturation[w])}
	for phase := 0; phase < types.NumPhases; phase++ {
		if vd.Density[phase], err = fs.Density(phase, vd.Pressure[phase], T); err != nil {
			err = fmt.Errorf("%s phase density at %v: %w", types.PhaseNames[phase], pos, err)
			return
		}
		vd.Mobility[phase] = kr[phase] / fs.Viscosity(phase, vd.Pressure[phase], T)
		vd.DiffCoeff[phase] = fs.DiffCoeff(phase, vd.Pressure[phase], T)
	}
	return
}
