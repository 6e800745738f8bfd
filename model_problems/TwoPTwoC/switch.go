package TwoPTwoC

import (
	"fmt"

	"github.com/notargets/twophase/types"
	"github.com/sirupsen/logrus"
)

/*
UpdateStaticData refreshes the phase state of every local vertex from curSol, resetting the switch slot
of curSol where a phase appears or disappears. The switched flag is reduced over all ranks.
*/
func (m *Model) UpdateStaticData(curSol []PrimaryVarVector) (err error) {
	var (
		localSwitched, sw bool
	)
	for v := range m.staticVertexDat {
		if sw, err = m.primaryVarSwitch(curSol, v); err != nil {
			return
		}
		localSwitched = sw || localSwitched
	}
	m.SetSwitched(m.Comm.ReduceOr(localSwitched))
	if m.Comm.Rank() == 0 {
		m.Metrics.setPassSwitched(m.switched)
	}
	return
}

func (m *Model) switchSlotForAppearance(phase int) float64 {
	// Saturation of the appearing phase starts at zero
	switch {
	case m.Indices.Formulation == types.PnSw && phase == types.WPhase:
		return 0
	case m.Indices.Formulation == types.PwSn && phase == types.WPhase:
		return 1
	case m.Indices.Formulation == types.PnSw && phase == types.NPhase:
		return 1
	default:
		return 0
	}
}

func (m *Model) primaryVarSwitch(sol []PrimaryVarVector, v int) (switched bool, err error) {
	var (
		st          = &m.staticVertexDat[v]
		newState    = st.PhaseState
		wouldSwitch bool
		vd          VertexData
		fs          = m.Problem.FluidSystem()
		T           = m.Problem.Temperature()
		sIdx        = m.Indices.SwitchIdx
		margin      = 1 + m.Config.Switch.Hysteresis
		gv          = m.Grid.LocalToGlobalVertex[v]
		fields      = logrus.Fields{"vertex": gv, "position": m.Grid.Vertices[v]}
	)
	if vd, err = m.VertexData(sol, v); err != nil {
		return
	}
	switch st.PhaseState {
	case types.NPhaseOnly:
		var xWNmax float64
		if xWNmax, err = fs.XWN(vd.Pressure[types.NPhase], T); err != nil {
			break
		}
		xWN := vd.MassFrac[types.WComp][types.NPhase]
		if xWN > xWNmax {
			wouldSwitch = true
		}
		if st.WasSwitched {
			xWNmax *= margin
		}
		if xWN > xWNmax {
			fields["xWN/xWNmax"] = xWN / xWNmax
			m.Log.WithFields(fields).Info("wetting phase appears")
			newState = types.BothPhases
			sol[v][sIdx] = m.switchSlotForAppearance(types.WPhase)
		}
	case types.WPhaseOnly:
		var xAWmax float64
		if xAWmax, err = fs.XAW(vd.Pressure[types.WPhase], T); err != nil {
			break
		}
		xAW := vd.MassFrac[types.NComp][types.WPhase]
		if xAW > xAWmax {
			wouldSwitch = true
		}
		if st.WasSwitched {
			xAWmax *= margin
		}
		if xAW > xAWmax {
			fields["xAW/xAWmax"] = xAW / xAWmax
			m.Log.WithFields(fields).Info("nonwetting phase appears")
			newState = types.BothPhases
			sol[v][sIdx] = m.switchSlotForAppearance(types.NPhase)
		}
	case types.BothPhases:
		Smin := m.Config.Switch.MinSaturation
		if vd.Saturation[types.NPhase] <= Smin {
			wouldSwitch = true
			fields["Sn"] = vd.Saturation[types.NPhase]
			m.Log.WithFields(fields).Info("nonwetting phase disappears")
			newState = types.WPhaseOnly
			sol[v][sIdx], err = fs.XAW(vd.Pressure[types.NPhase], T)
		} else if vd.Saturation[types.WPhase] <= Smin {
			wouldSwitch = true
			fields["Sw"] = vd.Saturation[types.WPhase]
			m.Log.WithFields(fields).Info("wetting phase disappears")
			newState = types.NPhaseOnly
			sol[v][sIdx], err = fs.XWN(vd.Pressure[types.NPhase], T)
		}
	default:
		err = fmt.Errorf("vertex %d has invalid phase state %d", gv, st.PhaseState)
	}
	if err != nil {
		err = fmt.Errorf("phase switch at vertex %d: %w", gv, err)
		return
	}
	switched = newState != st.PhaseState
	if switched && m.Grid.Owned[v] {
		m.Metrics.countSwitch(st.PhaseState.String() + "->" + newState.String())
	}
	st.PhaseState = newState
	if m.Config.Switch.LatchOnBound {
		st.WasSwitched = wouldSwitch
	} else {
		st.WasSwitched = switched
	}
	return
}
