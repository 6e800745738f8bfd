package TwoPTwoC

import (
	"math"
	"testing"

	"github.com/notargets/twophase/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexData(t *testing.T) {
	var (
		law   = testLaw{pcMax: 1000}
		fs    = newTestFluids()
		T     = 293.15
		pos   = []float64{0.5}
		local = []float64{0.5}
		w, n  = types.WPhase, types.NPhase
	)
	{ // pW-Sn, both phases: switch slot is Sn
		idx := NewIndices(types.PwSn)
		vd, err := NewVertexData(PrimaryVarVector{1e5, 0.25}, types.BothPhases, T, pos, 0, local, law, fs, idx, 0.3)
		require.NoError(t, err)
		assert.Equal(t, 0.25, vd.Saturation[n])
		assert.Equal(t, 0.75, vd.Saturation[w])
		assert.InDelta(t, 250., vd.Pc, 1e-12)
		assert.Equal(t, 1e5, vd.Pressure[w])
		assert.InDelta(t, 1e5+250, vd.Pressure[n], 1e-9)
		// Equilibrium composition from the nonwetting pressure
		assert.InDelta(t, 1e-10*(1e5+250), vd.MassFrac[types.NComp][w], 1e-18)
		assert.Equal(t, 0.02, vd.MassFrac[types.WComp][n])
		assert.InDelta(t, 1, vd.MassFrac[types.WComp][w]+vd.MassFrac[types.NComp][w], 1e-15)
		assert.InDelta(t, 1, vd.MassFrac[types.WComp][n]+vd.MassFrac[types.NComp][n], 1e-15)
		assert.InDelta(t, 0.75/1e-3, vd.Mobility[w], 1e-9)
		assert.InDelta(t, 0.25/1e-5, vd.Mobility[n], 1e-6)
		assert.Equal(t, 1000., vd.Density[w])
		assert.Equal(t, 0.3, vd.Porosity)
		assert.Equal(t, T, vd.Temperature)
	}
	{ // pN-Sw, both phases: switch slot is Sw
		idx := NewIndices(types.PnSw)
		vd, err := NewVertexData(PrimaryVarVector{2e5, 0.25}, types.BothPhases, T, pos, 0, local, law, fs, idx, 0.3)
		require.NoError(t, err)
		assert.Equal(t, 0.25, vd.Saturation[w])
		assert.Equal(t, 0.75, vd.Saturation[n])
		assert.Equal(t, 2e5, vd.Pressure[n])
		assert.InDelta(t, 2e5-750, vd.Pressure[w], 1e-9)
	}
	{ // Single phase states carry the dissolved fraction in the switch slot
		idx := NewIndices(types.PwSn)
		vd, err := NewVertexData(PrimaryVarVector{1e5, 1e-6}, types.WPhaseOnly, T, pos, 0, local, law, fs, idx, 0.3)
		require.NoError(t, err)
		assert.Equal(t, [2]float64{1, 0}, vd.Saturation)
		assert.Equal(t, 1e-6, vd.MassFrac[types.NComp][w])
		assert.Equal(t, 0.02, vd.MassFrac[types.WComp][n])
		assert.Equal(t, 0., vd.Pc)

		vd, err = NewVertexData(PrimaryVarVector{1e5, 0.01}, types.NPhaseOnly, T, pos, 0, local, law, fs, idx, 0.3)
		require.NoError(t, err)
		assert.Equal(t, [2]float64{0, 1}, vd.Saturation)
		assert.Equal(t, 0.01, vd.MassFrac[types.WComp][n])
		assert.InDelta(t, 0.99, vd.MassFrac[types.NComp][n], 1e-15)
		assert.InDelta(t, 1e-10*(1e5+1000), vd.MassFrac[types.NComp][w], 1e-18)
		assert.Equal(t, 0., vd.Mobility[w])
	}
	{ // Material law failures propagate
		idx := NewIndices(types.PwSn)
		_, err := NewVertexData(PrimaryVarVector{1e5, math.NaN()}, types.BothPhases, T, pos, 0, local, law, fs, idx, 0.3)
		assert.Error(t, err)
		_, err = NewVertexData(PrimaryVarVector{-2e5, 0.5}, types.BothPhases, T, pos, 0, local, law, fs, idx, 0.3)
		assert.ErrorContains(t, err, "out of range")
		_, err = NewVertexData(PrimaryVarVector{1e5, 0.5}, types.PhaseState(7), T, pos, 0, local, law, fs, idx, 0.3)
		assert.Error(t, err)
	}
	{ // Repeated evaluation gives identical results
		idx := NewIndices(types.PwSn)
		vd1, _ := NewVertexData(PrimaryVarVector{1e5, 0.4}, types.BothPhases, T, pos, 0, local, law, fs, idx, 0.3)
		_, _ = NewVertexData(PrimaryVarVector{3e5, 0.1}, types.BothPhases, T, pos, 0, local, law, fs, idx, 0.3)
		vd2, _ := NewVertexData(PrimaryVarVector{1e5, 0.4}, types.BothPhases, T, pos, 0, local, law, fs, idx, 0.3)
		assert.Equal(t, vd1, vd2)
	}
}
