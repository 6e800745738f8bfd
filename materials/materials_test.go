package materials

import (
	"math"
	"testing"

	"github.com/notargets/twophase/InputParameters"
	"github.com/notargets/twophase/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrooksCorey(t *testing.T) {
	bc := BrooksCorey{Pe: 1000, Lambda: 2}
	pc, err := bc.Pc(1, nil, 0, nil, 293)
	require.NoError(t, err)
	assert.Equal(t, 1000., pc)
	pc, err = bc.Pc(0.25, nil, 0, nil, 293)
	require.NoError(t, err)
	assert.InDelta(t, 2000., pc, 1e-9)
	// Monotone through the regularized range
	pcLow, err := bc.Pc(0.001, nil, 0, nil, 293)
	require.NoError(t, err)
	pcReg, _ := bc.Pc(seRegularization, nil, 0, nil, 293)
	assert.Greater(t, pcLow, pcReg)
	assert.False(t, math.IsInf(pcLow, 0))
	_, err = bc.Pc(math.NaN(), nil, 0, nil, 293)
	assert.Error(t, err)

	assert.Equal(t, 1., bc.Krw(1))
	assert.Equal(t, 0., bc.Krn(1))
	assert.Equal(t, 0., bc.Krw(0))
	assert.Equal(t, 1., bc.Krn(0))
	assert.Equal(t, 0., bc.Krw(-0.1)) // clamped
}

func TestVanGenuchten(t *testing.T) {
	vg := VanGenuchten{Alpha: 1e-3, N: 2}
	pc, err := vg.Pc(1, nil, 0, nil, 293)
	require.NoError(t, err)
	assert.Equal(t, 0., pc)
	// Se = 0.5, m = 0.5: Pc = (0.5^-2 - 1)^(1/2)/alpha
	pc, err = vg.Pc(0.5, nil, 0, nil, 293)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3)*1000, pc, 1e-8)
	assert.InDelta(t, 1., vg.Krw(1), 1e-14)
	assert.InDelta(t, 0., vg.Krn(1), 1e-14)
	assert.Greater(t, vg.Krw(0.7), vg.Krw(0.5))
}

func TestNewLaw(t *testing.T) {
	law := NewLaw(InputParameters.MaterialLawParameters{Type: "Brooks-Corey"})
	bc, ok := law.(BrooksCorey)
	require.True(t, ok)
	assert.Equal(t, 1000., bc.Pe)
	law = NewLaw(InputParameters.MaterialLawParameters{Type: "vanGenuchten", VgAlpha: 1e-3, VgN: 3})
	_, ok = law.(VanGenuchten)
	assert.True(t, ok)
	assert.Panics(t, func() { NewLaw(InputParameters.MaterialLawParameters{Type: "linear"}) })
}

func TestWaterAir(t *testing.T) {
	fs := NewWaterAir()
	rho, err := fs.Density(types.WPhase, 1e5, 293.15)
	require.NoError(t, err)
	assert.Equal(t, 1000., rho)
	rho, err = fs.Density(types.NPhase, 1e5, 293.15)
	require.NoError(t, err)
	assert.InDelta(t, 1.188, rho, 1e-3)
	_, err = fs.Density(types.NPhase, -1, 293.15)
	assert.Error(t, err)

	// Less vapour fits into gas at higher pressure
	x1, err := fs.XWN(1e5, 293.15)
	require.NoError(t, err)
	x2, err := fs.XWN(2e5, 293.15)
	require.NoError(t, err)
	assert.Greater(t, x1, x2)
	assert.InDelta(t, 0.0145, x1, 1e-3)
	// More air dissolves at higher pressure
	a1, err := fs.XAW(1e5, 293.15)
	require.NoError(t, err)
	a2, err := fs.XAW(2e5, 293.15)
	require.NoError(t, err)
	assert.Greater(t, a2, a1)
	assert.Less(t, a1, 1e-4)
	_, err = fs.XWN(0, 293.15)
	assert.Error(t, err)
	_, err = fs.XAW(math.NaN(), 293.15)
	assert.Error(t, err)

	assert.Equal(t, MolarMassW, fs.MolarMass(types.WComp))
	assert.Equal(t, MolarMassA, fs.MolarMass(types.NComp))
	assert.Equal(t, 1e-3, fs.Viscosity(types.WPhase, 1e5, 293.15))
	assert.Equal(t, 2.6e-5, fs.DiffCoeff(types.NPhase, 1e5, 293.15))
}
