package TwoPTwoC

import (
	"testing"

	"github.com/notargets/twophase/InputParameters"
	"github.com/notargets/twophase/materials"
	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newColumnInput() *InputParameters.InputParameters2P2C {
	alpha, hyst := 0.5, 0.05
	return &InputParameters.InputParameters2P2C{
		Title:        "column",
		Formulation:  "pn-sw",
		UpwindWeight: &alpha,
		Temperature:  283.15,
		Gravity:      []float64{0, -9.81},
		Porosity:     0.35,
		Permeability: []float64{1e-11},
		Mesh: InputParameters.MeshParameters{
			Dimension: 2,
			Origin:    []float64{0, 0},
			Extent:    []float64{2, 1},
			Cells:     []int{4, 2},
		},
		MaterialLaw: InputParameters.MaterialLawParameters{Type: "brooks-corey", Pe: 500, Lambda: 2},
		Switch:      InputParameters.SwitchParameters{Hysteresis: &hyst, LatchOnBound: true},
		Diagnostics: InputParameters.DiagnosticsParameters{GlobalExtrema: true},
		Initial: InputParameters.InitialParameters{
			PhaseState: "wettingOnly", Pressure: 1e5, Switch: 1e-6, Hydrostatic: true,
		},
		BCs: map[string]InputParameters.BCParameters{
			"Left":  {Type: "dirichlet", Pressure: 2e5, Switch: 1e-5},
			"right": {Type: "neuman", FluxW: 1e-3, FluxN: -2e-4},
		},
		Sources: []InputParameters.SourceParameters{
			{Min: []float64{0.75, 0}, Max: []float64{1.25, 0.3}, Kind: "mass", Rate: []float64{0, 1e-5}},
			{Min: []float64{0.75, 0}, Max: []float64{1.25, 0.3}, Kind: "molar", Rate: []float64{2, 0}},
		},
	}
}

func TestNewConfig(t *testing.T) {
	ip := newColumnInput()
	cfg := NewConfig(ip)
	assert.Equal(t, types.PnSw, cfg.Formulation)
	assert.Equal(t, 0.5, cfg.UpwindWeight)
	assert.Equal(t, 0.05, cfg.Switch.Hysteresis)
	assert.True(t, cfg.Switch.LatchOnBound)
	assert.True(t, cfg.Diagnostics.GlobalExtrema)

	def := NewConfig(&InputParameters.InputParameters2P2C{})
	assert.Equal(t, DefaultConfig(types.PwSn), def)
	assert.Equal(t, 1., def.UpwindWeight)
	assert.Equal(t, 1e-2, def.Switch.Hysteresis)

	bad := 1.5
	ip.UpwindWeight = &bad
	assert.Panics(t, func() { NewConfig(ip) })
}

func TestInputProblem(t *testing.T) {
	var (
		ip  = newColumnInput()
		idx = NewIndices(types.PnSw)
		bp  = NewInputProblem(ip, idx)
		fs  = materials.NewWaterAir()
	)
	assert.Equal(t, "column", bp.Name)
	assert.Equal(t, 283.15, bp.Temperature())
	assert.Equal(t, 1e-11, bp.K.At(1, 1))
	assert.Equal(t, 0., bp.K.At(0, 1))

	// Sides
	left := bp.BoundaryTypes([]float64{0, 0.5})
	assert.True(t, left.IsDirichlet(0))
	assert.True(t, left.IsDirichlet(1))
	assert.Equal(t, PrimaryVarVector{2e5, 1e-5}, bp.Dirichlet([]float64{0, 0.5}))
	right := bp.BoundaryTypes([]float64{2, 0.5})
	assert.False(t, right.HasDirichlet())
	assert.Equal(t, PrimaryVarVector{1e-3, -2e-4}, bp.Neumann([]float64{2, 0.5}))
	// Sides without an entry are closed
	top := bp.BoundaryTypes([]float64{1, 1})
	assert.True(t, top.HasNeuman())
	assert.Equal(t, PrimaryVarVector{}, bp.Neumann([]float64{1, 1}))
	// The lower left corner belongs to the left side
	assert.True(t, bp.BoundaryTypes([]float64{0, 0}).HasDirichlet())

	// Initial state with hydrostatic pressure
	assert.Equal(t, types.WPhaseOnly, bp.InitialPhaseState(0, []float64{1, 1}))
	init := bp.Initial([]float64{1, 0.5})
	assert.InEpsilon(t, 1e5-fs.R0*9.81*0.5, init[idx.PressureIdx], 1e-14)
	assert.Equal(t, 1e-6, init[idx.SwitchIdx])

	// Both sources act inside the box and sum
	grid := mesh.NewRectTriGrid([2]float64{0, 0}, [2]float64{2, 1}, 4, 2)
	var found bool
	for _, elem := range grid.Elements {
		for i, scv := range elem.SCV {
			q := bp.Source(elem, i)
			if inBox(scv.Center, ip.Sources[0].Min, ip.Sources[0].Max) {
				found = true
				assert.Equal(t, 1e-5, q[idx.ContiNEqIdx])
				assert.InEpsilon(t, 2*fs.MolarMass(types.WComp), q[idx.ContiWEqIdx], 1e-14)
			} else {
				assert.Equal(t, PrimaryVarVector{}, q)
			}
		}
	}
	assert.True(t, found)

	// The problem drives a model end to end
	m, _ := newTestModel(NewConfig(ip), bp, grid.Local())
	mb, err := m.CalculateMass(m.InitialSolution())
	require.NoError(t, err)
	assert.Greater(t, mb.Mass[MassWInW], 0.)
	assert.Zero(t, mb.Mass[MassNInN])
}

func TestInputProblemErrors(t *testing.T) {
	{
		ip := newColumnInput()
		ip.BCs["front"] = InputParameters.BCParameters{Type: "dirichlet"}
		assert.Panics(t, func() { NewInputProblem(ip, NewIndices(types.PnSw)) })
	}
	{
		ip := newColumnInput()
		ip.BCs["left"] = InputParameters.BCParameters{Type: "robin"}
		assert.Panics(t, func() { NewInputProblem(ip, NewIndices(types.PnSw)) })
	}
	{
		ip := newColumnInput()
		ip.Sources[0].Kind = "volumetric"
		bp := NewInputProblem(ip, NewIndices(types.PnSw))
		assert.Panics(t, func() { bp.SourceAtPos([]float64{1, 0.1}) })
	}
	{ // Top and bottom do not exist in 1D
		ip := newColumnInput()
		ip.Mesh = InputParameters.MeshParameters{Dimension: 1, Origin: []float64{0}, Extent: []float64{1}, Cells: []int{4}}
		ip.Gravity = nil
		ip.BCs = map[string]InputParameters.BCParameters{"top": {Type: "neuman"}}
		assert.Panics(t, func() { NewInputProblem(ip, NewIndices(types.PnSw)) })
	}
}

func TestRateVector(t *testing.T) {
	var (
		idx = NewIndices(types.PwSn)
		fs  = newTestFluids()
		rv  RateVector
	)
	rv.SetMassRate(idx, [types.NumComponents]float64{1, 2})
	assert.Equal(t, PrimaryVarVector{1, 2}, rv.Primary())
	rv.SetMolarRate(idx, fs, [types.NumComponents]float64{1, 2})
	assert.Equal(t, PrimaryVarVector{0.018, 0.058}, rv.Primary())
	vd := VertexData{}
	vd.Density[types.WPhase] = 1000
	vd.MassFrac[types.WComp][types.WPhase] = 0.99
	vd.MassFrac[types.NComp][types.WPhase] = 0.01
	rv.SetVolumetricRate(idx, &vd, types.WPhase, 1e-3)
	assert.InDeltaSlice(t, []float64{0.99, 0.01}, rv[:], 1e-15)
}
