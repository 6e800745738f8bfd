package TwoPTwoC

import (
	"fmt"
	"math"

	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// Incompressible fluids with adjustable equilibrium bounds
type testFluids struct {
	xWN func(pN float64) float64
	xAW func(p float64) float64
}

func newTestFluids() *testFluids {
	return &testFluids{
		xWN: func(pN float64) float64 { return 0.02 },
		xAW: func(p float64) float64 { return 1e-10 * p },
	}
}

func (tf *testFluids) Density(phase int, p, T float64) (float64, error) {
	if !(p > 0) {
		return 0, fmt.Errorf("pressure %v out of range", p)
	}
	if phase == types.WPhase {
		return 1000, nil
	}
	return 1.2, nil
}

func (tf *testFluids) Viscosity(phase int, p, T float64) float64 {
	if phase == types.WPhase {
		return 1e-3
	}
	return 1e-5
}

func (tf *testFluids) XWN(pN, T float64) (float64, error) {
	if !(pN > 0) {
		return 0, fmt.Errorf("pressure %v out of range", pN)
	}
	return tf.xWN(pN), nil
}

func (tf *testFluids) XAW(p, T float64) (float64, error) {
	if !(p > 0) {
		return 0, fmt.Errorf("pressure %v out of range", p)
	}
	return tf.xAW(p), nil
}

func (tf *testFluids) MolarMass(comp int) float64 {
	if comp == types.WComp {
		return 0.018
	}
	return 0.029
}

func (tf *testFluids) DiffCoeff(phase int, p, T float64) float64 {
	if phase == types.WPhase {
		return 1e-9
	}
	return 1e-5
}

// Linear capillary pressure and relative permeabilities
type testLaw struct{ pcMax float64 }

func (tl testLaw) Pc(Sw float64, pos []float64, elem int, localPos []float64, T float64) (float64, error) {
	if math.IsNaN(Sw) {
		return 0, fmt.Errorf("saturation is not a number")
	}
	return tl.pcMax * (1 - Sw), nil
}
func (tl testLaw) Krw(Sw float64) float64 { return Sw }
func (tl testLaw) Krn(Sw float64) float64 { return 1 - Sw }

// newTestProblem is closed on all sides with no sources
func newTestProblem(dim int, state types.PhaseState) (bp *BaseProblem) {
	bp = &BaseProblem{
		Name: "closed box",
		T:    293.15,
		G:    make([]float64, dim),
		Phi:  0.3,
		K:    IsotropicPermeability(dim, 1e-12),
		Law:  testLaw{pcMax: 1000},
		FS:   newTestFluids(),
		BoundaryTypesAtPos: func(pos []float64) (bt types.BoundaryTypes) {
			bt = types.NewBoundaryTypes(types.NumEq)
			bt.SetAllNeuman()
			return
		},
		NeumannAtPos:           func(pos []float64) (pv PrimaryVarVector) { return },
		SourceAtPos:            func(pos []float64) (pv PrimaryVarVector) { return },
		InitialAtPos:           func(pos []float64) PrimaryVarVector { return PrimaryVarVector{1e5, 0.5} },
		InitialPhaseStateAtPos: func(pos []float64) types.PhaseState { return state },
	}
	return
}

func newTestModel(cfg *Config, bp *BaseProblem, grid *mesh.LocalGrid, opts ...Option) (m *Model, hook *test.Hook) {
	var (
		logger *logrus.Logger
	)
	logger, hook = test.NewNullLogger()
	opts = append([]Option{WithLogger(logger)}, opts...)
	m = NewModel(cfg, bp, grid, opts...)
	m.InitStaticData()
	return
}
