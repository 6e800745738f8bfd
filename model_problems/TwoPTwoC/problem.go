package TwoPTwoC

import (
	"fmt"

	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"gonum.org/v1/gonum/mat"
)

// MaterialLaw supplies capillary pressure and relative permeabilities
type MaterialLaw interface {
	Pc(Sw float64, pos []float64, elem int, localPos []float64, T float64) (float64, error)
	Krw(Sw float64) float64
	Krn(Sw float64) float64
}

// FluidSystem supplies phase properties and the equilibrium composition bounds
type FluidSystem interface {
	Density(phase int, p, T float64) (float64, error)
	Viscosity(phase int, p, T float64) float64
	XWN(pN, T float64) (float64, error) // Max mass fraction of the wetting component in the nonwetting phase
	XAW(p, T float64) (float64, error)  // Max mass fraction of the nonwetting component in the wetting phase
	MolarMass(comp int) float64
	DiffCoeff(phase int, p, T float64) float64
}

/*
Problem is everything the model needs to know about a concrete simulation. Neumann values are mass
fluxes per unit area, positive out of the domain. Sources are mass rates per unit volume.
*/
type Problem interface {
	Temperature() float64
	Gravity() []float64
	IntrinsicPermeability(elem *mesh.ElementGeometry) *mat.Dense
	Porosity(elem *mesh.ElementGeometry, scvIdx int) float64
	MaterialLaw() MaterialLaw
	FluidSystem() FluidSystem
	BoundaryTypes(pos []float64) types.BoundaryTypes
	Dirichlet(pos []float64) PrimaryVarVector
	Neumann(pos []float64) PrimaryVarVector
	Source(elem *mesh.ElementGeometry, scvIdx int) PrimaryVarVector
	Initial(pos []float64) PrimaryVarVector
	InitialPhaseState(vertIdx int, pos []float64) types.PhaseState
}

/*
BaseProblem implements Problem by evaluating position based hooks. There is no default for the
boundary, initial and source hooks, calling one that is not set panics.
*/
type BaseProblem struct {
	Name string
	T    float64
	G    []float64
	Phi  float64
	K    *mat.Dense
	Law  MaterialLaw
	FS   FluidSystem

	BoundaryTypesAtPos     func(pos []float64) types.BoundaryTypes
	DirichletAtPos         func(pos []float64) PrimaryVarVector
	NeumannAtPos           func(pos []float64) PrimaryVarVector
	SourceAtPos            func(pos []float64) PrimaryVarVector
	InitialAtPos           func(pos []float64) PrimaryVarVector
	InitialPhaseStateAtPos func(pos []float64) types.PhaseState
	PermeabilityAtPos      func(pos []float64) *mat.Dense // Optional, K is used when unset
	PorosityAtPos          func(pos []float64) float64    // Optional, Phi is used when unset
}

func missingHook(name string) {
	panic(fmt.Errorf("the problem does not provide a %s() method", name))
}

func (bp *BaseProblem) Temperature() float64      { return bp.T }
func (bp *BaseProblem) Gravity() []float64        { return bp.G }
func (bp *BaseProblem) MaterialLaw() MaterialLaw  { return bp.Law }
func (bp *BaseProblem) FluidSystem() FluidSystem  { return bp.FS }

func (bp *BaseProblem) IntrinsicPermeability(elem *mesh.ElementGeometry) *mat.Dense {
	if bp.PermeabilityAtPos != nil {
		return bp.PermeabilityAtPos(elem.Center)
	}
	return bp.K
}

func (bp *BaseProblem) Porosity(elem *mesh.ElementGeometry, scvIdx int) float64 {
	if bp.PorosityAtPos != nil {
		return bp.PorosityAtPos(elem.SCV[scvIdx].Center)
	}
	return bp.Phi
}

func (bp *BaseProblem) BoundaryTypes(pos []float64) types.BoundaryTypes {
	if bp.BoundaryTypesAtPos == nil {
		missingHook("boundaryTypesAtPos")
	}
	return bp.BoundaryTypesAtPos(pos)
}

func (bp *BaseProblem) Dirichlet(pos []float64) PrimaryVarVector {
	if bp.DirichletAtPos == nil {
		missingHook("dirichletAtPos")
	}
	return bp.DirichletAtPos(pos)
}

func (bp *BaseProblem) Neumann(pos []float64) PrimaryVarVector {
	if bp.NeumannAtPos == nil {
		missingHook("neumannAtPos")
	}
	return bp.NeumannAtPos(pos)
}

func (bp *BaseProblem) Source(elem *mesh.ElementGeometry, scvIdx int) PrimaryVarVector {
	if bp.SourceAtPos == nil {
		missingHook("sourceAtPos")
	}
	return bp.SourceAtPos(elem.SCV[scvIdx].Center)
}

func (bp *BaseProblem) Initial(pos []float64) PrimaryVarVector {
	if bp.InitialAtPos == nil {
		missingHook("initialAtPos")
	}
	return bp.InitialAtPos(pos)
}

func (bp *BaseProblem) InitialPhaseState(vertIdx int, pos []float64) types.PhaseState {
	if bp.InitialPhaseStateAtPos == nil {
		missingHook("initialPhasePresenceAtPos")
	}
	return bp.InitialPhaseStateAtPos(pos)
}

// IsotropicPermeability returns k times the identity
func IsotropicPermeability(dim int, k float64) *mat.Dense {
	K := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		K.Set(i, i, k)
	}
	return K
}
