package TwoPTwoC

import (
	"fmt"

	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"github.com/notargets/twophase/utils"
)

// StaticVertexAccess is the per-vertex state the residual reads from its owning model
type StaticVertexAccess interface {
	PhaseState(vertIdx int, old bool) types.PhaseState
	IsBoundaryVertex(vertIdx int) bool
}

/*
LocalResidual evaluates the box residual of one element. The secondary variables of the element's
vertices are cached for the current and the previous time level by SetElement.
For sub-control volume i the residual is
	R_i = V_i (S_i(t+dt) - S_i(t))/dt + sum of fluxes leaving i + Neumann fluxes - V_i q_i
*/
type LocalResidual struct {
	problem     Problem
	cfg         *Config
	idx         Indices
	static      StaticVertexAccess
	elem        *mesh.ElementGeometry
	curElemDat  []VertexData
	prevElemDat []VertexData
}

func NewLocalResidual(problem Problem, cfg *Config, static StaticVertexAccess) (lr *LocalResidual) {
	lr = &LocalResidual{
		problem: problem,
		cfg:     cfg,
		idx:     NewIndices(cfg.Formulation),
		static:  static,
	}
	return
}

// ElementVertexData evaluates every vertex of elem, using the old phase states when old is set
func (lr *LocalResidual) ElementVertexData(elem *mesh.ElementGeometry, sol []PrimaryVarVector,
	old bool) (elemDat []VertexData, err error) {
	var (
		T   = lr.problem.Temperature()
		law = lr.problem.MaterialLaw()
		fs  = lr.problem.FluidSystem()
	)
	elemDat = make([]VertexData, elem.NumVertices())
	for i, v := range elem.Vertices {
		elemDat[i], err = NewVertexData(sol[v], lr.static.PhaseState(v, old), T, elem.Positions[i],
			elem.Index, elem.LocalPos[i], law, fs, lr.idx, lr.problem.Porosity(elem, i))
		if err != nil {
			err = fmt.Errorf("element %d, vertex %d: %w", elem.Index, v, err)
			return
		}
	}
	return
}

// SetElement binds the residual to elem and refreshes both secondary variable caches
func (lr *LocalResidual) SetElement(elem *mesh.ElementGeometry, curSol, prevSol []PrimaryVarVector) (err error) {
	lr.elem = elem
	if lr.curElemDat, err = lr.ElementVertexData(elem, curSol, false); err != nil {
		return
	}
	lr.prevElemDat, err = lr.ElementVertexData(elem, prevSol, true)
	return
}

func (lr *LocalResidual) CurElemDat() []VertexData  { return lr.curElemDat }
func (lr *LocalResidual) PrevElemDat() []VertexData { return lr.prevElemDat }

// ComputeStorage is the mass of each component per unit volume in sub-control volume scvIdx
func (lr *LocalResidual) ComputeStorage(scvIdx int, usePrevious bool) (result PrimaryVarVector) {
	var (
		elemDat = lr.curElemDat
	)
	if usePrevious {
		elemDat = lr.prevElemDat
	}
	vd := &elemDat[scvIdx]
	for phase := 0; phase < types.NumPhases; phase++ {
		for comp := 0; comp < types.NumComponents; comp++ {
			result[lr.idx.Comp2Mass(comp)] += vd.Density[phase] * vd.Saturation[phase] * vd.MassFrac[comp][phase]
		}
	}
	for eq := range result {
		result[eq] *= vd.Porosity
	}
	return
}

// ComputeFlux is the mass of each component leaving sub-control volume I through face faceIdx
func (lr *LocalResidual) ComputeFlux(faceIdx int) (flux PrimaryVarVector) {
	vars := NewFluxData(lr.problem, lr.elem, faceIdx, lr.curElemDat)
	lr.ComputeAdvectiveFlux(&flux, &vars)
	lr.ComputeDiffusiveFlux(&flux, &vars)
	return
}

func (lr *LocalResidual) ComputeAdvectiveFlux(flux *PrimaryVarVector, vars *FluxData) {
	var (
		alpha = lr.cfg.UpwindWeight
	)
	for phase := 0; phase < types.NumPhases; phase++ {
		up := &lr.curElemDat[vars.UpstreamIdx[phase]]
		dn := &lr.curElemDat[vars.DownstreamIdx[phase]]
		for comp := 0; comp < types.NumComponents; comp++ {
			eq := lr.idx.Comp2Mass(comp)
			if alpha > 0 {
				flux[eq] += vars.VDarcyNormal[phase] * alpha *
					(up.Density[phase] * up.Mobility[phase] * up.MassFrac[comp][phase])
			}
			if alpha < 1 {
				flux[eq] += vars.VDarcyNormal[phase] * (1 - alpha) *
					(dn.Density[phase] * dn.Mobility[phase] * dn.MassFrac[comp][phase])
			}
		}
	}
}

/*
ComputeDiffusiveFlux adds Fickian diffusion of the dissolved component in each phase. The amount
removed from the solvent component is taken equal to the dissolved one, which does not hold in general.
The term is -D rho (grad X . n), so like the advective term it is positive for transport out of the
SCV on the inner side of the face. This flips the sign of the +D rho (grad X . n) form.
*/
func (lr *LocalResidual) ComputeDiffusiveFlux(flux *PrimaryVarVector, vars *FluxData) {
	var (
		normal = lr.elem.SCVF[vars.Face].Normal
		wEq    = lr.idx.Comp2Mass(types.WComp)
		nEq    = lr.idx.Comp2Mass(types.NComp)
	)
	// nonwetting component in the wetting phase
	tmp := -vars.DiffCoeffPM[types.WPhase] * vars.DensityAtIP[types.WPhase] *
		utils.Dot(vars.ConcentrationGrad[types.WPhase], normal)
	flux[nEq] += tmp
	flux[wEq] -= tmp

	// wetting component in the nonwetting phase
	tmp = -vars.DiffCoeffPM[types.NPhase] * vars.DensityAtIP[types.NPhase] *
		utils.Dot(vars.ConcentrationGrad[types.NPhase], normal)
	flux[wEq] += tmp
	flux[nEq] -= tmp
}

func (lr *LocalResidual) ComputeSource(scvIdx int) PrimaryVarVector {
	return lr.problem.Source(lr.elem, scvIdx)
}

// EvalRaw evaluates the element residual without applying Dirichlet conditions
func (lr *LocalResidual) EvalRaw(elem *mesh.ElementGeometry, curSol, prevSol []PrimaryVarVector,
	dt float64) (res []PrimaryVarVector, err error) {
	if dt <= 0 {
		err = fmt.Errorf("time step must be positive, have %g", dt)
		return
	}
	if err = lr.SetElement(elem, curSol, prevSol); err != nil {
		return
	}
	res = make([]PrimaryVarVector, elem.NumVertices())
	for i, scv := range elem.SCV {
		var (
			sNew = lr.ComputeStorage(i, false)
			sOld = lr.ComputeStorage(i, true)
			q    = lr.ComputeSource(i)
		)
		for eq := 0; eq < types.NumEq; eq++ {
			res[i][eq] += scv.Volume * ((sNew[eq]-sOld[eq])/dt - q[eq])
		}
	}
	for f, face := range elem.SCVF {
		flux := lr.ComputeFlux(f)
		for eq := 0; eq < types.NumEq; eq++ {
			res[face.I][eq] += flux[eq]
			res[face.J][eq] -= flux[eq]
		}
	}
	for _, bf := range elem.BoundaryFaces {
		bt := lr.problem.BoundaryTypes(elem.Positions[bf.Vertex])
		if !bt.HasNeuman() {
			continue
		}
		nFlux := lr.problem.Neumann(bf.IPGlobal)
		for eq := 0; eq < types.NumEq; eq++ {
			if bt[eq] == types.BC_Neuman {
				res[bf.Vertex][eq] += nFlux[eq] * bf.Area
			}
		}
	}
	return
}

// Eval is EvalRaw with the Dirichlet equations of boundary vertices replaced by x - x_D
func (lr *LocalResidual) Eval(elem *mesh.ElementGeometry, curSol, prevSol []PrimaryVarVector,
	dt float64) (res []PrimaryVarVector, err error) {
	if res, err = lr.EvalRaw(elem, curSol, prevSol, dt); err != nil {
		return
	}
	for i, v := range elem.Vertices {
		if !lr.static.IsBoundaryVertex(v) {
			continue
		}
		bt := lr.problem.BoundaryTypes(elem.Positions[i])
		if !bt.HasDirichlet() {
			continue
		}
		xD := lr.problem.Dirichlet(elem.Positions[i])
		for eq := 0; eq < types.NumEq; eq++ {
			if bt.IsDirichlet(eq) {
				res[i][eq] = curSol[v][eq] - xD[eq]
			}
		}
	}
	return
}
