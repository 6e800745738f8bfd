package TwoPTwoC

import (
	"math"

	"github.com/notargets/twophase/types"
	"github.com/notargets/twophase/utils"
)

/*
Assembler builds the global residual and a forward difference Jacobian from the element residuals of
one rank. Global row and column gv*NumEq + eq belongs to equation / primary variable eq of global vertex gv.
*/
type Assembler struct {
	model *Model
	Eps   float64 // Relative perturbation of the finite difference Jacobian
}

func NewAssembler(m *Model) *Assembler {
	return &Assembler{model: m, Eps: 1e-8}
}

// Linearization is the residual summed over all ranks and this rank's part of the Jacobian
type Linearization struct {
	Residual  []float64
	Jacobian  utils.CSR
	dirichlet []bool
}

func (as *Assembler) size() int { return as.model.Grid.NumGlobalVertices * types.NumEq }

// dirichletRows reduces the Dirichlet rows and their residuals x - x_D over all ranks
func (as *Assembler) dirichletRows(curSol []PrimaryVarVector) (mask []bool, vals []float64) {
	var (
		m     = as.model
		n     = as.size()
		flags = make([]float64, n)
	)
	vals = make([]float64, n)
	for v, pos := range m.Grid.Vertices {
		if !m.Grid.BoundaryVertex[v] || !m.Grid.Owned[v] {
			continue
		}
		bt := m.Problem.BoundaryTypes(pos)
		if !bt.HasDirichlet() {
			continue
		}
		xD := m.Problem.Dirichlet(pos)
		gv := m.Grid.LocalToGlobalVertex[v]
		for eq := 0; eq < types.NumEq; eq++ {
			if bt.IsDirichlet(eq) {
				flags[gv*types.NumEq+eq] = 1
				vals[gv*types.NumEq+eq] = curSol[v][eq] - xD[eq]
			}
		}
	}
	// Every vertex has exactly one owner, so sums carry the owner's values
	m.Comm.ReduceSum(flags)
	m.Comm.ReduceSum(vals)
	mask = make([]bool, n)
	for i, f := range flags {
		mask[i] = f != 0
	}
	return
}

// Residual evaluates the global residual, identical on every rank
func (as *Assembler) Residual(curSol, prevSol []PrimaryVarVector, dt float64) (res []float64, err error) {
	var (
		m = as.model
		r []PrimaryVarVector
	)
	res = make([]float64, as.size())
	for _, elem := range m.Grid.Elements {
		if r, err = m.residual.EvalRaw(elem, curSol, prevSol, dt); err != nil {
			return
		}
		for i, v := range elem.Vertices {
			gv := m.Grid.LocalToGlobalVertex[v]
			for eq := 0; eq < types.NumEq; eq++ {
				res[gv*types.NumEq+eq] += r[i][eq]
			}
		}
	}
	m.Comm.ReduceSum(res)
	mask, vals := as.dirichletRows(curSol)
	for i := range res {
		if mask[i] {
			res[i] = vals[i]
		}
	}
	return
}

/*
Linearize evaluates the residual and this rank's contribution to the Jacobian. The global Jacobian is
the sum of the contributions of all ranks. Dirichlet rows are identity rows set by the owning rank.
Phase states are held fixed while perturbing. curSol is perturbed in place and restored.
*/
func (as *Assembler) Linearize(curSol, prevSol []PrimaryVarVector, dt float64) (lin *Linearization, err error) {
	var (
		m    = as.model
		n    = as.size()
		jac  = utils.NewDOK(n, n)
		r0   []PrimaryVarVector
		r1   []PrimaryVarVector
		rows = func(gv, eq int) int { return gv*types.NumEq + eq }
	)
	lin = &Linearization{}
	if lin.Residual, err = as.Residual(curSol, prevSol, dt); err != nil {
		return
	}
	lin.dirichlet, _ = as.dirichletRows(curSol)
	for _, elem := range m.Grid.Elements {
		if r0, err = m.residual.EvalRaw(elem, curSol, prevSol, dt); err != nil {
			return
		}
		for _, vj := range elem.Vertices {
			gj := m.Grid.LocalToGlobalVertex[vj]
			for c := 0; c < types.NumEq; c++ {
				x := curSol[vj][c]
				h := as.Eps * (math.Abs(x) + 1)
				curSol[vj][c] = x + h
				r1, err = m.residual.EvalRaw(elem, curSol, prevSol, dt)
				curSol[vj][c] = x
				if err != nil {
					return
				}
				for i, vi := range elem.Vertices {
					gi := m.Grid.LocalToGlobalVertex[vi]
					for eq := 0; eq < types.NumEq; eq++ {
						if lin.dirichlet[rows(gi, eq)] {
							continue
						}
						jac.AddAt(rows(gi, eq), rows(gj, c), (r1[i][eq]-r0[i][eq])/h)
					}
				}
			}
		}
	}
	for v := range m.Grid.Vertices {
		if !m.Grid.Owned[v] {
			continue
		}
		gv := m.Grid.LocalToGlobalVertex[v]
		for eq := 0; eq < types.NumEq; eq++ {
			if lin.dirichlet[rows(gv, eq)] {
				jac.Set(rows(gv, eq), rows(gv, eq), 1)
			}
		}
	}
	jac.SetReadOnly("Jacobian")
	lin.Jacobian = jac.ToCSR()
	return
}
