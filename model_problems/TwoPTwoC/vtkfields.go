package TwoPTwoC

import (
	"github.com/notargets/twophase/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Field names are read by downstream tooling and must not change
var (
	VertexFieldNames = []string{
		"pW", "pN", "pC", "SW", "SN", "rhoW", "rhoN", "mobW", "mobN",
		"XaW", "XaN", "XwW", "XwN", "T", "phase state",
	}
	CellFieldNames = []string{"Vx", "Vy", "Vz"}
)

// VtkOutput holds named scalar fields, vertex fields indexed by local vertex, cell fields by local element
type VtkOutput struct {
	VertexData map[string][]float64
	CellData   map[string][]float64
}

func (m *Model) VtkFields(sol []PrimaryVarVector) (out *VtkOutput, err error) {
	var (
		nv, ne = m.Grid.NumVertices(), len(m.Grid.Elements)
		dim    = m.Grid.Dim
		w, n   = types.WPhase, types.NPhase
		a, wc  = types.NComp, types.WComp
		vd     VertexData
	)
	out = &VtkOutput{
		VertexData: make(map[string][]float64),
		CellData:   make(map[string][]float64),
	}
	for _, name := range VertexFieldNames {
		out.VertexData[name] = make([]float64, nv)
	}
	for d := 0; d < dim; d++ {
		out.CellData[CellFieldNames[d]] = make([]float64, ne)
	}
	for v := 0; v < nv; v++ {
		if vd, err = m.VertexData(sol, v); err != nil {
			return
		}
		vals := []float64{
			vd.Pressure[w], vd.Pressure[n], vd.Pc, vd.Saturation[w], vd.Saturation[n],
			vd.Density[w], vd.Density[n], vd.Mobility[w], vd.Mobility[n],
			vd.MassFrac[a][w], vd.MassFrac[a][n], vd.MassFrac[wc][w], vd.MassFrac[wc][n],
			vd.Temperature, float64(m.PhaseState(v, false)),
		}
		for i, name := range VertexFieldNames {
			out.VertexData[name][v] = vals[i]
		}
	}
	var (
		elemDat []VertexData
		kGrad   = mat.NewVecDense(dim, nil)
		vel     = make([]float64, dim)
	)
	for k, elem := range m.Grid.Elements {
		if elemDat, err = m.residual.ElementVertexData(elem, sol, false); err != nil {
			return
		}
		K := m.Problem.IntrinsicPermeability(elem)
		for d := range vel {
			vel[d] = 0
		}
		// Wetting phase Darcy velocity with the upstream mobility, averaged over the faces
		for f := range elem.SCVF {
			fd := NewFluxData(m.Problem, elem, f, elemDat)
			kGrad.MulVec(K, mat.NewVecDense(dim, fd.PotentialGrad[w]))
			floats.AddScaled(vel, -elemDat[fd.UpstreamIdx[w]].Mobility[w], kGrad.RawVector().Data)
		}
		floats.Scale(1/float64(len(elem.SCVF)), vel)
		for d := 0; d < dim; d++ {
			out.CellData[CellFieldNames[d]][k] = vel[d]
		}
	}
	return
}
