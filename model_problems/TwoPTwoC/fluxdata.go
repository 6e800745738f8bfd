package TwoPTwoC

import (
	"math"

	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
FluxData holds the per phase quantities at one sub-control volume face. VDarcyNormal is the
volume flux across the area scaled face normal without the mobility, positive from I to J.
Upstream and downstream indices are element-local vertices.
*/
type FluxData struct {
	Face              int
	UpstreamIdx       [types.NumPhases]int
	DownstreamIdx     [types.NumPhases]int
	PotentialGrad     [types.NumPhases][]float64
	VDarcyNormal      [types.NumPhases]float64
	ConcentrationGrad [types.NumPhases][]float64 // Gradient of the dissolved component's mass fraction
	DiffCoeffPM       [types.NumPhases]float64
	DensityAtIP       [types.NumPhases]float64
}

func NewFluxData(problem Problem, elem *mesh.ElementGeometry, faceIdx int, elemDat []VertexData) (fd FluxData) {
	var (
		face = &elem.SCVF[faceIdx]
		dim  = elem.Dim
		K    = problem.IntrinsicPermeability(elem)
		g    = problem.Gravity()
	)
	fd.Face = faceIdx
	for phase := 0; phase < types.NumPhases; phase++ {
		fd.PotentialGrad[phase] = make([]float64, dim)
		fd.ConcentrationGrad[phase] = make([]float64, dim)
	}
	for k := range elemDat {
		for phase := 0; phase < types.NumPhases; phase++ {
			floats.AddScaled(fd.PotentialGrad[phase], elemDat[k].Pressure[phase], face.Grad[k])
			fd.DensityAtIP[phase] += face.ShapeValue[k] * elemDat[k].Density[phase]
		}
		floats.AddScaled(fd.ConcentrationGrad[types.WPhase], elemDat[k].MassFrac[types.NComp][types.WPhase], face.Grad[k])
		floats.AddScaled(fd.ConcentrationGrad[types.NPhase], elemDat[k].MassFrac[types.WComp][types.NPhase], face.Grad[k])
	}
	var (
		kGrad = mat.NewVecDense(dim, nil)
		n     = mat.NewVecDense(dim, face.Normal)
	)
	for phase := 0; phase < types.NumPhases; phase++ {
		if len(g) == dim {
			floats.AddScaled(fd.PotentialGrad[phase], -fd.DensityAtIP[phase], g)
		}
		kGrad.MulVec(K, mat.NewVecDense(dim, fd.PotentialGrad[phase]))
		fd.VDarcyNormal[phase] = -mat.Dot(kGrad, n)
		if fd.VDarcyNormal[phase] >= 0 {
			fd.UpstreamIdx[phase], fd.DownstreamIdx[phase] = face.I, face.J
		} else {
			fd.UpstreamIdx[phase], fd.DownstreamIdx[phase] = face.J, face.I
		}
		fd.DiffCoeffPM[phase] = porousDiffCoeff(&elemDat[face.I], &elemDat[face.J], phase)
	}
	return
}

// porousDiffCoeff is the Millington-Quirk effective coefficient averaged over both vertices of the face
func porousDiffCoeff(vi, vj *VertexData, phase int) float64 {
	var (
		Si, Sj = vi.Saturation[phase], vj.Saturation[phase]
	)
	if Si <= 0 || Sj <= 0 {
		return 0
	}
	mq := func(vd *VertexData, S float64) float64 {
		tau := math.Pow(vd.Porosity*S, 7./3) / (vd.Porosity * vd.Porosity)
		return vd.Porosity * S * tau * vd.DiffCoeff[phase]
	}
	return 0.5 * (mq(vi, Si) + mq(vj, Sj))
}
