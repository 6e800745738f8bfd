package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SubControlVolume is the part of an element's dual cell belonging to one element vertex
type SubControlVolume struct {
	Volume float64
	Center []float64
}

/*
SubControlVolumeFace separates the sub-control volumes of element vertices I and J.
Normal is scaled by the face area and points from I to J.
*/
type SubControlVolumeFace struct {
	I, J       int
	IPGlobal   []float64
	IPLocal    []float64
	Normal     []float64
	ShapeValue []float64   // N_k at the integration point, one per element vertex
	Grad       [][]float64 // Gradient of N_k at the integration point, [k][dim]
}

// BoundaryFace is the part of the domain boundary attached to one element vertex
type BoundaryFace struct {
	Vertex   int // Element-local vertex
	Area     float64
	IPGlobal []float64
	Normal   []float64 // Unit outward normal
}

type ElementGeometry struct {
	Index         int   // Global element index
	Vertices      []int // Grid vertex indices, global or local depending on the owning grid
	Positions     [][]float64
	LocalPos      [][]float64 // Reference coordinates of the vertices
	Dim           int
	Volume        float64
	Center        []float64
	SCV           []SubControlVolume
	SCVF          []SubControlVolumeFace
	BoundaryFaces []BoundaryFace
}

func (eg *ElementGeometry) NumVertices() int { return len(eg.Vertices) }

// LocalIndex gives the element-local index of grid vertex v, or -1
func (eg *ElementGeometry) LocalIndex(v int) int {
	for i, vv := range eg.Vertices {
		if vv == v {
			return i
		}
	}
	return -1
}

func newLineGeometry(k int, verts [2]int, x [2]float64) (eg *ElementGeometry) {
	var (
		h    = x[1] - x[0]
		sign = 1.
	)
	if h == 0 {
		panic(fmt.Errorf("element %d has zero length", k))
	}
	if h < 0 {
		sign = -1
	}
	mid := 0.5 * (x[0] + x[1])
	eg = &ElementGeometry{
		Index:     k,
		Vertices:  []int{verts[0], verts[1]},
		Positions: [][]float64{{x[0]}, {x[1]}},
		LocalPos:  [][]float64{{0}, {1}},
		Dim:       1,
		Volume:    math.Abs(h),
		Center:    []float64{mid},
		SCV: []SubControlVolume{
			{Volume: 0.5 * math.Abs(h), Center: []float64{0.5 * (x[0] + mid)}},
			{Volume: 0.5 * math.Abs(h), Center: []float64{0.5 * (x[1] + mid)}},
		},
		SCVF: []SubControlVolumeFace{
			{
				I: 0, J: 1,
				IPGlobal:   []float64{mid},
				IPLocal:    []float64{0.5},
				Normal:     []float64{sign},
				ShapeValue: []float64{0.5, 0.5},
				Grad:       [][]float64{{-1 / h}, {1 / h}},
			},
		},
	}
	return
}

func newTriGeometry(k int, verts [3]int, x [3][2]float64) (eg *ElementGeometry) {
	var (
		e1    = [2]float64{x[1][0] - x[0][0], x[1][1] - x[0][1]}
		e2    = [2]float64{x[2][0] - x[0][0], x[2][1] - x[0][1]}
		det   = e1[0]*e2[1] - e1[1]*e2[0]
		area  = 0.5 * math.Abs(det)
		c     = []float64{(x[0][0] + x[1][0] + x[2][0]) / 3, (x[0][1] + x[1][1] + x[2][1]) / 3}
		grads [][]float64
	)
	if det == 0 {
		panic(fmt.Errorf("element %d is degenerate", k))
	}
	// Gradients of the linear shape functions are constant on the triangle
	grads = [][]float64{
		{(x[1][1] - x[2][1]) / det, (x[2][0] - x[1][0]) / det},
		{(x[2][1] - x[0][1]) / det, (x[0][0] - x[2][0]) / det},
		{(x[0][1] - x[1][1]) / det, (x[1][0] - x[0][0]) / det},
	}
	eg = &ElementGeometry{
		Index:     k,
		Vertices:  []int{verts[0], verts[1], verts[2]},
		Positions: [][]float64{{x[0][0], x[0][1]}, {x[1][0], x[1][1]}, {x[2][0], x[2][1]}},
		LocalPos:  [][]float64{{0, 0}, {1, 0}, {0, 1}},
		Dim:       2,
		Volume:    area,
		Center:    c,
	}
	for i := 0; i < 3; i++ {
		// Centroid of the median dual quadrilateral (vertex, two edge midpoints, centroid)
		var (
			j  = (i + 1) % 3
			l  = (i + 2) % 3
			cx = (x[i][0] + 0.5*(x[i][0]+x[j][0]) + c[0] + 0.5*(x[i][0]+x[l][0])) / 4
			cy = (x[i][1] + 0.5*(x[i][1]+x[j][1]) + c[1] + 0.5*(x[i][1]+x[l][1])) / 4
		)
		eg.SCV = append(eg.SCV, SubControlVolume{Volume: area / 3, Center: []float64{cx, cy}})
	}
	for _, pair := range [3][2]int{{0, 1}, {1, 2}, {0, 2}} {
		var (
			i, j  = pair[0], pair[1]
			m     = []float64{0.5 * (x[i][0] + x[j][0]), 0.5 * (x[i][1] + x[j][1])}
			ip    = []float64{0.5 * (m[0] + c[0]), 0.5 * (m[1] + c[1])}
			t     = []float64{c[0] - m[0], c[1] - m[1]}
			n     = []float64{t[1], -t[0]}
			dx    = []float64{x[j][0] - x[i][0], x[j][1] - x[i][1]}
			shape = []float64{1. / 6, 1. / 6, 1. / 6}
		)
		if floats.Dot(n, dx) < 0 {
			floats.Scale(-1, n)
		}
		shape[i], shape[j] = 5./12, 5./12
		eg.SCVF = append(eg.SCVF, SubControlVolumeFace{
			I: i, J: j,
			IPGlobal:   ip,
			IPLocal:    []float64{shape[1], shape[2]},
			Normal:     n,
			ShapeValue: shape,
			Grad:       grads,
		})
	}
	return
}

// addBoundarySegment attaches the half segments of a boundary edge to its two element vertices
func (eg *ElementGeometry) addBoundarySegment(i, j int) {
	var (
		xi, xj = eg.Positions[i], eg.Positions[j]
		m      = []float64{0.5 * (xi[0] + xj[0]), 0.5 * (xi[1] + xj[1])}
		length = math.Hypot(xj[0]-xi[0], xj[1]-xi[1])
		n      = []float64{(xj[1] - xi[1]) / length, -(xj[0] - xi[0]) / length}
		toC    = []float64{eg.Center[0] - m[0], eg.Center[1] - m[1]}
	)
	if floats.Dot(n, toC) > 0 {
		floats.Scale(-1, n)
	}
	for _, v := range [2]int{i, j} {
		eg.BoundaryFaces = append(eg.BoundaryFaces, BoundaryFace{
			Vertex:   v,
			Area:     0.5 * length,
			IPGlobal: []float64{0.5 * (eg.Positions[v][0] + m[0]), 0.5 * (eg.Positions[v][1] + m[1])},
			Normal:   append([]float64(nil), n...),
		})
	}
}

func (eg *ElementGeometry) addBoundaryPoint(i int) {
	var (
		n = 1.
	)
	if eg.Positions[i][0] < eg.Center[0] {
		n = -1
	}
	eg.BoundaryFaces = append(eg.BoundaryFaces, BoundaryFace{
		Vertex:   i,
		Area:     1,
		IPGlobal: []float64{eg.Positions[i][0]},
		Normal:   []float64{n},
	})
}
