package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/twophase/types"
	"github.com/notargets/twophase/utils"
)

// Grid is a conforming simplex mesh with precomputed box geometry
type Grid struct {
	Dim            int
	Vertices       [][]float64
	Elements       []*ElementGeometry
	BoundaryVertex []bool
}

func (g *Grid) NumVertices() int { return len(g.Vertices) }
func (g *Grid) NumElements() int { return len(g.Elements) }

// NewLineGrid divides [x0, x1] into n equal elements
func NewLineGrid(x0, x1 float64, n int) (g *Grid) {
	if n < 1 || x1 <= x0 {
		panic(fmt.Errorf("invalid line grid [%g,%g] with %d elements", x0, x1, n))
	}
	var (
		h = (x1 - x0) / float64(n)
	)
	g = &Grid{Dim: 1}
	for i := 0; i <= n; i++ {
		g.Vertices = append(g.Vertices, []float64{x0 + float64(i)*h})
	}
	g.Vertices[n][0] = x1
	for k := 0; k < n; k++ {
		g.Elements = append(g.Elements,
			newLineGeometry(k, [2]int{k, k + 1}, [2]float64{g.Vertices[k][0], g.Vertices[k+1][0]}))
	}
	g.markBoundary()
	return
}

/*
NewRectTriGrid covers the rectangle origin + [0,extent] with nx by ny cells, each split into
two counter-clockwise triangles along the diagonal from its lower left corner.
*/
func NewRectTriGrid(origin, extent [2]float64, nx, ny int) (g *Grid) {
	if nx < 1 || ny < 1 || extent[0] <= 0 || extent[1] <= 0 {
		panic(fmt.Errorf("invalid rectangle grid %v with %dx%d cells", extent, nx, ny))
	}
	var (
		dx, dy = extent[0] / float64(nx), extent[1] / float64(ny)
		vIdx   = func(i, j int) int { return j*(nx+1) + i }
	)
	g = &Grid{Dim: 2}
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			g.Vertices = append(g.Vertices, []float64{origin[0] + float64(i)*dx, origin[1] + float64(j)*dy})
		}
	}
	var tris [][3]int
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			tris = append(tris,
				[3]int{vIdx(i, j), vIdx(i+1, j), vIdx(i+1, j+1)},
				[3]int{vIdx(i, j), vIdx(i+1, j+1), vIdx(i, j+1)})
		}
	}
	g.addTriangles(tris)
	return
}

// NewTriGrid builds a grid from an external triangulation
func NewTriGrid(verts [][2]float64, tris [][3]int) (g *Grid) {
	g = &Grid{Dim: 2}
	for _, v := range verts {
		g.Vertices = append(g.Vertices, []float64{v[0], v[1]})
	}
	g.addTriangles(tris)
	return
}

func (g *Grid) addTriangles(tris [][3]int) {
	for k, tri := range tris {
		var x [3][2]float64
		for n := 0; n < 3; n++ {
			if tri[n] < 0 || tri[n] >= len(g.Vertices) {
				panic(fmt.Errorf("element %d references vertex %d out of range", k, tri[n]))
			}
			x[n] = [2]float64{g.Vertices[tri[n]][0], g.Vertices[tri[n]][1]}
		}
		g.Elements = append(g.Elements, newTriGeometry(k, tri, x))
	}
	g.markBoundary()
}

// markBoundary finds facets used by a single element and attaches boundary faces to them
func (g *Grid) markBoundary() {
	g.BoundaryVertex = make([]bool, len(g.Vertices))
	switch g.Dim {
	case 1:
		count := make([]int, len(g.Vertices))
		for _, eg := range g.Elements {
			for _, v := range eg.Vertices {
				count[v]++
			}
		}
		for _, eg := range g.Elements {
			for i, v := range eg.Vertices {
				if count[v] == 1 {
					g.BoundaryVertex[v] = true
					eg.addBoundaryPoint(i)
				}
			}
		}
	case 2:
		edgeCount := make(map[types.EdgeKey]int)
		for _, eg := range g.Elements {
			for _, scvf := range eg.SCVF {
				edgeCount[types.NewEdgeKey([2]int{eg.Vertices[scvf.I], eg.Vertices[scvf.J]})]++
			}
		}
		for _, eg := range g.Elements {
			for _, scvf := range eg.SCVF {
				en := types.NewEdgeKey([2]int{eg.Vertices[scvf.I], eg.Vertices[scvf.J]})
				if edgeCount[en] == 1 {
					verts := en.GetVertices(false)
					g.BoundaryVertex[verts[0]] = true
					g.BoundaryVertex[verts[1]] = true
					eg.addBoundarySegment(scvf.I, scvf.J)
				}
			}
		}
	}
}

// BoundingBox of the vertex positions
func (g *Grid) BoundingBox() (min, max []float64) {
	min = utils.ConstArray(g.Dim, math.Inf(1))
	max = utils.ConstArray(g.Dim, math.Inf(-1))
	for _, x := range g.Vertices {
		for d := 0; d < g.Dim; d++ {
			min[d] = math.Min(min[d], x[d])
			max[d] = math.Max(max[d], x[d])
		}
	}
	return
}
