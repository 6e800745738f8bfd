package mesh

import (
	"sort"

	"github.com/notargets/twophase/utils"
)

/*
LocalGrid is the slice of a Grid owned by one rank. Elements are disjoint between ranks, vertices on
partition boundaries are duplicated. Element geometry uses local vertex numbering.
*/
type LocalGrid struct {
	Rank                 int
	Dim                  int
	Vertices             [][]float64
	Elements             []*ElementGeometry
	BoundaryVertex       []bool
	Owned                []bool // The lowest rank holding a vertex owns it
	LocalToGlobalVertex  []int
	LocalToGlobalElement []int
	GlobalToLocalVertex  map[int]int
	NumGlobalVertices    int
	vertexElement        [][2]int // First (element, element-local vertex) touching each vertex
}

// VertexElement gives one element containing local vertex v and the vertex index within it
func (lg *LocalGrid) VertexElement(v int) (eg *ElementGeometry, localIdx int) {
	ve := lg.vertexElement[v]
	eg, localIdx = lg.Elements[ve[0]], ve[1]
	return
}

func (lg *LocalGrid) NumVertices() int { return len(lg.Vertices) }

// Local treats the whole grid as a single partition
func (g *Grid) Local() *LocalGrid {
	return PartitionElements(g, 1)[0]
}

// PartitionElements splits the elements into np contiguous index ranges
func PartitionElements(g *Grid, np int) (locals []*LocalGrid) {
	var (
		pm        = utils.NewPartitionMap(np, g.NumElements())
		firstRank = make([]int, g.NumVertices())
		globals   = make([][]int, np)
		seen      = make([]map[int]bool, np)
	)
	for i := range firstRank {
		firstRank[i] = -1
	}
	for bn := range seen {
		seen[bn] = make(map[int]bool)
	}
	// Ascending element order meets a vertex first in its lowest rank
	for k, eg := range g.Elements {
		bn, _, _ := pm.GetBucket(k)
		for _, v := range eg.Vertices {
			if !seen[bn][v] {
				seen[bn][v] = true
				globals[bn] = append(globals[bn], v)
			}
			if firstRank[v] == -1 {
				firstRank[v] = bn
			}
		}
	}
	locals = make([]*LocalGrid, np)
	for bn := 0; bn < np; bn++ {
		nk := pm.GetBucketDimension(bn)
		lg := &LocalGrid{
			Rank:                 bn,
			Dim:                  g.Dim,
			Elements:             make([]*ElementGeometry, nk),
			LocalToGlobalElement: make([]int, nk),
			GlobalToLocalVertex:  make(map[int]int),
			NumGlobalVertices:    g.NumVertices(),
		}
		// Ascending global order gives every rank the same relative vertex ordering
		sort.Ints(globals[bn])
		for i, v := range globals[bn] {
			lg.GlobalToLocalVertex[v] = i
			lg.LocalToGlobalVertex = append(lg.LocalToGlobalVertex, v)
			lg.Vertices = append(lg.Vertices, g.Vertices[v])
			lg.BoundaryVertex = append(lg.BoundaryVertex, g.BoundaryVertex[v])
			lg.Owned = append(lg.Owned, firstRank[v] == bn)
		}
		lg.vertexElement = make([][2]int, len(globals[bn]))
		for i := range lg.vertexElement {
			lg.vertexElement[i] = [2]int{-1, -1}
		}
		for kLocal := 0; kLocal < nk; kLocal++ {
			k := pm.GetGlobalK(kLocal, bn)
			local := *g.Elements[k]
			local.Vertices = make([]int, len(g.Elements[k].Vertices))
			for i, v := range g.Elements[k].Vertices {
				lv := lg.GlobalToLocalVertex[v]
				local.Vertices[i] = lv
				if lg.vertexElement[lv][0] == -1 {
					lg.vertexElement[lv] = [2]int{kLocal, i}
				}
			}
			lg.Elements[kLocal] = &local
			lg.LocalToGlobalElement[kLocal] = k
		}
		locals[bn] = lg
	}
	return
}
