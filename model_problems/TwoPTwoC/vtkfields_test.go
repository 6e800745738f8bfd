package TwoPTwoC

import (
	"testing"

	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVtkFields(t *testing.T) {
	var (
		grid = mesh.NewLineGrid(0, 1, 2).Local()
		bp   = newTestProblem(1, types.BothPhases)
		m, _ = newTestModel(DefaultConfig(types.PwSn), bp, grid)
		sol  = []PrimaryVarVector{{2e5, 0.5}, {1.5e5, 0.5}, {1e5, 0.5}}
	)
	m.StaticVertexData(2).PhaseState = types.WPhaseOnly
	sol[2][1] = 1e-6

	out, err := m.VtkFields(sol)
	require.NoError(t, err)
	assert.Len(t, out.VertexData, len(VertexFieldNames))
	for _, name := range VertexFieldNames {
		assert.Len(t, out.VertexData[name], 3, name)
	}
	assert.Equal(t, []float64{2e5, 1.5e5, 1e5}, out.VertexData["pW"])
	assert.Equal(t, []float64{500, 500, 0}, out.VertexData["pC"])
	assert.Equal(t, []float64{200500, 150500, 1e5}, out.VertexData["pN"])
	assert.Equal(t, []float64{0.5, 0.5, 1}, out.VertexData["SW"])
	assert.Equal(t, []float64{0.5, 0.5, 0}, out.VertexData["SN"])
	assert.Equal(t, 1e-6, out.VertexData["XaW"][2])
	assert.InDelta(t, 1, out.VertexData["XaW"][2]+out.VertexData["XwW"][2], 1e-15)
	assert.Equal(t, 0.02, out.VertexData["XwN"][0])
	assert.Equal(t, []float64{2, 2, 1}, out.VertexData["phase state"])
	assert.Equal(t, 293.15, out.VertexData["T"][1])

	// Only the dimensions of the grid carry a velocity
	require.Len(t, out.CellData, 1)
	vx := out.CellData["Vx"]
	require.Len(t, vx, 2)
	// Krw = Sw, upstream is the left vertex of each element
	assert.InEpsilon(t, 0.5/1e-3*1e-12*1e5, vx[0], 1e-10)
	assert.InEpsilon(t, 0.5/1e-3*1e-12*1e5, vx[1], 1e-10)

	sol[1][0] = -1
	_, err = m.VtkFields(sol)
	assert.Error(t, err)
}
