package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var yamlInput = `
Title: "Gas injection below a water table"
Formulation: pw-sn
UpwindWeight: 1.0
Temperature: 283.15
Gravity: [0, -9.81]
Porosity: 0.3
Permeability: [1.e-11, 0, 0, 1.e-12]
TimeStep: 10
Steps: 2
Partitions: 2
Mesh:
  Dimension: 2
  Origin: [0, 0]
  Extent: [10, 5]
  Cells: [10, 5]
MaterialLaw:
  Type: brooks-corey
  Pe: 1000
  Lambda: 2
Switch:
  Hysteresis: 0.02
Initial:
  PhaseState: wettingOnly
  Pressure: 1.e5
  Switch: 0
BCs:
  left:
    Type: dirichlet
    Pressure: 1.e5
  right:
    Type: neuman
    FluxN: -1.e-4
Sources:
  - Min: [4, 0]
    Max: [6, 1]
    Kind: mass
    Rate: [0, 1.e-5]
`

var tomlInput = `
Title = "Column"
Formulation = "pn-sw"
Temperature = 293.15
Porosity = 0.4
Permeability = [1e-12]

[Mesh]
Dimension = 1
Origin = [0.0]
Extent = [1.0]
Cells = [20]

[Diagnostics]
GlobalExtrema = true

[BCs.left]
Type = "dirichlet"
Pressure = 2e5
Switch = 1.0
`

func TestInputParameters(t *testing.T) {
	{
		ip := &InputParameters2P2C{}
		require.NoError(t, ip.Parse([]byte(yamlInput)))
		require.NoError(t, ip.Validate())
		assert.Equal(t, "pw-sn", ip.Formulation)
		require.NotNil(t, ip.UpwindWeight)
		assert.Equal(t, 1., *ip.UpwindWeight)
		assert.Equal(t, []int{10, 5}, ip.Mesh.Cells)
		assert.Equal(t, 0.02, *ip.Switch.Hysteresis)
		assert.Equal(t, "neuman", ip.BCs["right"].Type)
		assert.Equal(t, -1.e-4, ip.BCs["right"].FluxN)
		assert.Len(t, ip.Sources, 1)
		assert.Equal(t, 2, ip.Partitions)
	}
	{
		ip := &InputParameters2P2C{}
		require.NoError(t, ip.ParseTOML([]byte(tomlInput)))
		require.NoError(t, ip.Validate())
		assert.Equal(t, 1, ip.Mesh.Dimension)
		assert.True(t, ip.Diagnostics.GlobalExtrema)
		assert.Nil(t, ip.Switch.Hysteresis)
		assert.Equal(t, 2e5, ip.BCs["left"].Pressure)
	}
	{ // Extension selects the decoder
		dir := t.TempDir()
		fileName := filepath.Join(dir, "column.toml")
		require.NoError(t, os.WriteFile(fileName, []byte(tomlInput), 0o644))
		ip := &InputParameters2P2C{}
		assert.NoError(t, ip.ParseFile(fileName))
		assert.Equal(t, "Column", ip.Title)
		assert.Error(t, ip.ParseFile(filepath.Join(dir, "missing.yaml")))
	}
	{
		ip := &InputParameters2P2C{}
		require.NoError(t, ip.ParseTOML([]byte(tomlInput)))
		ip.Porosity = 0
		assert.Error(t, ip.Validate())
		ip.Porosity = 0.3
		ip.Permeability = []float64{1, 2}
		assert.Error(t, ip.Validate())
	}
}
