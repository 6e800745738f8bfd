package InputParameters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML or TOML input file
type InputParameters2P2C struct {
	Title        string                  `json:"Title" toml:"Title"`
	Formulation  string                  `json:"Formulation" toml:"Formulation"`
	UpwindWeight *float64                `json:"UpwindWeight" toml:"UpwindWeight"`
	Temperature  float64                 `json:"Temperature" toml:"Temperature"`
	Gravity      []float64               `json:"Gravity" toml:"Gravity"`
	Porosity     float64                 `json:"Porosity" toml:"Porosity"`
	Permeability []float64               `json:"Permeability" toml:"Permeability"` // Row major Dim x Dim, or one isotropic value
	TimeStep     float64                 `json:"TimeStep" toml:"TimeStep"`
	Steps        int                     `json:"Steps" toml:"Steps"`
	Partitions   int                     `json:"Partitions" toml:"Partitions"`
	Mesh         MeshParameters          `json:"Mesh" toml:"Mesh"`
	MaterialLaw  MaterialLawParameters   `json:"MaterialLaw" toml:"MaterialLaw"`
	Switch       SwitchParameters        `json:"Switch" toml:"Switch"`
	Diagnostics  DiagnosticsParameters   `json:"Diagnostics" toml:"Diagnostics"`
	Initial      InitialParameters       `json:"Initial" toml:"Initial"`
	BCs          map[string]BCParameters `json:"BCs" toml:"BCs"` // Key is the domain side: left, right, bottom, top
	Sources      []SourceParameters      `json:"Sources" toml:"Sources"`
}

type MeshParameters struct {
	Dimension int       `json:"Dimension" toml:"Dimension"`
	Origin    []float64 `json:"Origin" toml:"Origin"`
	Extent    []float64 `json:"Extent" toml:"Extent"`
	Cells     []int     `json:"Cells" toml:"Cells"`
}

type MaterialLawParameters struct {
	Type    string  `json:"Type" toml:"Type"` // brooks-corey or van-genuchten
	Swr     float64 `json:"Swr" toml:"Swr"`
	Snr     float64 `json:"Snr" toml:"Snr"`
	Pe      float64 `json:"Pe" toml:"Pe"`
	Lambda  float64 `json:"Lambda" toml:"Lambda"`
	VgAlpha float64 `json:"VgAlpha" toml:"VgAlpha"`
	VgN     float64 `json:"VgN" toml:"VgN"`
}

type SwitchParameters struct {
	Hysteresis    *float64 `json:"Hysteresis" toml:"Hysteresis"`
	MinSaturation float64  `json:"MinSaturation" toml:"MinSaturation"`
	LatchOnBound  bool     `json:"LatchOnBound" toml:"LatchOnBound"`
}

type DiagnosticsParameters struct {
	GlobalExtrema bool `json:"GlobalExtrema" toml:"GlobalExtrema"`
}

type InitialParameters struct {
	PhaseState string  `json:"PhaseState" toml:"PhaseState"`
	Pressure   float64 `json:"Pressure" toml:"Pressure"`
	Switch     float64 `json:"Switch" toml:"Switch"` // Saturation or mass fraction, by phase state
	// Hydrostatic adds rho_w g.(x - Origin) to the initial pressure
	Hydrostatic bool `json:"Hydrostatic" toml:"Hydrostatic"`
}

type BCParameters struct {
	Type     string  `json:"Type" toml:"Type"` // dirichlet or neuman
	Pressure float64 `json:"Pressure" toml:"Pressure"`
	Switch   float64 `json:"Switch" toml:"Switch"`
	FluxW    float64 `json:"FluxW" toml:"FluxW"` // Outward mass flux of the wetting component, kg/m^2/s
	FluxN    float64 `json:"FluxN" toml:"FluxN"`
}

type SourceParameters struct {
	Min  []float64 `json:"Min" toml:"Min"` // Bounding box of the injection region
	Max  []float64 `json:"Max" toml:"Max"`
	Kind string    `json:"Kind" toml:"Kind"` // mass or molar
	Rate []float64 `json:"Rate" toml:"Rate"` // One entry per component
}

func (ip *InputParameters2P2C) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters2P2C) ParseTOML(data []byte) error {
	return toml.Unmarshal(data, ip)
}

// ParseFile selects the decoder from the file extension, YAML is the default
func (ip *InputParameters2P2C) ParseFile(fileName string) (err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".toml":
		err = ip.ParseTOML(data)
	default:
		err = ip.Parse(data)
	}
	if err != nil {
		err = fmt.Errorf("unable to parse input file %s: %w", fileName, err)
		return
	}
	return ip.Validate()
}

func (ip *InputParameters2P2C) Validate() (err error) {
	var (
		dim = ip.Mesh.Dimension
	)
	if dim != 1 && dim != 2 {
		return fmt.Errorf("mesh dimension must be 1 or 2, have %d", dim)
	}
	if len(ip.Mesh.Origin) != dim || len(ip.Mesh.Extent) != dim || len(ip.Mesh.Cells) != dim {
		return fmt.Errorf("mesh origin, extent and cells need %d entries each", dim)
	}
	for i := 0; i < dim; i++ {
		if ip.Mesh.Extent[i] <= 0 || ip.Mesh.Cells[i] < 1 {
			return fmt.Errorf("mesh extent and cell count must be positive in direction %d", i)
		}
	}
	if len(ip.Gravity) != 0 && len(ip.Gravity) != dim {
		return fmt.Errorf("gravity needs %d entries, have %d", dim, len(ip.Gravity))
	}
	if n := len(ip.Permeability); n != 1 && n != dim*dim {
		return fmt.Errorf("permeability needs 1 or %d entries, have %d", dim*dim, n)
	}
	if ip.Porosity <= 0 || ip.Porosity > 1 {
		return fmt.Errorf("porosity must be in (0,1], have %g", ip.Porosity)
	}
	if ip.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive, have %g", ip.Temperature)
	}
	if ip.UpwindWeight != nil && (*ip.UpwindWeight < 0 || *ip.UpwindWeight > 1) {
		return fmt.Errorf("upwind weight must be in [0,1], have %g", *ip.UpwindWeight)
	}
	for i, src := range ip.Sources {
		if len(src.Min) != dim || len(src.Max) != dim || len(src.Rate) != 2 {
			return fmt.Errorf("source %d needs a %dD box and two rates", i, dim)
		}
	}
	return
}

func (ip *InputParameters2P2C) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Formulation\n", ip.Formulation)
	fmt.Printf("%8.5g\t\t= Temperature\n", ip.Temperature)
	fmt.Printf("%8.5g\t\t= Porosity\n", ip.Porosity)
	fmt.Printf("%v\t\t= Permeability\n", ip.Permeability)
	fmt.Printf("%dD %v cells\t\t= Mesh\n", ip.Mesh.Dimension, ip.Mesh.Cells)
	fmt.Printf("[%s]\t\t= Material Law\n", ip.MaterialLaw.Type)
	fmt.Printf("[%s]\t\t= Initial Phase State\n", ip.Initial.PhaseState)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %+v\n", key, ip.BCs[key])
	}
}
