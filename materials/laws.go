package materials

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/twophase/InputParameters"
)

// Below this effective saturation capillary pressure is extended linearly
const seRegularization = 1e-2

// effectiveSaturation maps Sw onto [0,1] using the residual saturations
func effectiveSaturation(Sw, Swr, Snr float64) (Se float64, err error) {
	if math.IsNaN(Sw) || math.IsInf(Sw, 0) {
		err = fmt.Errorf("wetting saturation %v is not a number", Sw)
		return
	}
	Se = (Sw - Swr) / (1 - Swr - Snr)
	return
}

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }

// BrooksCorey: Pc = Pe Se^(-1/lambda)
type BrooksCorey struct {
	Swr, Snr float64
	Pe       float64 // Entry pressure
	Lambda   float64 // Pore size distribution index
}

func (bc BrooksCorey) pc(Se float64) float64 { return bc.Pe * math.Pow(Se, -1/bc.Lambda) }

func (bc BrooksCorey) dpc(Se float64) float64 {
	return -bc.Pe / bc.Lambda * math.Pow(Se, -1/bc.Lambda-1)
}

func (bc BrooksCorey) Pc(Sw float64, pos []float64, elem int, localPos []float64, T float64) (pc float64, err error) {
	var Se float64
	if Se, err = effectiveSaturation(Sw, bc.Swr, bc.Snr); err != nil {
		return
	}
	switch {
	case Se >= 1:
		pc = bc.Pe
	case Se < seRegularization:
		pc = bc.pc(seRegularization) + bc.dpc(seRegularization)*(Se-seRegularization)
	default:
		pc = bc.pc(Se)
	}
	return
}

func (bc BrooksCorey) Krw(Sw float64) float64 {
	Se, _ := effectiveSaturation(Sw, bc.Swr, bc.Snr)
	Se = clamp01(Se)
	return math.Pow(Se, (2+3*bc.Lambda)/bc.Lambda)
}

func (bc BrooksCorey) Krn(Sw float64) float64 {
	Se, _ := effectiveSaturation(Sw, bc.Swr, bc.Snr)
	Se = clamp01(Se)
	return (1 - Se) * (1 - Se) * (1 - math.Pow(Se, (2+bc.Lambda)/bc.Lambda))
}

// VanGenuchten: Se = (1 + (alpha Pc)^n)^-m with m = 1 - 1/n
type VanGenuchten struct {
	Swr, Snr float64
	Alpha    float64
	N        float64
}

func (vg VanGenuchten) m() float64 { return 1 - 1/vg.N }

func (vg VanGenuchten) pc(Se float64) float64 {
	return math.Pow(math.Pow(Se, -1/vg.m())-1, 1/vg.N) / vg.Alpha
}

func (vg VanGenuchten) dpc(Se float64) float64 {
	var (
		m = vg.m()
		a = math.Pow(Se, -1/m) - 1
	)
	return math.Pow(a, 1/vg.N-1) / (vg.Alpha * vg.N) * (-1 / m) * math.Pow(Se, -1/m-1)
}

func (vg VanGenuchten) Pc(Sw float64, pos []float64, elem int, localPos []float64, T float64) (pc float64, err error) {
	var Se float64
	if Se, err = effectiveSaturation(Sw, vg.Swr, vg.Snr); err != nil {
		return
	}
	switch {
	case Se >= 1:
		pc = 0
	case Se < seRegularization:
		pc = vg.pc(seRegularization) + vg.dpc(seRegularization)*(Se-seRegularization)
	default:
		pc = vg.pc(Se)
	}
	return
}

func (vg VanGenuchten) Krw(Sw float64) float64 {
	Se, _ := effectiveSaturation(Sw, vg.Swr, vg.Snr)
	Se = clamp01(Se)
	m := vg.m()
	r := 1 - math.Pow(1-math.Pow(Se, 1/m), m)
	return math.Sqrt(Se) * r * r
}

func (vg VanGenuchten) Krn(Sw float64) float64 {
	Se, _ := effectiveSaturation(Sw, vg.Swr, vg.Snr)
	Se = clamp01(Se)
	m := vg.m()
	return math.Cbrt(1-Se) * math.Pow(1-math.Pow(Se, 1/m), 2*m)
}

// Law is the capillary pressure and relative permeability set used by the model
type Law interface {
	Pc(Sw float64, pos []float64, elem int, localPos []float64, T float64) (float64, error)
	Krw(Sw float64) float64
	Krn(Sw float64) float64
}

var lawNames = map[string]string{
	"brooks-corey":  "brooks-corey",
	"brookscorey":   "brooks-corey",
	"van-genuchten": "van-genuchten",
	"vangenuchten":  "van-genuchten",
}

// NewLaw builds the material law named in the input file, an unknown name panics
func NewLaw(p InputParameters.MaterialLawParameters) (law Law) {
	var (
		name, ok = lawNames[strings.ToLower(strings.TrimSpace(p.Type))]
	)
	if !ok {
		panic(fmt.Errorf("unable to use material law named %s", p.Type))
	}
	switch name {
	case "brooks-corey":
		bc := BrooksCorey{Swr: p.Swr, Snr: p.Snr, Pe: p.Pe, Lambda: p.Lambda}
		if bc.Pe == 0 {
			bc.Pe = 1000
		}
		if bc.Lambda == 0 {
			bc.Lambda = 2
		}
		law = bc
	case "van-genuchten":
		vg := VanGenuchten{Swr: p.Swr, Snr: p.Snr, Alpha: p.VgAlpha, N: p.VgN}
		if vg.Alpha == 0 {
			vg.Alpha = 3.7e-4
		}
		if vg.N == 0 {
			vg.N = 4.7
		}
		law = vg
	}
	return
}
