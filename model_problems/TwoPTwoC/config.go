package TwoPTwoC

import (
	"fmt"

	"github.com/notargets/twophase/InputParameters"
	"github.com/notargets/twophase/types"
)

// Config is built once at startup and shared read-only by every rank
type Config struct {
	Formulation  types.Formulation
	UpwindWeight float64 // 1 is full upwinding, 0 full downwinding
	Switch       SwitchConfig
	Diagnostics  DiagnosticsConfig
}

type SwitchConfig struct {
	Hysteresis    float64 // Relative widening of the equilibrium bound after a switch
	MinSaturation float64 // A phase disappears at or below this saturation
	// LatchOnBound sets wasSwitched from the raw bound check instead of from an actual transition
	LatchOnBound bool
}

type DiagnosticsConfig struct {
	GlobalExtrema bool // Reduce min/max diagnostics over all ranks
}

func DefaultConfig(f types.Formulation) (cfg *Config) {
	cfg = &Config{
		Formulation:  f,
		UpwindWeight: 1,
		Switch: SwitchConfig{
			Hysteresis: 1e-2,
		},
	}
	return
}

func NewConfig(ip *InputParameters.InputParameters2P2C) (cfg *Config) {
	var (
		f = types.PwSn
	)
	if len(ip.Formulation) != 0 {
		f = types.NewFormulation(ip.Formulation)
	}
	cfg = DefaultConfig(f)
	if ip.UpwindWeight != nil {
		cfg.UpwindWeight = *ip.UpwindWeight
	}
	if ip.Switch.Hysteresis != nil {
		cfg.Switch.Hysteresis = *ip.Switch.Hysteresis
	}
	cfg.Switch.MinSaturation = ip.Switch.MinSaturation
	cfg.Switch.LatchOnBound = ip.Switch.LatchOnBound
	cfg.Diagnostics.GlobalExtrema = ip.Diagnostics.GlobalExtrema
	if cfg.UpwindWeight < 0 || cfg.UpwindWeight > 1 {
		panic(fmt.Errorf("upwind weight %g outside of [0,1]", cfg.UpwindWeight))
	}
	return
}

// PrimaryVarVector holds one value per equation: a pressure and the switch slot
type PrimaryVarVector [types.NumEq]float64

/*
Indices locates the primary variables and equations:
  - PressureIdx: wetting pressure for PwSn, nonwetting pressure for PnSw
  - SwitchIdx: saturation or mass fraction, depending on the phase state
*/
type Indices struct {
	Formulation types.Formulation
	PressureIdx int
	SwitchIdx   int
	ContiWEqIdx int // Mass balance of the wetting component
	ContiNEqIdx int // Mass balance of the nonwetting component
}

func NewIndices(f types.Formulation) Indices {
	return Indices{
		Formulation: f,
		PressureIdx: 0,
		SwitchIdx:   1,
		ContiWEqIdx: 0,
		ContiNEqIdx: 1,
	}
}

func (idx Indices) Comp2Mass(comp int) int {
	if comp == types.WComp {
		return idx.ContiWEqIdx
	}
	return idx.ContiNEqIdx
}
