package types

import (
	"fmt"
	"strings"
)

const (
	NumPhases     = 2
	NumComponents = 2
	NumEq         = 2
)

// Phase and component indices, shared by every secondary variable array
const (
	WPhase = 0
	NPhase = 1

	WComp = 0
	NComp = 1
)

var (
	PhaseNames     = [NumPhases]string{"wetting", "nonwetting"}
	ComponentNames = [NumComponents]string{"wetting", "nonwetting"}
)

/*
PhaseState records which phases are present at a vertex and therefore what the switch
slot of the primary variable vector holds:
  - WPhaseOnly: mass fraction of the nonwetting component in the wetting phase
  - NPhaseOnly: mass fraction of the wetting component in the nonwetting phase
  - BothPhases: a saturation, selected by the Formulation
The numeric values are persisted in checkpoints and must not change.
*/
type PhaseState int

const (
	NPhaseOnly PhaseState = 0
	WPhaseOnly PhaseState = 1
	BothPhases PhaseState = 2
)

var PhaseStateNames = map[string]PhaseState{
	"nphaseonly":     NPhaseOnly,
	"nonwettingonly": NPhaseOnly,
	"wphaseonly":     WPhaseOnly,
	"wettingonly":    WPhaseOnly,
	"bothphases":     BothPhases,
	"both":           BothPhases,
}

func (ps PhaseState) IsValid() bool {
	return ps == NPhaseOnly || ps == WPhaseOnly || ps == BothPhases
}

func (ps PhaseState) String() string {
	switch ps {
	case NPhaseOnly:
		return "nonwettingOnly"
	case WPhaseOnly:
		return "wettingOnly"
	case BothPhases:
		return "bothPhases"
	}
	return fmt.Sprintf("PhaseState(%d)", int(ps))
}

func NewPhaseState(label string) (ps PhaseState) {
	var (
		ok bool
	)
	if ps, ok = PhaseStateNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		panic(fmt.Errorf("unable to use phase state named %s", label))
	}
	return
}

// Formulation selects which pressure and saturation are the primary unknowns
type Formulation uint8

const (
	PwSn Formulation = iota // wetting pressure, nonwetting saturation
	PnSw                    // nonwetting pressure, wetting saturation
)

var (
	FormulationNames = map[string]Formulation{
		"pwsn":  PwSn,
		"pw-sn": PwSn,
		"pnsw":  PnSw,
		"pn-sw": PnSw,
	}
	FormulationPrintNames = []string{"pressureW-saturationN", "pressureN-saturationW"}
)

func (f Formulation) Print() (txt string) {
	txt = FormulationPrintNames[f]
	return
}

func (f Formulation) String() string { return f.Print() }

func NewFormulation(label string) (f Formulation) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if f, ok = FormulationNames[label]; !ok {
		err = fmt.Errorf("unable to use formulation named %s", label)
		panic(err)
	}
	return
}
