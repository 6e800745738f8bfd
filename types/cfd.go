package types

import (
	"fmt"
	"strings"
)

// BCFLAG selects how one equation of a boundary vertex is closed
type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Dirichlet
	BC_Neuman
)

var BCNameMap = map[string]BCFLAG{
	"none":      BC_None,
	"dirichlet": BC_Dirichlet,
	"neuman":    BC_Neuman,
	"neumann":   BC_Neuman,
}

var BCPrintNames = []string{"None", "Dirichlet", "Neuman"}

func (bf BCFLAG) String() string {
	if int(bf) < len(BCPrintNames) {
		return BCPrintNames[bf]
	}
	return fmt.Sprintf("BCFLAG(%d)", uint8(bf))
}

func NewBCFLAG(label string) (bf BCFLAG) {
	var (
		ok bool
	)
	if bf, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		panic(fmt.Errorf("unknown boundary condition type %q", label))
	}
	return
}

// BoundaryTypes holds the closure of every equation at one vertex
type BoundaryTypes []BCFLAG

func NewBoundaryTypes(numEq int) (bt BoundaryTypes) {
	bt = make(BoundaryTypes, numEq)
	return
}

func (bt BoundaryTypes) SetAllDirichlet() {
	for i := range bt {
		bt[i] = BC_Dirichlet
	}
}

func (bt BoundaryTypes) SetAllNeuman() {
	for i := range bt {
		bt[i] = BC_Neuman
	}
}

func (bt BoundaryTypes) IsDirichlet(eqIdx int) bool { return bt[eqIdx] == BC_Dirichlet }

func (bt BoundaryTypes) HasDirichlet() bool {
	for _, f := range bt {
		if f == BC_Dirichlet {
			return true
		}
	}
	return false
}

func (bt BoundaryTypes) HasNeuman() bool {
	for _, f := range bt {
		if f == BC_Neuman {
			return true
		}
	}
	return false
}
