package TwoPTwoC

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/twophase/InputParameters"
	"github.com/notargets/twophase/materials"
	"github.com/notargets/twophase/types"
	"gonum.org/v1/gonum/mat"
)

var sideNames = []string{"left", "right", "bottom", "top"}

/*
NewInputProblem builds a problem on the line or rectangle described by the input file. Sides without a
boundary condition entry are closed (zero Neumann flux).
*/
func NewInputProblem(ip *InputParameters.InputParameters2P2C, idx Indices) (bp *BaseProblem) {
	var (
		dim    = ip.Mesh.Dimension
		fs     = materials.NewWaterAir()
		bcs    = make(map[string]InputParameters.BCParameters)
		state  = types.BothPhases
		g      = make([]float64, dim)
		origin = ip.Mesh.Origin
		extent = ip.Mesh.Extent
	)
	for key, bc := range ip.BCs {
		side := strings.ToLower(strings.TrimSpace(key))
		if !validSide(side, dim) {
			panic(fmt.Errorf("unknown boundary side %s for a %dD domain", key, dim))
		}
		types.NewBCFLAG(bc.Type) // Unknown types are fatal here rather than at first use
		bcs[side] = bc
	}
	if len(ip.Initial.PhaseState) != 0 {
		state = types.NewPhaseState(ip.Initial.PhaseState)
	}
	copy(g, ip.Gravity)
	bp = &BaseProblem{
		Name: ip.Title,
		T:    ip.Temperature,
		G:    g,
		Phi:  ip.Porosity,
		Law:  materials.NewLaw(ip.MaterialLaw),
		FS:   fs,
	}
	if len(ip.Permeability) == 1 {
		bp.K = IsotropicPermeability(dim, ip.Permeability[0])
	} else {
		bp.K = mat.NewDense(dim, dim, append([]float64(nil), ip.Permeability...))
	}

	sideOf := func(pos []float64) (side string, ok bool) {
		for d := 0; d < dim; d++ {
			tol := 1e-9 * extent[d]
			lo, hi := sideNames[2*d], sideNames[2*d+1]
			if math.Abs(pos[d]-origin[d]) < tol {
				if _, ok = bcs[lo]; ok {
					return lo, true
				}
			}
			if math.Abs(pos[d]-origin[d]-extent[d]) < tol {
				if _, ok = bcs[hi]; ok {
					return hi, true
				}
			}
		}
		return
	}
	bp.BoundaryTypesAtPos = func(pos []float64) (bt types.BoundaryTypes) {
		bt = types.NewBoundaryTypes(types.NumEq)
		side, ok := sideOf(pos)
		if !ok {
			bt.SetAllNeuman()
			return
		}
		flag := types.NewBCFLAG(bcs[side].Type)
		for eq := range bt {
			bt[eq] = flag
		}
		return
	}
	bp.DirichletAtPos = func(pos []float64) (pv PrimaryVarVector) {
		if side, ok := sideOf(pos); ok {
			pv[idx.PressureIdx] = bcs[side].Pressure
			pv[idx.SwitchIdx] = bcs[side].Switch
		}
		return
	}
	bp.NeumannAtPos = func(pos []float64) (pv PrimaryVarVector) {
		if side, ok := sideOf(pos); ok {
			pv[idx.Comp2Mass(types.WComp)] = bcs[side].FluxW
			pv[idx.Comp2Mass(types.NComp)] = bcs[side].FluxN
		}
		return
	}
	bp.SourceAtPos = func(pos []float64) PrimaryVarVector {
		var total PrimaryVarVector
		for i, src := range ip.Sources {
			if !inBox(pos, src.Min, src.Max) {
				continue
			}
			var (
				rv   RateVector
				rate = [types.NumComponents]float64{src.Rate[0], src.Rate[1]}
			)
			switch strings.ToLower(src.Kind) {
			case "", "mass":
				rv.SetMassRate(idx, rate)
			case "molar":
				rv.SetMolarRate(idx, fs, rate)
			default:
				panic(fmt.Errorf("source %d has unknown kind %s", i, src.Kind))
			}
			for eq := range total {
				total[eq] += rv[eq]
			}
		}
		return total
	}
	bp.InitialAtPos = func(pos []float64) (pv PrimaryVarVector) {
		p := ip.Initial.Pressure
		if ip.Initial.Hydrostatic {
			for d := 0; d < dim; d++ {
				p += fs.R0 * g[d] * (pos[d] - origin[d])
			}
		}
		pv[idx.PressureIdx] = p
		pv[idx.SwitchIdx] = ip.Initial.Switch
		return
	}
	bp.InitialPhaseStateAtPos = func(pos []float64) types.PhaseState { return state }
	return
}

func validSide(side string, dim int) bool {
	for _, name := range sideNames[:2*dim] {
		if side == name {
			return true
		}
	}
	return false
}

func inBox(pos, min, max []float64) bool {
	for d := range pos {
		if pos[d] < min[d] || pos[d] > max[d] {
			return false
		}
	}
	return true
}
