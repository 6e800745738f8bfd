/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/notargets/twophase/model_problems/TwoPTwoC"
	"github.com/notargets/twophase/types"
	"github.com/notargets/twophase/utils"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

/*
driver time steps one rank of the model with a fully implicit Newton method. Every rank
assembles the same dense global system from the summed Jacobian contributions and solves it
redundantly, so the only communication is through the model's collectives.
*/
type driver struct {
	m    *TwoPTwoC.Model
	as   *TwoPTwoC.Assembler
	opts *RunOptions
	log  logrus.FieldLogger
}

func newDriver(m *TwoPTwoC.Model, opts *RunOptions) *driver {
	return &driver{
		m:    m,
		as:   TwoPTwoC.NewAssembler(m),
		opts: opts,
		log:  m.Log,
	}
}

func (d *driver) rankFile(base string) string { return fmt.Sprintf("%s.%d", base, d.m.Comm.Rank()) }

func (d *driver) Run(ctx context.Context, steps int, dt float64) (err error) {
	var (
		m         = d.m
		t         float64
		converged bool
	)
	m.InitStaticData()
	if len(d.opts.Restore) != 0 {
		if err = d.restore(d.rankFile(d.opts.Restore)); err != nil {
			return
		}
	}
	sol := m.InitialSolution()
	if _, err = m.CalculateMass(sol); err != nil {
		return
	}
	for step := 1; step <= steps; step++ {
		if err = ctx.Err(); err != nil {
			return
		}
		prev := append([]TwoPTwoC.PrimaryVarVector(nil), sol...)
		for try := 0; try <= d.opts.MaxRetries; try++ {
			if converged, err = d.newton(sol, prev, dt); err != nil || converged {
				break
			}
			m.ResetPhaseState()
			copy(sol, prev)
			dt *= 0.5
			if m.Comm.Rank() == 0 {
				d.log.WithFields(logrus.Fields{"step": step, "dt": dt}).Warn("Newton failed, halving the time step")
			}
		}
		if err != nil {
			return
		}
		if !converged {
			return fmt.Errorf("time step %d did not converge", step)
		}
		m.UpdateOldPhaseState()
		t += dt
		if m.Comm.Rank() == 0 {
			d.log.WithFields(logrus.Fields{"step": step, "time": t, "dt": dt}).Info("time step accepted")
		}
		if _, err = m.CalculateMass(sol); err != nil {
			return
		}
	}
	if err = d.logFields(sol); err != nil {
		return
	}
	if len(d.opts.CheckpointOut) != 0 {
		if err = d.checkpoint(d.rankFile(d.opts.CheckpointOut)); err != nil {
			return
		}
	}
	d.log.WithField("memory", utils.GetMemUsage()).Debug("run complete")
	return
}

func (d *driver) newton(sol, prev []TwoPTwoC.PrimaryVarVector, dt float64) (converged bool, err error) {
	var (
		m   = d.m
		n   = m.Grid.NumGlobalVertices * types.NumEq
		lin *TwoPTwoC.Linearization
	)
	for it := 0; it < d.opts.MaxNewton; it++ {
		if lin, err = d.as.Linearize(sol, prev, dt); err != nil {
			return
		}
		// The residual is identical on every rank, so all of them stop here together
		if utils.IsNan(lin.Residual) {
			err = fmt.Errorf("newton iteration %d: residual is not a number", it)
			return
		}
		var (
			jac = make([]float64, n*n)
			raw = lin.Jacobian.RawMatrix()
			lu  mat.LU
			dx  = mat.NewVecDense(n, nil)
		)
		for i := 0; i < raw.I; i++ {
			for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
				jac[i*n+raw.Ind[k]] += raw.Data[k]
			}
		}
		m.Comm.ReduceSum(jac)
		lu.Factorize(mat.NewDense(n, n, jac))
		if err = lu.SolveVecTo(dx, false, mat.NewVecDense(n, lin.Residual)); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
				err = fmt.Errorf("newton iteration %d: %w", it, err)
				return
			}
			d.log.WithField("condition", float64(cond)).Debug("ill conditioned Jacobian")
			err = nil
		}
		update := []float64{0}
		for v := range sol {
			gv := m.Grid.LocalToGlobalVertex[v]
			for eq := 0; eq < types.NumEq; eq++ {
				delta := dx.AtVec(gv*types.NumEq + eq)
				sol[v][eq] -= delta
				update[0] = math.Max(update[0], math.Abs(delta)/(math.Abs(sol[v][eq])+1))
			}
		}
		m.Comm.ReduceMax(update)
		if err = m.UpdateStaticData(sol); err != nil {
			return
		}
		if m.Comm.Rank() == 0 {
			d.log.WithFields(logrus.Fields{
				"iteration": it, "residual": utils.NormInf(lin.Residual), "update": update[0],
				"jacobian": lin.Jacobian.Print("rank 0 jacobian"), "switched": m.Switched(),
			}).Debug("newton")
		}
		if update[0] < d.opts.Tolerance && !m.Switched() {
			converged = true
			return
		}
	}
	return
}

// logFields reports the global range of every visualization field at the end of a run
func (d *driver) logFields(sol []TwoPTwoC.PrimaryVarVector) (err error) {
	var (
		out  *TwoPTwoC.VtkOutput
		ext  = utils.NewExtrema(len(TwoPTwoC.VertexFieldNames))
		vals = make([]float64, len(TwoPTwoC.VertexFieldNames))
	)
	if out, err = d.m.VtkFields(sol); err != nil {
		return
	}
	for v := range sol {
		for i, name := range TwoPTwoC.VertexFieldNames {
			vals[i] = out.VertexData[name][v]
		}
		ext.Observe(vals...)
	}
	ext.Reduce(d.m.Comm)
	if d.m.Comm.Rank() != 0 {
		return
	}
	for i, name := range TwoPTwoC.VertexFieldNames {
		d.log.WithFields(logrus.Fields{"field": name, "min": ext.Min[i], "max": ext.Max[i]}).Info("vertex field")
	}
	return
}

func (d *driver) checkpoint(fileName string) (err error) {
	var (
		f *os.File
	)
	if f, err = os.Create(fileName); err != nil {
		return
	}
	if err = d.m.Serialize(f, nil); err != nil {
		f.Close()
		return
	}
	if err = f.Close(); err != nil {
		return
	}
	d.log.WithField("file", fileName).Info("wrote phase states")
	return
}

func (d *driver) restore(fileName string) (err error) {
	var (
		f *os.File
	)
	if f, err = os.Open(fileName); err != nil {
		return
	}
	defer f.Close()
	if err = d.m.Deserialize(f, nil); err != nil {
		err = fmt.Errorf("restoring %s: %w", fileName, err)
		return
	}
	d.log.WithField("file", fileName).Info("restored phase states")
	return
}
