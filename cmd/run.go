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
	"fmt"

	"github.com/notargets/twophase/InputParameters"
	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/model_problems/TwoPTwoC"
	"github.com/notargets/twophase/utils"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type RunOptions struct {
	InputFile     string
	Partitions    int // Overrides the input file when positive
	CheckpointOut string
	Restore       string
	MaxNewton     int
	MaxRetries    int     // Time step halvings before giving up
	Tolerance     float64 // Largest relative Newton update accepted as converged
}

const exampleFile = `
########################################
Title: "Column"
Formulation: pw-sn
Temperature: 283.15
Porosity: 0.3
Permeability: [1.e-12]
TimeStep: 100
Steps: 10
Mesh:
  Dimension: 1
  Origin: [0]
  Extent: [1]
  Cells: [20]
MaterialLaw:
  Type: brooks-corey
Initial:
  PhaseState: bothPhases
  Pressure: 1.e5
  Switch: 0.3
BCs:
  left:
    Type: dirichlet
    Pressure: 2.e5
    Switch: 0.3
########################################
`

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Time steps the box model described by an input file",
	Long: `
Time steps the box model on a structured line or triangle grid, split over in-process ranks.
Phase states can be written to and restored from per rank checkpoint files <file>.<rank>,

twophase run -I input.yaml -p 2 -c states`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ro := &RunOptions{
			InputFile:     viper.GetString("inputConditionsFile"),
			Partitions:    viper.GetInt("partitions"),
			CheckpointOut: viper.GetString("checkpointOut"),
			Restore:       viper.GetString("restore"),
			MaxNewton:     viper.GetInt("maxNewton"),
			MaxRetries:    viper.GetInt("maxRetries"),
			Tolerance:     viper.GetFloat64("tolerance"),
		}
		switch prof := viper.GetString("profile"); prof {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		default:
			return fmt.Errorf("unknown profile type %s, use cpu or mem", prof)
		}
		return RunTwoPhase(ro)
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML (.yaml) or TOML (.toml) file for input parameters")
	RunCmd.Flags().IntP("partitions", "p", 0, "number of in-process ranks, overrides Partitions from the input file")
	RunCmd.Flags().StringP("checkpointOut", "c", "", "write the final phase states to <file>.<rank>")
	RunCmd.Flags().StringP("restore", "r", "", "read the initial phase states from <file>.<rank>")
	RunCmd.Flags().String("profile", "", "write a cpu or mem profile to the working directory")
	RunCmd.Flags().Int("maxNewton", 12, "Newton iterations per time step attempt")
	RunCmd.Flags().Int("maxRetries", 4, "time step halvings before a step fails")
	RunCmd.Flags().Float64("tolerance", 1e-7, "relative Newton update accepted as converged")
	for _, name := range []string{"inputConditionsFile", "partitions", "checkpointOut", "restore", "profile",
		"maxNewton", "maxRetries", "tolerance"} {
		if err := viper.BindPFlag(name, RunCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func RunTwoPhase(ro *RunOptions) (err error) {
	var (
		ip  = &InputParameters.InputParameters2P2C{}
		log = logrus.StandardLogger()
	)
	if len(ro.InputFile) == 0 {
		return fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)\nExample File:%s",
			exampleFile)
	}
	if err = ip.ParseFile(ro.InputFile); err != nil {
		return
	}
	ip.Print()
	if ip.TimeStep <= 0 {
		return fmt.Errorf("TimeStep must be positive, have %g", ip.TimeStep)
	}
	var (
		cfg   = TwoPTwoC.NewConfig(ip)
		idx   = TwoPTwoC.NewIndices(cfg.Formulation)
		bp    = TwoPTwoC.NewInputProblem(ip, idx)
		grid  = newGrid(ip.Mesh)
		np    = ro.Partitions
		steps = max(ip.Steps, 1)
		reg   = prometheus.NewRegistry()
		mt    = TwoPTwoC.NewMetrics(reg)
	)
	if np < 1 {
		np = max(ip.Partitions, 1)
	}
	if np > grid.NumElements() {
		return fmt.Errorf("%d partitions for %d elements", np, grid.NumElements())
	}
	locals := mesh.PartitionElements(grid, np)
	log.WithFields(logrus.Fields{
		"vertices": grid.NumVertices(), "elements": grid.NumElements(), "partitions": np,
	}).Info("grid")
	err = utils.NewLocalGroup(np).Run(context.Background(),
		func(ctx context.Context, comm utils.Communicator) error {
			m := TwoPTwoC.NewModel(cfg, bp, locals[comm.Rank()],
				TwoPTwoC.WithComm(comm), TwoPTwoC.WithMetrics(mt), TwoPTwoC.WithLogger(log))
			return newDriver(m, ro).Run(ctx, steps, ip.TimeStep)
		})
	if err != nil {
		return
	}
	logMetrics(log, reg)
	return
}

func newGrid(mp InputParameters.MeshParameters) *mesh.Grid {
	if mp.Dimension == 1 {
		return mesh.NewLineGrid(mp.Origin[0], mp.Origin[0]+mp.Extent[0], mp.Cells[0])
	}
	return mesh.NewRectTriGrid([2]float64{mp.Origin[0], mp.Origin[1]}, [2]float64{mp.Extent[0], mp.Extent[1]},
		mp.Cells[0], mp.Cells[1])
}

func logMetrics(log logrus.FieldLogger, reg *prometheus.Registry) {
	mfs, err := reg.Gather()
	if err != nil {
		log.WithError(err).Warn("unable to gather metrics")
		return
	}
	for _, mf := range mfs {
		for _, metric := range mf.GetMetric() {
			fields := logrus.Fields{"metric": mf.GetName()}
			for _, lp := range metric.GetLabel() {
				fields[lp.GetName()] = lp.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				fields["value"] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				fields["value"] = metric.GetGauge().GetValue()
			}
			log.WithFields(fields).Info("metric")
		}
	}
}
