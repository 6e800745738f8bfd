package TwoPTwoC

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is shared by all ranks of a run, a nil *Metrics records nothing
type Metrics struct {
	PhaseSwitches *prometheus.CounterVec
	PassSwitched  prometheus.Gauge
	ComponentMass *prometheus.GaugeVec
}

var massQuantityNames = [4]string{
	"nonwetting_total", "nonwetting_in_nonwetting_phase", "wetting_total", "wetting_in_wetting_phase",
}

func NewMetrics(reg prometheus.Registerer) (mt *Metrics) {
	mt = &Metrics{
		PhaseSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twophase_phase_switches_total",
				Help: "Number of vertex phase state transitions",
			},
			[]string{"transition"},
		),
		PassSwitched: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "twophase_switch_pass_switched",
				Help: "1 if any vertex on any rank switched during the last refresh pass",
			},
		),
		ComponentMass: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "twophase_component_mass",
				Help: "Integrated component mass in kg from the last mass balance",
			},
			[]string{"quantity"},
		),
	}
	if reg != nil {
		reg.MustRegister(mt.PhaseSwitches, mt.PassSwitched, mt.ComponentMass)
	}
	return
}

func (mt *Metrics) countSwitch(transition string) {
	if mt == nil {
		return
	}
	mt.PhaseSwitches.WithLabelValues(transition).Inc()
}

func (mt *Metrics) setPassSwitched(switched bool) {
	if mt == nil {
		return
	}
	if switched {
		mt.PassSwitched.Set(1)
	} else {
		mt.PassSwitched.Set(0)
	}
}

func (mt *Metrics) setMass(mass [4]float64) {
	if mt == nil {
		return
	}
	for i, m := range mass {
		mt.ComponentMass.WithLabelValues(massQuantityNames[i]).Set(m)
	}
}
