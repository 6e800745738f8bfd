package TwoPTwoC

import (
	"fmt"

	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"github.com/notargets/twophase/utils"
	"github.com/sirupsen/logrus"
)

// StaticVertexData is the part of a vertex that persists between time steps
type StaticVertexData struct {
	PhaseState    types.PhaseState
	OldPhaseState types.PhaseState
	WasSwitched   bool
}

/*
Model is the two-phase two-component box model on one rank. It owns the static data of every
vertex in its local grid, duplicated vertices on partition boundaries are updated independently on
each rank from identical inputs. All methods that reduce over ranks must be called by every rank.
*/
type Model struct {
	Config  *Config
	Problem Problem
	Grid    *mesh.LocalGrid
	Comm    utils.Communicator
	Indices Indices
	Metrics *Metrics
	Log     logrus.FieldLogger

	staticVertexDat []StaticVertexData
	switched        bool
	residual        *LocalResidual
}

type Option func(m *Model)

func WithComm(comm utils.Communicator) Option { return func(m *Model) { m.Comm = comm } }
func WithMetrics(mt *Metrics) Option          { return func(m *Model) { m.Metrics = mt } }
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Model) { m.Log = log }
}

func NewModel(cfg *Config, problem Problem, grid *mesh.LocalGrid, opts ...Option) (m *Model) {
	m = &Model{
		Config:          cfg,
		Problem:         problem,
		Grid:            grid,
		Comm:            utils.SerialComm{},
		Indices:         NewIndices(cfg.Formulation),
		Log:             logrus.StandardLogger(),
		staticVertexDat: make([]StaticVertexData, grid.NumVertices()),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Log = m.Log.WithField("rank", m.Comm.Rank())
	m.residual = NewLocalResidual(problem, cfg, m)
	return
}

func (m *Model) LocalResidual() *LocalResidual { return m.residual }

// InitStaticData seeds the phase state of every vertex from the problem
func (m *Model) InitStaticData() {
	m.SetSwitched(false)
	for v := range m.staticVertexDat {
		st := &m.staticVertexDat[v]
		st.PhaseState = m.Problem.InitialPhaseState(m.Grid.LocalToGlobalVertex[v], m.Grid.Vertices[v])
		if !st.PhaseState.IsValid() {
			panic(fmt.Errorf("initial phase state %d at vertex %d is invalid", st.PhaseState, v))
		}
		st.OldPhaseState = st.PhaseState
		st.WasSwitched = false
	}
}

// InitialSolution evaluates the initial condition at every local vertex
func (m *Model) InitialSolution() (sol []PrimaryVarVector) {
	sol = make([]PrimaryVarVector, m.Grid.NumVertices())
	for v, pos := range m.Grid.Vertices {
		sol[v] = m.Problem.Initial(pos)
	}
	return
}

func (m *Model) PhaseState(vertIdx int, old bool) types.PhaseState {
	if old {
		return m.staticVertexDat[vertIdx].OldPhaseState
	}
	return m.staticVertexDat[vertIdx].PhaseState
}

func (m *Model) StaticVertexData(vertIdx int) *StaticVertexData { return &m.staticVertexDat[vertIdx] }

func (m *Model) IsBoundaryVertex(vertIdx int) bool { return m.Grid.BoundaryVertex[vertIdx] }

// Switched reports whether any vertex on any rank changed state in the last refresh
func (m *Model) Switched() bool            { return m.switched }
func (m *Model) SetSwitched(switched bool) { m.switched = switched }

// ResetPhaseState rolls back to the phase states of the last accepted time step
func (m *Model) ResetPhaseState() {
	for v := range m.staticVertexDat {
		m.staticVertexDat[v].PhaseState = m.staticVertexDat[v].OldPhaseState
	}
}

// UpdateOldPhaseState commits the current phase states after an accepted time step
func (m *Model) UpdateOldPhaseState() {
	for v := range m.staticVertexDat {
		m.staticVertexDat[v].OldPhaseState = m.staticVertexDat[v].PhaseState
		m.staticVertexDat[v].WasSwitched = false
	}
}

// VertexData evaluates the secondary variables of local vertex v from sol with its current phase state
func (m *Model) VertexData(sol []PrimaryVarVector, v int) (vd VertexData, err error) {
	var (
		elem, li = m.Grid.VertexElement(v)
	)
	vd, err = NewVertexData(sol[v], m.PhaseState(v, false), m.Problem.Temperature(), m.Grid.Vertices[v],
		elem.Index, elem.LocalPos[li], m.Problem.MaterialLaw(), m.Problem.FluidSystem(), m.Indices,
		m.Problem.Porosity(elem, li))
	if err != nil {
		err = fmt.Errorf("vertex %d: %w", m.Grid.LocalToGlobalVertex[v], err)
	}
	return
}
