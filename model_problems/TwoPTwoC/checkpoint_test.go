package TwoPTwoC

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/notargets/twophase/mesh"
	"github.com/notargets/twophase/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

// shortWriter accepts n writes, then fails
type shortWriter struct {
	n   int
	buf strings.Builder
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return w.buf.Write(p)
}

func TestCheckpointRoundTrip(t *testing.T) {
	var (
		grid = mesh.NewLineGrid(0, 1, 3).Local()
		bp   = newTestProblem(1, types.BothPhases)
		m, _ = newTestModel(DefaultConfig(types.PwSn), bp, grid)
		buf  bytes.Buffer
	)
	states := []types.PhaseState{types.NPhaseOnly, types.WPhaseOnly, types.BothPhases, types.WPhaseOnly}
	for v, st := range states {
		m.StaticVertexData(v).PhaseState = st
	}
	require.NoError(t, m.Serialize(&buf, nil))
	assert.Equal(t, "0 1 2 1 ", buf.String())

	m2, _ := newTestModel(DefaultConfig(types.PwSn), bp, grid)
	m2.StaticVertexData(2).WasSwitched = true
	require.NoError(t, m2.Deserialize(strings.NewReader(buf.String()), nil))
	for v, st := range states {
		assert.Equal(t, st, m2.PhaseState(v, false))
		assert.Equal(t, st, m2.PhaseState(v, true))
	}
	// The switch memory is not part of a checkpoint
	assert.True(t, m2.StaticVertexData(2).WasSwitched)

	// A custom order must be used for both directions
	order := []int{3, 2, 1, 0}
	buf.Reset()
	require.NoError(t, m.Serialize(&buf, order))
	assert.Equal(t, "1 2 1 0 ", buf.String())
	m3, _ := newTestModel(DefaultConfig(types.PwSn), bp, grid)
	require.NoError(t, m3.Deserialize(&buf, order))
	for v, st := range states {
		assert.Equal(t, st, m3.PhaseState(v, false))
	}
}

func TestCheckpointErrors(t *testing.T) {
	var (
		grid = mesh.NewLineGrid(0, 1, 3).Local()
		bp   = newTestProblem(1, types.BothPhases)
		m, _ = newTestModel(DefaultConfig(types.PwSn), bp, grid)
	)
	{ // An unwritable stream fails on the first vertex
		err := m.Serialize(failingWriter{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not serialize vertex 0")
		assert.Contains(t, err.Error(), "disk full")
	}
	{ // The error names the vertex being written when the stream fails
		w := &shortWriter{n: 2}
		err := m.Serialize(w, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not serialize vertex 2")
		assert.Equal(t, "2 2 ", w.buf.String())
	}
	{ // A stream that is no longer good refuses further entities
		out := NewOutStream(failingWriter{})
		err := m.SerializeEntity(out, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not serialize vertex 0")
		assert.False(t, out.Good())
		err = m.SerializeEntity(out, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not serialize vertex 1")
		assert.Error(t, out.Flush())
	}
	{ // Buffered writers are flushed through the stream
		var sb strings.Builder
		bw := bufio.NewWriter(&sb)
		require.NoError(t, m.Serialize(bw, nil))
		assert.Equal(t, "2 2 2 2 ", sb.String())
	}
	{ // Truncated input
		err := m.Deserialize(strings.NewReader("2 2 "), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not deserialize vertex 2")
	}
	{ // Out of range phase state
		in := NewInStream(strings.NewReader("2 7 2 2 "))
		require.NoError(t, m.DeserializeEntity(in, 0))
		err := m.DeserializeEntity(in, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid phase state 7")
		assert.False(t, in.Good())
		assert.Error(t, m.DeserializeEntity(in, 2))
		assert.Equal(t, types.BothPhases, m.PhaseState(1, false))
	}
}
