package TwoPTwoC

import (
	"bufio"
	"fmt"
	"io"

	"github.com/notargets/twophase/types"
)

/*
OutStream remembers the first write error, after which it is no longer good. Entities go straight to
the underlying writer so a failure is reported against the vertex being written. A buffered writer
handed in by the caller only reports its errors on Flush.
*/
type OutStream struct {
	w   io.Writer
	err error
}

func NewOutStream(w io.Writer) *OutStream { return &OutStream{w: w} }

func (out *OutStream) Good() bool { return out.err == nil }
func (out *OutStream) Err() error { return out.err }

func (out *OutStream) Flush() error {
	if f, ok := out.w.(interface{ Flush() error }); ok && out.err == nil {
		out.err = f.Flush()
	}
	return out.err
}

// InStream remembers the first read error, after which it is no longer good
type InStream struct {
	r   *bufio.Reader
	err error
}

func NewInStream(r io.Reader) *InStream { return &InStream{r: bufio.NewReader(r)} }

func (in *InStream) Good() bool { return in.err == nil }
func (in *InStream) Err() error { return in.err }

// SerializeEntity writes the phase state of local vertex vertIdx
func (m *Model) SerializeEntity(out *OutStream, vertIdx int) error {
	if !out.Good() {
		return fmt.Errorf("could not serialize vertex %d: %w", vertIdx, out.err)
	}
	if _, err := fmt.Fprintf(out.w, "%d ", int(m.staticVertexDat[vertIdx].PhaseState)); err != nil {
		out.err = err
		return fmt.Errorf("could not serialize vertex %d: %w", vertIdx, err)
	}
	return nil
}

// DeserializeEntity restores the phase state of local vertex vertIdx, the old state is set equal to it
func (m *Model) DeserializeEntity(in *InStream, vertIdx int) error {
	var (
		state int
	)
	if !in.Good() {
		return fmt.Errorf("could not deserialize vertex %d: %w", vertIdx, in.err)
	}
	if _, err := fmt.Fscan(in.r, &state); err != nil {
		in.err = err
		return fmt.Errorf("could not deserialize vertex %d: %w", vertIdx, err)
	}
	ps := types.PhaseState(state)
	if !ps.IsValid() {
		in.err = fmt.Errorf("invalid phase state %d", state)
		return fmt.Errorf("could not deserialize vertex %d: %w", vertIdx, in.err)
	}
	st := &m.staticVertexDat[vertIdx]
	st.PhaseState = ps
	st.OldPhaseState = ps
	return nil
}

// TraversalOrder is the default checkpoint order, ascending local vertex index
func (m *Model) TraversalOrder() (order []int) {
	order = make([]int, len(m.staticVertexDat))
	for i := range order {
		order[i] = i
	}
	return
}

// Serialize writes every vertex in order and flushes, nil order means TraversalOrder
func (m *Model) Serialize(w io.Writer, order []int) (err error) {
	if order == nil {
		order = m.TraversalOrder()
	}
	out := NewOutStream(w)
	for _, v := range order {
		if err = m.SerializeEntity(out, v); err != nil {
			return
		}
	}
	return out.Flush()
}

// Deserialize reads every vertex in order, which must match the order used to write
func (m *Model) Deserialize(r io.Reader, order []int) (err error) {
	if order == nil {
		order = m.TraversalOrder()
	}
	in := NewInStream(r)
	for _, v := range order {
		if err = m.DeserializeEntity(in, v); err != nil {
			return
		}
	}
	return
}
