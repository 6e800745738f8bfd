package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSerialComm(t *testing.T) {
	var comm Communicator = SerialComm{}
	v := []float64{1, -2}
	comm.ReduceSum(v)
	comm.ReduceMin(v)
	comm.ReduceMax(v)
	assert.Equal(t, []float64{1, -2}, v)
	assert.True(t, comm.ReduceOr(true))
	assert.False(t, comm.ReduceOr(false))
	assert.Equal(t, 0, comm.Rank())
	assert.Equal(t, 1, comm.Size())
}

func TestLocalGroupReductions(t *testing.T) {
	defer goleak.VerifyNone(t)
	var (
		NP = 3
		lg = NewLocalGroup(NP)
	)
	sums := make([][]float64, NP)
	ors := make([]bool, NP)
	err := lg.Run(context.Background(), func(ctx context.Context, comm Communicator) error {
		r := float64(comm.Rank())
		sum := []float64{r, 1}
		comm.ReduceSum(sum)
		sums[comm.Rank()] = sum
		mm := []float64{r}
		comm.ReduceMax(mm)
		if mm[0] != float64(NP-1) {
			return errors.New("wrong max")
		}
		mm[0] = r
		comm.ReduceMin(mm)
		if mm[0] != 0 {
			return errors.New("wrong min")
		}
		// Only the last rank reports a local switch
		ors[comm.Rank()] = comm.ReduceOr(comm.Rank() == NP-1)
		return nil
	})
	require.NoError(t, err)
	for n := 0; n < NP; n++ {
		assert.Equal(t, []float64{3, 3}, sums[n])
		assert.True(t, ors[n])
	}
	// The group is reusable, nobody switched
	err = lg.Run(context.Background(), func(ctx context.Context, comm Communicator) error {
		if comm.ReduceOr(false) {
			return errors.New("spurious switch")
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestLocalGroupAbort(t *testing.T) {
	defer goleak.VerifyNone(t)
	var (
		lg     = NewLocalGroup(2)
		failed = errors.New("material law failed")
	)
	err := lg.Run(context.Background(), func(ctx context.Context, comm Communicator) error {
		if comm.Rank() == 1 {
			return failed
		}
		// Rank 0 is stuck in a collective its peer never joins
		comm.ReduceSum([]float64{1})
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, failed)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = lg.Run(ctx, func(ctx context.Context, comm Communicator) error {
		if comm.Rank() == 0 {
			<-ctx.Done()
			return ctx.Err()
		}
		comm.ReduceOr(true)
		return nil
	})
	assert.Error(t, err)
}

func TestBarrier(t *testing.T) {
	b := NewBarrier(2)
	done := make(chan error)
	go func() { done <- b.Wait() }()
	assert.NoError(t, b.Wait())
	assert.NoError(t, <-done)
	go func() { done <- b.Wait() }()
	b.Abort()
	assert.ErrorIs(t, <-done, ErrBarrierBroken)
	assert.True(t, b.Broken())
	assert.ErrorIs(t, b.Wait(), ErrBarrierBroken)
}
