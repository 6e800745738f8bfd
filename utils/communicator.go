package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

/*
Communicator is the set of blocking collective reductions shared by all ranks of a run.
Every call is an all-reduce: the slice is overwritten with the combined value on every rank,
and every rank must make the same sequence of calls.
*/
type Communicator interface {
	Rank() int
	Size() int
	ReduceSum(vals []float64)
	ReduceMax(vals []float64)
	ReduceMin(vals []float64)
	ReduceOr(flag bool) bool
}

// SerialComm is the single rank communicator, all reductions are the identity
type SerialComm struct{}

func (SerialComm) Rank() int                { return 0 }
func (SerialComm) Size() int                { return 1 }
func (SerialComm) ReduceSum(vals []float64) {}
func (SerialComm) ReduceMax(vals []float64) {}
func (SerialComm) ReduceMin(vals []float64) {}
func (SerialComm) ReduceOr(flag bool) bool  { return flag }

var ErrCollectiveAborted = errors.New("collective operation aborted")

type reduceOp uint8

const (
	opSum reduceOp = iota
	opMax
	opMin
)

type rankContribution struct {
	Rank int
	Vals []float64
}

/*
LocalGroup runs NP ranks as goroutines inside one process. Contributions are exchanged through
a MailBox and combined in rank order, so every rank computes bitwise identical results.
*/
type LocalGroup struct {
	NP      int
	mb      *MailBox[rankContribution]
	barrier *Barrier
}

func NewLocalGroup(NP int) (lg *LocalGroup) {
	if NP < 1 {
		panic(fmt.Errorf("local group needs at least one rank, have %d", NP))
	}
	lg = &LocalGroup{NP: NP}
	return
}

/*
Run starts one goroutine per rank and waits for all of them. The first rank error cancels the
context passed to the others and aborts the group barrier, so ranks blocked in a collective
return ErrCollectiveAborted instead of deadlocking.
*/
func (lg *LocalGroup) Run(ctx context.Context,
	rankFn func(ctx context.Context, comm Communicator) error) error {
	lg.mb = NewMailBox[rankContribution](lg.NP)
	lg.barrier = NewBarrier(lg.NP)
	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, lg.barrier.Abort)
	defer stop()
	for n := 0; n < lg.NP; n++ {
		rc := &rankComm{group: lg, rank: n}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					if rErr, ok := r.(error); ok && errors.Is(rErr, ErrCollectiveAborted) {
						err = fmt.Errorf("rank %d: %w", rc.rank, rErr)
						return
					}
					err = fmt.Errorf("rank %d panicked: %v", rc.rank, r)
				}
			}()
			if err = rankFn(gctx, rc); err != nil {
				err = fmt.Errorf("rank %d: %w", rc.rank, err)
			}
			return
		})
	}
	return g.Wait()
}

type rankComm struct {
	group *LocalGroup
	rank  int
}

func (rc *rankComm) Rank() int { return rc.rank }
func (rc *rankComm) Size() int { return rc.group.NP }

func (rc *rankComm) ReduceSum(vals []float64) { rc.allReduce(vals, opSum) }
func (rc *rankComm) ReduceMax(vals []float64) { rc.allReduce(vals, opMax) }
func (rc *rankComm) ReduceMin(vals []float64) { rc.allReduce(vals, opMin) }

func (rc *rankComm) ReduceOr(flag bool) bool {
	var (
		v = []float64{0}
	)
	if flag {
		v[0] = 1
	}
	rc.allReduce(v, opMax)
	return v[0] != 0
}

func (rc *rankComm) wait() {
	if err := rc.group.barrier.Wait(); err != nil {
		panic(fmt.Errorf("%w: %v", ErrCollectiveAborted, err))
	}
}

func (rc *rankComm) allReduce(vals []float64, op reduceOp) {
	var (
		lg    = rc.group
		mine  = append([]float64(nil), vals...)
		parts []rankContribution
	)
	if lg.NP == 1 {
		return
	}
	lg.mb.PostMessageToAll(rc.rank, rankContribution{Rank: rc.rank, Vals: mine})
	lg.mb.DeliverMyMessages(rc.rank)
	rc.wait()
	lg.mb.ReceiveMyMessages(rc.rank)
	parts = append(parts, lg.mb.ReceiveMsgQs[rc.rank].Cells()...)
	parts = append(parts, rankContribution{Rank: rc.rank, Vals: mine})
	lg.mb.ClearMyMessages(rc.rank)
	if len(parts) != lg.NP {
		panic(fmt.Errorf("rank %d received %d contributions, expected %d",
			rc.rank, len(parts), lg.NP))
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Rank < parts[j].Rank })
	for i := range vals {
		acc := parts[0].Vals[i]
		for _, p := range parts[1:] {
			switch op {
			case opSum:
				acc += p.Vals[i]
			case opMax:
				acc = math.Max(acc, p.Vals[i])
			case opMin:
				acc = math.Min(acc, p.Vals[i])
			}
		}
		vals[i] = acc
	}
	// Nobody posts the next round until every rank has drained this one
	rc.wait()
}
