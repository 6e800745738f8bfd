package utils

import (
	"errors"
	"sync"
)

var ErrBarrierBroken = errors.New("barrier aborted")

// Barrier is a reusable rendezvous for a fixed number of parties
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation uint64
	broken     bool
}

func NewBarrier(parties int) (b *Barrier) {
	b = &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return
}

// Wait blocks until all parties arrive, or until the barrier is aborted
func (b *Barrier) Wait() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broken {
		return ErrBarrierBroken
	}
	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return nil
	}
	for gen == b.generation && !b.broken {
		b.cond.Wait()
	}
	if gen == b.generation {
		return ErrBarrierBroken
	}
	return nil
}

// Abort releases every waiting party with ErrBarrierBroken; later waits fail immediately
func (b *Barrier) Abort() {
	b.mu.Lock()
	b.broken = true
	b.cond.Broadcast()
	b.mu.Unlock()
}

func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broken
}
