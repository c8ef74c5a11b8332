package chanx

import (
	"math/rand"
	"sync"
	"time"
)

// selectRand is seeded from a wall-clock nanosecond source, mirroring
// the protocol's own srand(ts.tv_nsec) tie-break. A package-level
// *rand.Rand guarded by its own mutex (rather than math/rand's global
// source) keeps Select's randomness independent of whatever else in the
// process might be consuming math/rand.
var (
	selectRandMu sync.Mutex
	selectRand   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func selectIntn(n int) int {
	selectRandMu.Lock()
	defer selectRandMu.Unlock()
	return selectRand.Intn(n)
}

type selectCandidate[T any] struct {
	isRecv bool
	ch     *Chan[T]
	value  T   // populated for send candidates
	index  int // index into the caller's combined return space
}

// Select inspects recv and send for readiness and performs exactly one
// ready operation, chosen uniformly at random among the ready
// candidates. It never blocks waiting for a candidate to become ready:
// if none are ready it returns immediately with idx == -1.
//
// Once a candidate is chosen, Select performs the matching Send/Recv
// through the channel's ordinary (possibly blocking) API. Readiness can
// go stale between the inspection in step 1 and the operation in step
// 3 — another goroutine can drain a buffered channel's last value, or an
// unbuffered channel's waiting counterpart can vanish — so Select is
// non-blocking only in expectation, not by strict guarantee. See
// DESIGN.md for why this matches the source protocol's own behaviour
// rather than re-verifying readiness under the channel's mutex a second
// time.
//
// recv and send (with its parallel sendValues) may each be empty or nil.
// A successful receive candidate returns its index in [0, len(recv));
// a successful send candidate returns len(recv) plus its index in send,
// a value in [len(recv), len(recv)+len(send)). recvValue is populated only when a
// receive candidate was chosen; it is the zero value otherwise.
func Select[T any](recv []*Chan[T], send []*Chan[T], sendValues []T) (idx int, recvValue T, err error) {
	if len(send) != len(sendValues) {
		panic("chanx: Select send and sendValues must have equal length")
	}

	var candidates []selectCandidate[T]

	for i, ch := range recv {
		if ch.recvReady() {
			candidates = append(candidates, selectCandidate[T]{isRecv: true, ch: ch, index: i})
		}
	}
	for i, ch := range send {
		if ch.sendReady() {
			candidates = append(candidates, selectCandidate[T]{ch: ch, value: sendValues[i], index: len(recv) + i})
		}
	}

	if len(candidates) == 0 {
		var zero T
		return -1, zero, nil
	}

	chosen := candidates[selectIntn(len(candidates))]
	debugf("select: %d candidate(s), chose index %d (recv=%v)", len(candidates), chosen.index, chosen.isRecv)

	if chosen.isRecv {
		v, err := chosen.ch.Recv()
		if err != nil {
			var zero T
			return -1, zero, err
		}
		return chosen.index, v, nil
	}

	if err := chosen.ch.Send(chosen.value); err != nil {
		var zero T
		return -1, zero, err
	}
	var zero T
	return chosen.index, zero, nil
}

// recvReady reports whether a receive on c would currently proceed
// without blocking: a buffered channel is ready when non-empty, an
// unbuffered channel when a sender is already waiting to be matched.
func (c *Chan[T]) recvReady() bool {
	if c.buf != nil {
		return c.Size() > 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wWaiting > 0
}

// sendReady reports whether a send on c would currently proceed without
// blocking: a buffered channel is ready when not full, an unbuffered
// channel when a receiver is already waiting to be matched.
func (c *Chan[T]) sendReady() bool {
	if c.buf != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.buf.Len() < c.buf.Cap()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rWaiting > 0
}
