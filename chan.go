// Package chanx implements a CSP-style channel — buffered (bounded FIFO)
// or unbuffered (rendezvous) — as a user-space generic type built on
// sync.Mutex and sync.Cond, rather than the builtin chan/select/go
// statements. It exists for code that needs channel semantics as an
// ordinary value it can hold behind an interface or construct outside
// goroutine scope: the builtin chan already does everything here, this
// package just does it without leaning on the runtime's own scheduler
// hooks to do it.
package chanx

import (
	"sync"
	"sync/atomic"

	"github.com/go-chan/chanx/internal/ring"
)

// Chan is a thread-safe, typed channel. Its mode — buffered or
// unbuffered — is fixed at construction by New and never changes.
//
// The zero value of Chan is not usable; construct one with New.
type Chan[T any] struct {
	// mu guards every field below except the rMu/wMu exclusion pair
	// themselves. rCond and wCond are both built on mu: rCond is
	// signalled whenever the channel becomes readable, wCond whenever it
	// becomes writable.
	mu    sync.Mutex
	rCond *sync.Cond
	wCond *sync.Cond

	// rMu and wMu serialise concurrent receivers and concurrent senders
	// respectively, so that at most one of each is ever inside the
	// unbuffered rendezvous's critical section at a time.
	rMu sync.Mutex
	wMu sync.Mutex

	rWaiting int
	wWaiting int

	// closed is read through both the locked slow path (under mu) and an
	// atomic fast path from IsClosed (without mu), the same two-tier
	// pattern the annotated runtime's chansend/chanrecv use
	// for their lock-free fast path.
	closed atomic.Bool

	buf *ring.Ring[T] // nil for an unbuffered channel

	// data/hasData form the unbuffered channel's single rendezvous slot.
	// hasData discriminates "a value is present" from T's zero value, so
	// sending a zero-valued payload is never confused with an empty slot
	// (see SPEC_FULL.md §9).
	data    T
	hasData bool
}

// New constructs a channel. A capacity of 0 selects an unbuffered
// (rendezvous) channel; a capacity greater than 0 selects a buffered
// channel backed by a fixed-capacity FIFO of that size. A negative
// capacity is rejected with ErrInvalidArgument.
func New[T any](capacity int) (*Chan[T], error) {
	if capacity < 0 {
		return nil, ErrInvalidArgument
	}

	c := &Chan[T]{}
	c.rCond = sync.NewCond(&c.mu)
	c.wCond = sync.NewCond(&c.mu)

	if capacity > 0 {
		buf, err := ring.New[T](capacity)
		if err != nil {
			// ring.New only fails on a non-positive capacity, which
			// cannot happen here; kept for parity with the protocol's
			// own fallible buffered_chan_init.
			return nil, ErrInvalidArgument
		}
		c.buf = buf
	}

	return c, nil
}

// Buffered reports whether the channel was constructed with a positive
// capacity.
func (c *Chan[T]) Buffered() bool {
	return c.buf != nil
}

// Dispose releases the channel's resources. The caller must ensure no
// other goroutine is concurrently operating on, or blocked on, the
// channel: calling Dispose while operations are in flight, or disposing
// the same channel twice, is undefined behaviour, exactly as it is in
// the mutex/condvar protocol this package implements. Dispose does not
// need to be called for correctness — everything here is reclaimed by
// the garbage collector once the channel is unreachable — it exists so
// callers porting code from a manual-memory-management protocol have an
// explicit point to call.
func (c *Chan[T]) Dispose() {
	debugf("dispose chan=%p", c)
	c.buf = nil
	var zero T
	c.data = zero
	c.hasData = false
}

// Close disables further sends. A buffered channel continues to yield
// already-queued values to Recv until drained; an unbuffered channel
// fails every subsequent Recv immediately, since no new sender can ever
// arrive. Close on an already-closed channel returns ErrClosed.
func (c *Chan[T]) Close() error {
	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed.Store(true)
	debugf("close chan=%p", c)
	// Broadcast, not signal: every blocked sender and receiver must wake
	// up to re-evaluate its predicate against the now-closed channel.
	c.rCond.Broadcast()
	c.wCond.Broadcast()
	c.mu.Unlock()
	return nil
}

// IsClosed reports whether Close has succeeded on this channel.
func (c *Chan[T]) IsClosed() bool {
	return c.closed.Load()
}

// Size returns the number of values currently queued in the channel's
// buffer. It is always 0 for an unbuffered channel.
func (c *Chan[T]) Size() int {
	if c.buf == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// Cap returns the channel's fixed buffer capacity, or 0 for an
// unbuffered channel.
func (c *Chan[T]) Cap() int {
	if c.buf == nil {
		return 0
	}
	return c.buf.Cap()
}

// Send sends value on the channel, blocking until a receiver is ready
// (unbuffered) or until buffer space frees up (buffered). It returns
// ErrClosed if the channel is, or becomes, closed before the send can
// complete.
func (c *Chan[T]) Send(value T) error {
	if c.buf != nil {
		return c.bufferedSend(value)
	}
	return c.unbufferedSend(value)
}

// Recv receives a value from the channel, blocking until one is
// available. It returns ErrClosed once the channel is closed and, for a
// buffered channel, fully drained.
func (c *Chan[T]) Recv() (T, error) {
	if c.buf != nil {
		return c.bufferedRecv()
	}
	return c.unbufferedRecv()
}

func (c *Chan[T]) bufferedSend(value T) error {
	c.mu.Lock()

	if c.closed.Load() {
		c.mu.Unlock()
		return ErrClosed
	}

	for c.buf.Len() == c.buf.Cap() {
		c.wWaiting++
		c.wCond.Wait()
		c.wWaiting--

		if c.closed.Load() {
			c.mu.Unlock()
			return ErrClosed
		}
	}

	// Guaranteed to succeed: we just proved there's room, and buf is
	// only ever touched under mu.
	_ = c.buf.Add(value)

	if c.rWaiting > 0 {
		c.rCond.Signal()
	}
	c.mu.Unlock()
	return nil
}

func (c *Chan[T]) bufferedRecv() (T, error) {
	c.mu.Lock()

	for c.buf.Len() == 0 {
		if c.closed.Load() {
			c.mu.Unlock()
			var zero T
			return zero, ErrClosed
		}
		c.rWaiting++
		c.rCond.Wait()
		c.rWaiting--
	}

	value, _ := c.buf.Remove()

	if c.wWaiting > 0 {
		c.wCond.Signal()
	}
	c.mu.Unlock()
	return value, nil
}

func (c *Chan[T]) unbufferedSend(value T) error {
	c.wMu.Lock()
	defer c.wMu.Unlock()

	c.mu.Lock()

	if c.closed.Load() {
		c.mu.Unlock()
		return ErrClosed
	}

	c.data = value
	c.hasData = true
	c.wWaiting++

	if c.rWaiting > 0 {
		c.rCond.Signal()
	}

	// Block until the matched receiver has consumed data and signalled
	// wCond, or until Close broadcasts wCond with no receiver ever having
	// claimed it. mu makes the two cases distinguishable: a receiver only
	// ever clears hasData while holding mu, and Close only ever sets
	// closed while holding mu, so whichever happened first is exactly
	// what this goroutine observes on wake.
	for c.hasData {
		c.wCond.Wait()
		if c.hasData && c.closed.Load() {
			c.hasData = false
			c.wWaiting--
			var zero T
			c.data = zero
			c.mu.Unlock()
			return ErrClosed
		}
	}

	c.mu.Unlock()
	return nil
}

func (c *Chan[T]) unbufferedRecv() (T, error) {
	c.rMu.Lock()
	defer c.rMu.Unlock()

	c.mu.Lock()

	for !c.closed.Load() && c.wWaiting == 0 {
		c.rWaiting++
		c.rCond.Wait()
		c.rWaiting--
	}

	if c.closed.Load() {
		c.mu.Unlock()
		var zero T
		return zero, ErrClosed
	}

	value := c.data
	var zero T
	c.data = zero
	c.hasData = false
	c.wWaiting--

	c.wCond.Signal()

	c.mu.Unlock()
	return value, nil
}
