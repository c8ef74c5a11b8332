package chanx

import "errors"

// Error kinds returned by the operations in this package. Callers should
// compare against these with errors.Is rather than relying on string
// matching or identity through formatting/wrapping.
var (
	// ErrInvalidArgument is returned by New when capacity is negative.
	ErrInvalidArgument = errors.New("chanx: invalid capacity")

	// ErrOutOfMemory is reserved for parity with the source protocol's
	// allocation-failure path. Go reports actual allocation failure as a
	// fatal, unrecoverable runtime error rather than a returned error, so
	// in practice this module never returns it; it exists so that code
	// ported from the C channel library this package mirrors has
	// somewhere to map ENOMEM.
	ErrOutOfMemory = errors.New("chanx: out of memory")

	// ErrClosed is returned by Send, by Recv once a channel has drained,
	// and by a second call to Close.
	ErrClosed = errors.New("chanx: channel is closed")

	// ErrNoBufferSpace names the full-queue condition, which internal/ring
	// reports with its own ring.ErrNoSpace. No function in this package
	// returns it (Chan.Send blocks instead); it exists only for symmetry
	// with the underlying internal/ring API.
	ErrNoBufferSpace = errors.New("chanx: no buffer space available")
)
