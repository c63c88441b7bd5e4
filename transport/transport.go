// Package transport implements the master and slave call state
// machines on top of package protocol's wire format: the adaptive
// retry loop, the callback registry, and the post-call stream modes.
// It depends only on the Transport interface below, never on a
// concrete byte-transfer medium.
package transport

import (
	"context"
	"time"
)

// Transport is the byte-level contract a Master or Slave drives. A
// concrete implementation (driver/mem, driver/uart, driver/i2c, ...)
// owns framing at the physical layer only; everything above the byte
// stream - magics, CRCs, retries - is this package's job.
type Transport interface {
	// GetBytes blocks until len(buf) bytes have arrived or timeout
	// elapses, and reports which. Implementations MUST zero buf before
	// filling it so a short, failed read never leaves stale bytes that
	// could be mistaken for a later frame.
	GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool
	// PutBytes writes data and reports whether all of it was sent
	// within timeout.
	PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool
	// Flush discards any bytes already buffered but not yet consumed,
	// so a new attempt starts from a clean slate.
	Flush()
	// WriterQueueDepthMax is the ceiling this transport can sustain for
	// a stream writer's credit window. Half-duplex media return 1.
	WriterQueueDepthMax() int
}
