// Package mem implements an in-memory, paired transport.Transport
// used by this module's own tests and by the simulator's default
// mode. It has no wire equivalent; its job is to let a Master and a
// Slave exercise the full protocol state machine without any real
// hardware.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/ejosue98/mvrpc/protocol"
)

const defaultRingCapacity = 4096

// byteRing is a fixed-capacity FIFO of bytes. Pushing past capacity
// overwrites the oldest unread byte rather than blocking, the same
// bounded-memory tradeoff the teacher's driver/stub ring buffer makes
// at frame granularity.
type byteRing struct {
	data       []byte
	head, tail int
	count      int
}

func newByteRing(capacity int) *byteRing {
	return &byteRing{data: make([]byte, capacity)}
}

func (r *byteRing) push(b byte) {
	if r.count == len(r.data) {
		r.head = (r.head + 1) % len(r.data)
		r.count--
	}
	r.data[r.tail] = b
	r.tail = (r.tail + 1) % len(r.data)
	r.count++
}

func (r *byteRing) pop() (byte, bool) {
	if r.count == 0 {
		return 0, false
	}
	b := r.data[r.head]
	r.head = (r.head + 1) % len(r.data)
	r.count--
	return b, true
}

func (r *byteRing) clear() {
	r.head, r.tail, r.count = 0, 0, 0
}

// Endpoint is one side of a paired in-memory transport. Bytes written
// via PutBytes on one Endpoint become readable via GetBytes on its
// peer.
type Endpoint struct {
	mu            sync.Mutex
	in            *byteRing
	out           *byteRing
	queueDepthMax int
}

// NewPair returns two Endpoints wired to each other: bytes put on a
// are read by b and vice versa. queueDepthMax is reported by
// WriterQueueDepthMax on both ends - pass 1 to model a half-duplex
// medium (I2C, SPI, software UART) and protocol.DefaultStreamWriterQueueDepthMax
// for a full-duplex one.
func NewPair(ringCapacity, queueDepthMax int) (a, b *Endpoint) {
	if ringCapacity <= 0 {
		ringCapacity = defaultRingCapacity
	}
	aToB := newByteRing(ringCapacity)
	bToA := newByteRing(ringCapacity)
	a = &Endpoint{in: bToA, out: aToB, queueDepthMax: queueDepthMax}
	b = &Endpoint{in: aToB, out: bToA, queueDepthMax: queueDepthMax}
	return a, b
}

// NewFullDuplexPair is NewPair with the default ring size and a
// full-duplex queue depth ceiling.
func NewFullDuplexPair() (a, b *Endpoint) {
	return NewPair(defaultRingCapacity, protocol.DefaultStreamWriterQueueDepthMax)
}

// NewHalfDuplexPair is NewPair with the default ring size and a
// queue depth ceiling of 1, for exercising half-duplex stream flow
// control without a real I2C/SPI bus.
func NewHalfDuplexPair() (a, b *Endpoint) {
	return NewPair(defaultRingCapacity, 1)
}

func (e *Endpoint) GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool {
	for i := range buf {
		buf[i] = 0
	}
	deadline := time.Now().Add(timeout)
	n := 0
	for n < len(buf) {
		if ctx.Err() != nil {
			return false
		}
		e.mu.Lock()
		for n < len(buf) {
			b, ok := e.in.pop()
			if !ok {
				break
			}
			buf[n] = b
			n++
		}
		e.mu.Unlock()
		if n == len(buf) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Microsecond)
	}
	return true
}

func (e *Endpoint) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range data {
		e.out.push(b)
	}
	return true
}

func (e *Endpoint) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.in.clear()
}

func (e *Endpoint) WriterQueueDepthMax() int {
	return e.queueDepthMax
}
