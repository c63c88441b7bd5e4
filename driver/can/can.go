// Package can implements transport.Transport over a CAN bus, master
// and slave halves alike, grounded on the source library's
// rpc_can_master/rpc_can_slave: payloads chunked into 8-byte packets,
// both ends filtering on a single message ID.
package can

import (
	"context"
	"time"

	"github.com/ejosue98/mvrpc/protocol"
)

// maxPacketSize is the CAN 2.0 data payload ceiling; the source chunks
// every transfer to this size.
const maxPacketSize = 8

// Bus is the minimal CAN controller contract this driver needs. A
// real implementation wraps a platform CAN peripheral, filtered to a
// single message ID at construction.
type Bus interface {
	// Send transmits one CAN frame (up to maxPacketSize data bytes) on
	// messageID and reports success.
	Send(messageID uint32, data []byte) bool
	// Receive returns the next available frame's data on messageID, if
	// any arrived without blocking.
	Receive(messageID uint32) (data []byte, ok bool)
}

// Driver is a transport.Transport over a CAN Bus filtered to a single
// message ID, usable as either the master or slave role - the source
// library's rpc_can_master and rpc_can_slave differ only in which side
// initiates, not in byte handling.
type Driver struct {
	bus       Bus
	messageID uint32
}

// New wraps bus as a Transport filtered to messageID.
func New(bus Bus, messageID uint32) *Driver {
	return &Driver{bus: bus, messageID: messageID}
}

// GetBytes polls for frames on messageID until len(buf) bytes have
// accumulated or timeout elapses.
func (d *Driver) GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool {
	for i := range buf {
		buf[i] = 0
	}
	deadline := time.Now().Add(timeout)
	n := 0
	for n < len(buf) {
		if ctx.Err() != nil {
			return false
		}
		if time.Now().After(deadline) {
			return false
		}
		data, ok := d.bus.Receive(d.messageID)
		if !ok {
			continue
		}
		n += copy(buf[n:], data)
	}
	return true
}

// PutBytes sends data in packets of at most maxPacketSize bytes,
// retrying each packet until timeout elapses.
func (d *Driver) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	i := 0
	for i < len(data) {
		if ctx.Err() != nil || time.Now().After(deadline) {
			return false
		}
		end := i + maxPacketSize
		if end > len(data) {
			end = len(data)
		}
		if d.bus.Send(d.messageID, data[i:end]) {
			i = end
		}
	}
	return true
}

// Flush drains any frames already queued on messageID.
func (d *Driver) Flush() {
	for {
		if _, ok := d.bus.Receive(d.messageID); !ok {
			return
		}
	}
}

// WriterQueueDepthMax is protocol.DefaultStreamWriterQueueDepthMax:
// CAN is full duplex, so a stream writer may keep a deep credit
// window outstanding.
func (d *Driver) WriterQueueDepthMax() int {
	return protocol.DefaultStreamWriterQueueDepthMax
}
