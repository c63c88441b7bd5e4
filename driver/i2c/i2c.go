// Package i2c implements transport.Transport over an I2C bus, for
// both the master and slave roles, grounded on the source library's
// rpc_i2c_master/rpc_i2c_slave (chunked 32-byte transfers and a 100us
// settle delay ahead of each transfer). Each chunk is a single Bus.Tx
// call; the driver does no bus begin/end bracketing around transfers.
// No Go I2C library appears anywhere in the retrieval pack,
// so both halves talk to a small bus interface in the TinyGo
// machine-package idiom instead.
package i2c

import (
	"context"
	"time"

	"github.com/ejosue98/mvrpc/protocol"
)

// settleDelay is given to the slave before each transfer begins, the
// same 100us the source library sleeps for.
const settleDelay = 100 * time.Microsecond

// chunkSize is the largest single I2C transfer issued per request,
// matching the source's 32-byte Wire chunking.
const chunkSize = 32

// Bus is the minimal I2C master contract this driver needs. A real
// implementation wraps machine.I2C or a platform equivalent.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// MasterDriver is the I2C master half of transport.Transport.
type MasterDriver struct {
	bus       Bus
	slaveAddr uint16
}

// NewMaster wraps bus as a master-side Transport talking to the
// device at slaveAddr.
func NewMaster(bus Bus, slaveAddr uint16) *MasterDriver {
	return &MasterDriver{bus: bus, slaveAddr: slaveAddr}
}

// GetBytes reads len(buf) bytes in chunks of at most chunkSize,
// settling before each chunk, then rejects the read if every byte
// came back identical - the repeat-byte guard against an I2C slave
// that is not yet driving the bus and leaves the line at its idle
// level (spec.md §4.7).
func (d *MasterDriver) GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool {
	for i := range buf {
		buf[i] = 0
	}
	for i := 0; i < len(buf); i += chunkSize {
		if ctx.Err() != nil {
			return false
		}
		end := i + chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		time.Sleep(settleDelay)
		if err := d.bus.Tx(d.slaveAddr, nil, buf[i:end]); err != nil {
			time.Sleep(timeout)
			return false
		}
	}
	if protocol.AllEqual(buf) {
		time.Sleep(timeout)
		return false
	}
	return true
}

// PutBytes writes data in chunks of at most chunkSize, settling before
// each chunk.
func (d *MasterDriver) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	for i := 0; i < len(data); i += chunkSize {
		if ctx.Err() != nil {
			return false
		}
		end := i + chunkSize
		if end > len(data) {
			end = len(data)
		}
		time.Sleep(settleDelay)
		if err := d.bus.Tx(d.slaveAddr, data[i:end], nil); err != nil {
			return false
		}
	}
	return true
}

// Flush is a no-op: I2C has no OS-level receive buffer to drain, the
// source library's equivalent only discards bytes Wire had already
// buffered, which this driver never accumulates between calls.
func (d *MasterDriver) Flush() {}

// WriterQueueDepthMax is 1: I2C is effectively half-duplex for this
// protocol's purposes, so a stream writer must wait for each
// acknowledgement before sending the next chunk.
func (d *MasterDriver) WriterQueueDepthMax() int { return 1 }

// PeripheralBus is the minimal I2C slave (peripheral-mode) contract:
// blocking reads/writes against whatever the controller addresses us
// with.
type PeripheralBus interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// SlaveDriver is the I2C slave half of transport.Transport.
type SlaveDriver struct {
	bus PeripheralBus
}

// NewSlave wraps bus as a slave-side Transport.
func NewSlave(bus PeripheralBus) *SlaveDriver {
	return &SlaveDriver{bus: bus}
}

// GetBytes polls the peripheral bus until len(buf) bytes have
// accumulated or timeout elapses.
func (d *SlaveDriver) GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool {
	for i := range buf {
		buf[i] = 0
	}
	deadline := time.Now().Add(timeout)
	n := 0
	for n < len(buf) {
		if ctx.Err() != nil || time.Now().After(deadline) {
			return false
		}
		read, err := d.bus.Read(buf[n:])
		if err != nil {
			return false
		}
		n += read
	}
	return true
}

// PutBytes writes data to the peripheral bus in chunkSize pieces
// within timeout.
func (d *SlaveDriver) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	n := 0
	for n < len(data) {
		if ctx.Err() != nil || time.Now().After(deadline) {
			return false
		}
		end := n + chunkSize
		if end > len(data) {
			end = len(data)
		}
		written, err := d.bus.Write(data[n:end])
		if err != nil {
			return false
		}
		n += written
	}
	return true
}

// Flush is a no-op for the same reason as MasterDriver.Flush.
func (d *SlaveDriver) Flush() {}

// WriterQueueDepthMax is 1, matching MasterDriver.
func (d *SlaveDriver) WriterQueueDepthMax() int { return 1 }
