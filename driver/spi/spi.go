// Package spi implements the SPI master half of transport.Transport,
// grounded on the source library's rpc_spi_master: chip-select
// asserted low across one transfer, a 100us settle delay, and CRC
// integrity as the sole framing guarantee since SPI carries no
// inherent flow control.
package spi

import (
	"context"
	"time"

	"github.com/ejosue98/mvrpc/protocol"
)

// settleDelay gives the slave time to get ready after CS goes low,
// matching the source's delayMicroseconds(100).
const settleDelay = 100 * time.Microsecond

// Bus is the minimal SPI controller contract this driver needs. A
// real implementation wraps machine.SPI or a platform equivalent.
type Bus interface {
	Tx(w, r []byte) error
}

// ChipSelect abstracts the CS GPIO line. The Driver never configures
// the pin itself: New takes a ChipSelect the caller has already set up
// as an output, so the line is never driven before it is assigned.
type ChipSelect interface {
	Low()
	High()
}

// Driver is the SPI master half of transport.Transport.
type Driver struct {
	bus Bus
	cs  ChipSelect
}

// New wraps bus and cs as a master-side Transport. cs is expected to
// already be configured as an output by the caller.
func New(bus Bus, cs ChipSelect) *Driver {
	return &Driver{bus: bus, cs: cs}
}

// GetBytes clocks len(buf) bytes of dummy output while capturing the
// slave's reply, then applies the repeat-byte guard (spec.md §4.7):
// an all-identical buffer is treated as a failed read against a slave
// that has not yet pulled the line away from idle.
func (d *Driver) GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	for i := range buf {
		buf[i] = 0
	}
	d.cs.Low()
	time.Sleep(settleDelay)
	err := d.bus.Tx(buf, buf)
	d.cs.High()
	if err != nil {
		time.Sleep(timeout)
		return false
	}
	if protocol.AllEqual(buf) {
		time.Sleep(timeout)
		return false
	}
	return true
}

// PutBytes clocks data out in a single transfer, giving the bus a
// separate scratch destination for the reply so data itself is never
// overwritten (SPI.transfer(buff, size) in the source would overwrite
// the transmit buffer with whatever comes back).
func (d *Driver) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	d.cs.Low()
	time.Sleep(settleDelay)
	scratch := make([]byte, len(data))
	err := d.bus.Tx(data, scratch)
	d.cs.High()
	return err == nil
}

// Flush is a no-op: SPI is a synchronous shift register with no
// receive buffer to drain between transfers.
func (d *Driver) Flush() {}

// WriterQueueDepthMax is 1: SPI has no flow control of its own, so a
// stream writer must wait for each chunk's acknowledgement before
// sending the next.
func (d *Driver) WriterQueueDepthMax() int { return 1 }
