// Package uart implements transport.Transport over a real serial port
// via go.bug.st/serial, for hardware and software UARTs alike. The
// original library generated one class per UART index via preprocessor
// macros; here a single Driver is parameterised by port path and baud
// rate instead (spec.md §9 DESIGN NOTES).
package uart

import (
	"context"
	"io"
	"time"

	"go.bug.st/serial"
)

// Config describes the serial port a Driver opens.
type Config struct {
	PortPath string
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
}

// Driver is a transport.Transport backed by a blocking serial.Port.
// It is full-duplex, so it reports the default stream credit ceiling
// and never applies the repeat-byte guard.
type Driver struct {
	port serial.Port
	cfg  Config
}

// Open opens the configured serial port and returns a ready Driver.
func Open(cfg Config) (*Driver, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 115200
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	}
	port, err := serial.Open(cfg.PortPath, mode)
	if err != nil {
		return nil, err
	}
	return &Driver{port: port, cfg: cfg}, nil
}

// Close releases the underlying serial port.
func (d *Driver) Close() error {
	return d.port.Close()
}

// GetBytes reads exactly len(buf) bytes within timeout. buf is zeroed
// first so a short read never leaves bytes from a previous, unrelated
// frame in place.
func (d *Driver) GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool {
	for i := range buf {
		buf[i] = 0
	}
	if err := d.port.SetReadTimeout(timeout); err != nil {
		return false
	}
	deadline := time.Now().Add(timeout)
	n := 0
	for n < len(buf) {
		if ctx.Err() != nil || time.Now().After(deadline) {
			return false
		}
		read, err := d.port.Read(buf[n:])
		if err != nil && err != io.EOF {
			return false
		}
		if read == 0 && err == io.EOF {
			return false
		}
		n += read
	}
	return true
}

// PutBytes writes data in full within timeout.
func (d *Driver) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	done := make(chan error, 1)
	go func() {
		_, err := d.port.Write(data)
		done <- err
	}()
	select {
	case err := <-done:
		return err == nil
	case <-time.After(timeout):
		return false
	}
}

// Flush discards any bytes already buffered by the OS driver but not
// yet read, so the next attempt starts clean.
func (d *Driver) Flush() {
	_ = d.port.ResetInputBuffer()
}

// WriterQueueDepthMax reports the full-duplex stream credit ceiling
// for whatever port was opened, a software UART included; the driver
// has no half-duplex setting.
func (d *Driver) WriterQueueDepthMax() int {
	return 255
}
