package protocol

import "errors"

var (
	// ErrSizeExceeded is returned when a request or response would not
	// fit in the caller's scratch buffer.
	ErrSizeExceeded = errors.New("mvrpc: payload exceeds scratch buffer capacity")
	// ErrMagicMismatch means a received control frame carried the wrong
	// phase magic. Never surfaced to a Master caller; the retry loop
	// treats it the same as CrcMismatch.
	ErrMagicMismatch = errors.New("mvrpc: magic mismatch")
	// ErrCRCMismatch means a received control frame failed its checksum.
	ErrCRCMismatch = errors.New("mvrpc: crc mismatch")
	// ErrTimeout means the total time budget for a phase elapsed
	// without a valid frame.
	ErrTimeout = errors.New("mvrpc: timed out")
	// ErrRegistryFull means Slave.RegisterCallback was called after the
	// callback registry reached its fixed capacity.
	ErrRegistryFull = errors.New("mvrpc: callback registry full")
)
