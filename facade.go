// Package mvrpc provides a façade over package protocol and package
// transport, mirroring the teacher repo's root-level re-export so
// callers who only need the common path can depend on one import
// instead of both subpackages directly.
package mvrpc

import (
	"github.com/ejosue98/mvrpc/protocol"
	"github.com/ejosue98/mvrpc/transport"
)

// Re-exported types for callers that don't need the subpackages
// directly.
type (
	Transport = transport.Transport
	Master    = transport.Master
	Slave     = transport.Slave
	Registry  = transport.Registry
	Handler   = transport.Handler
)

// Re-exported constructors and options.
var (
	NewMaster             = transport.NewMaster
	NewSlave              = transport.NewSlave
	WithMasterLogger      = transport.WithMasterLogger
	WithSlaveLogger       = transport.WithSlaveLogger
	WithFailOnEmptyResult = transport.WithFailOnEmptyResult
	StreamReader          = transport.StreamReader
	StreamWriter          = transport.StreamWriter
)

// Error values exposed in the public API.
var (
	ErrSizeExceeded  = protocol.ErrSizeExceeded
	ErrMagicMismatch = protocol.ErrMagicMismatch
	ErrCRCMismatch   = protocol.ErrCRCMismatch
	ErrTimeout       = protocol.ErrTimeout
	ErrRegistryFull  = protocol.ErrRegistryFull
)

// Hash computes the djb2-with-xor name hash used to key callback
// registrations, re-exported for callers that want to precompute or
// log a command's wire identifier.
func Hash(name string) uint32 {
	return protocol.Hash(name)
}
