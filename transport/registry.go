package transport

import "github.com/ejosue98/mvrpc/protocol"

// Handler answers a single RPC call. It owns the returned slice; the
// Slave copies it onto the wire before the handler is invoked again.
// A nil or empty response, or a non-nil error, both produce a
// zero-length RESULT_DATA payload on the wire - the protocol carries
// no channel for propagating the error itself.
type Handler func(request []byte) (response []byte, err error)

type registryEntry struct {
	hash    uint32
	handler Handler
}

// Registry is the slave's fixed-capacity name -> Handler table,
// mirroring the source library's fixed-size callback_dict array.
type Registry struct {
	entries  []registryEntry
	capacity int
}

// NewRegistry allocates a registry that can hold up to capacity
// distinct names.
func NewRegistry(capacity int) *Registry {
	return &Registry{entries: make([]registryEntry, 0, capacity), capacity: capacity}
}

// Register binds name to h. Re-registering an already-known name
// replaces its handler in place without consuming a new slot; past
// capacity it returns protocol.ErrRegistryFull.
func (r *Registry) Register(name string, h Handler) error {
	hash := protocol.Hash(name)
	for i := range r.entries {
		if r.entries[i].hash == hash {
			r.entries[i].handler = h
			return nil
		}
	}
	if len(r.entries) >= r.capacity {
		return protocol.ErrRegistryFull
	}
	r.entries = append(r.entries, registryEntry{hash: hash, handler: h})
	return nil
}

// Len reports how many distinct names are currently registered.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) lookup(hash uint32) Handler {
	for i := range r.entries {
		if r.entries[i].hash == hash {
			return r.entries[i].handler
		}
	}
	return nil
}
