package transport

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/ejosue98/mvrpc/protocol"
	"github.com/sirupsen/logrus"
)

// Slave drives the other half of the call handshake: get_command
// followed by put_result, dispatching to a fixed-capacity Registry of
// named handlers. Unlike Master's geometric backoff, a Slave's inner
// timeouts grow additively - it has no reason to believe a silent
// master is gone, only that it should keep listening a little longer
// each time.
type Slave struct {
	t        Transport
	buff     []byte
	registry *Registry
	log      *logrus.Entry

	longPutTimeout time.Duration
	longGetTimeout time.Duration

	outCommandHeaderAck []byte
	outCommandDataAck   []byte

	// scheduleCallback fires at most once, after the next successful
	// put_result, then is cleared unconditionally - whether or not it
	// fired - so a handler can arm it without leaking across calls
	// that never complete.
	scheduleCallback func()
	loopCallback     func()
}

// SlaveOption configures optional Slave fields at construction.
type SlaveOption func(*Slave)

// WithSlaveLogger attaches a structured logger; by default a Slave
// logs nothing.
func WithSlaveLogger(log *logrus.Entry) SlaveOption {
	return func(s *Slave) { s.log = log }
}

// WithSlaveLongTimeouts overrides the fixed bulk-transfer timeouts.
func WithSlaveLongTimeouts(put, get time.Duration) SlaveOption {
	return func(s *Slave) { s.longPutTimeout, s.longGetTimeout = put, get }
}

// NewSlave allocates a Slave with a scratch buffer of buffLen bytes
// and a callback registry that can hold up to registryCapacity names.
func NewSlave(t Transport, buffLen, registryCapacity int, opts ...SlaveOption) *Slave {
	s := &Slave{
		t:                   t,
		buff:                make([]byte, buffLen),
		registry:            NewRegistry(registryCapacity),
		log:                 discardLogger(),
		longPutTimeout:      protocol.DefaultLongTimeout,
		longGetTimeout:      protocol.DefaultLongTimeout,
		outCommandHeaderAck: protocol.EncodeControlFrame(protocol.CommandHeaderMagic, nil),
		outCommandDataAck:   protocol.EncodeControlFrame(protocol.CommandDataMagic, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterCallback binds name to h in the slave's registry.
func (s *Slave) RegisterCallback(name string, h Handler) error {
	return s.registry.Register(name, h)
}

// ScheduleCallback arms a one-shot hook that fires immediately after
// the next put_result succeeds. It is cleared after that attempt
// regardless of whether it fired - calling this again is required to
// arm another one.
func (s *Slave) ScheduleCallback(fn func()) {
	s.scheduleCallback = fn
}

// SetupLoopCallback installs a hook invoked once at the end of every
// Loop iteration, whether or not a command was received.
func (s *Slave) SetupLoopCallback(fn func()) {
	s.loopCallback = fn
}

// Loop runs the get_command/dispatch/put_result cycle until ctx is
// cancelled.
func (s *Slave) Loop(ctx context.Context, sendTimeout, recvTimeout time.Duration) {
	for ctx.Err() == nil {
		hash, data, ok := s.getCommand(ctx, recvTimeout)
		if ok {
			handler := s.registry.lookup(hash)
			var result []byte
			if handler != nil {
				if r, err := handler(data); err == nil {
					result = r
				} else {
					s.log.WithError(err).WithField("hash", hash).Warn("handler returned error")
				}
			}
			if err := s.putResult(ctx, result, sendTimeout); err == nil && s.scheduleCallback != nil {
				s.scheduleCallback()
			}
			s.scheduleCallback = nil
		}
		if s.loopCallback != nil {
			s.loopCallback()
		}
	}
}

func (s *Slave) getCommand(ctx context.Context, timeout time.Duration) (hash uint32, data []byte, ok bool) {
	at := newAttemptTimeouts(timeout, false)
	inHeader := make([]byte, protocol.CommandHeaderFrameSize)
	deadline := time.Now().Add(timeout)

	for ctx.Err() == nil && time.Now().Before(deadline) {
		zero(inHeader)
		s.t.Flush()
		if s.t.GetBytes(ctx, inHeader, at.getShort) {
			if payload, err := protocol.DecodeControlFrame(inHeader, protocol.CommandHeaderMagic); err == nil {
				cmd := binary.LittleEndian.Uint32(payload[0:4])
				size := binary.LittleEndian.Uint32(payload[4:8])
				total := int(size) + 4
				if len(s.buff) < total {
					s.log.WithField("size", size).Warn("command payload exceeds scratch buffer")
					return 0, nil, false
				}
				s.t.PutBytes(ctx, s.outCommandHeaderAck, at.putShort)
				if s.t.GetBytes(ctx, s.buff[:total], s.longGetTimeout) && protocol.GetFrame(s.buff[:total], protocol.CommandDataMagic) == nil {
					s.t.PutBytes(ctx, s.outCommandDataAck, at.putShort)
					return cmd, s.buff[2 : 2+size], true
				}
			}
		}
		at.grow()
	}
	return 0, nil, false
}

func (s *Slave) putResult(ctx context.Context, data []byte, timeout time.Duration) error {
	size := len(data)
	if len(s.buff) < size+4 {
		s.log.WithField("size", size).Warn("result payload exceeds scratch buffer")
		return protocol.ErrSizeExceeded
	}

	headerPayload := make([]byte, 4)
	binary.LittleEndian.PutUint32(headerPayload, uint32(size))
	outHeader := protocol.EncodeControlFrame(protocol.ResultHeaderMagic, headerPayload)
	protocol.SetFrame(s.buff[:size+4], protocol.ResultDataMagic, data)

	at := newAttemptTimeouts(timeout, false)
	inHeaderAck := make([]byte, protocol.AckFrameSize)
	inDataAck := make([]byte, protocol.AckFrameSize)
	deadline := time.Now().Add(timeout)

	for ctx.Err() == nil && time.Now().Before(deadline) {
		zero(inHeaderAck)
		zero(inDataAck)
		s.t.Flush()
		if s.t.GetBytes(ctx, inHeaderAck, at.getShort) && protocol.GetFrame(inHeaderAck, protocol.ResultHeaderMagic) == nil {
			s.t.PutBytes(ctx, outHeader, at.putShort)
			if s.t.GetBytes(ctx, inDataAck, at.getShort) && protocol.GetFrame(inDataAck, protocol.ResultDataMagic) == nil {
				s.t.PutBytes(ctx, s.buff[:size+4], s.longPutTimeout)
				return nil
			}
		}
		at.grow()
	}
	return protocol.ErrTimeout
}
