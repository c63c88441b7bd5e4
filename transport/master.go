package transport

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/ejosue98/mvrpc/protocol"
	"github.com/sirupsen/logrus"
)

// Master drives the call handshake: put_command followed by
// get_result, each phase retried with a growing inner timeout until
// its own total budget elapses. A Master owns one scratch buffer,
// shared between the outgoing command-data frame and the incoming
// result-data frame, since the two phases never overlap.
type Master struct {
	t    Transport
	buff []byte
	log  *logrus.Entry

	// longPutTimeout/longGetTimeout bound the bulk data-phase transfer
	// once the small header/ack exchange has already succeeded; unlike
	// the short timeouts they do not grow across attempts.
	longPutTimeout time.Duration
	longGetTimeout time.Duration

	outResultHeaderAck []byte
	outResultDataAck   []byte
}

// MasterOption configures optional Master fields at construction.
type MasterOption func(*Master)

// WithMasterLogger attaches a structured logger; by default a Master
// logs nothing.
func WithMasterLogger(log *logrus.Entry) MasterOption {
	return func(m *Master) { m.log = log }
}

// WithMasterLongTimeouts overrides the fixed bulk-transfer timeouts.
func WithMasterLongTimeouts(put, get time.Duration) MasterOption {
	return func(m *Master) { m.longPutTimeout, m.longGetTimeout = put, get }
}

// NewMaster allocates a Master with a scratch buffer of buffLen bytes,
// capping any single request or response at buffLen-4.
func NewMaster(t Transport, buffLen int, opts ...MasterOption) *Master {
	m := &Master{
		t:                  t,
		buff:               make([]byte, buffLen),
		log:                discardLogger(),
		longPutTimeout:     protocol.DefaultLongTimeout,
		longGetTimeout:     protocol.DefaultLongTimeout,
		outResultHeaderAck: protocol.EncodeControlFrame(protocol.ResultHeaderMagic, nil),
		outResultDataAck:   protocol.EncodeControlFrame(protocol.ResultDataMagic, nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CallOption configures a single Call/CallZeroCopy invocation.
type CallOption func(*callConfig)

type callConfig struct {
	failOnEmptyResult bool
}

// WithFailOnEmptyResult makes the call report failure when the slave
// answered with a zero-length result, instead of returning an empty
// slice successfully.
func WithFailOnEmptyResult() CallOption {
	return func(c *callConfig) { c.failOnEmptyResult = true }
}

// Call invokes the named remote procedure with request as its
// argument and returns a copy of the response. request may be nil for
// a no-argument call.
func (m *Master) Call(ctx context.Context, name string, request []byte, sendTimeout, recvTimeout time.Duration, opts ...CallOption) ([]byte, error) {
	borrowed, err := m.CallZeroCopy(ctx, name, request, sendTimeout, recvTimeout, opts...)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), borrowed...), nil
}

// CallZeroCopy is Call but returns a slice backed directly by the
// Master's scratch buffer. The slice is only valid until the next
// Call/CallZeroCopy on this Master.
func (m *Master) CallZeroCopy(ctx context.Context, name string, request []byte, sendTimeout, recvTimeout time.Duration, opts ...CallOption) ([]byte, error) {
	cfg := callConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	hash := protocol.Hash(name)
	if err := m.putCommand(ctx, hash, request, sendTimeout); err != nil {
		return nil, err
	}
	result, err := m.getResult(ctx, recvTimeout)
	if err != nil {
		return nil, err
	}
	if cfg.failOnEmptyResult && len(result) == 0 {
		return nil, protocol.ErrTimeout
	}
	return result, nil
}

func (m *Master) putCommand(ctx context.Context, hash uint32, data []byte, timeout time.Duration) error {
	size := len(data)
	if len(m.buff) < size+4 {
		m.log.WithField("size", size).Warn("command payload exceeds scratch buffer")
		return protocol.ErrSizeExceeded
	}

	headerPayload := make([]byte, 8)
	binary.LittleEndian.PutUint32(headerPayload[0:4], hash)
	binary.LittleEndian.PutUint32(headerPayload[4:8], uint32(size))
	outHeader := protocol.EncodeControlFrame(protocol.CommandHeaderMagic, headerPayload)
	protocol.SetFrame(m.buff[:size+4], protocol.CommandDataMagic, data)

	at := newAttemptTimeouts(timeout, true)
	inHeaderAck := make([]byte, protocol.AckFrameSize)
	inDataAck := make([]byte, protocol.AckFrameSize)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		zero(inHeaderAck)
		zero(inDataAck)
		m.t.Flush()
		m.t.PutBytes(ctx, outHeader, at.putShort)
		if m.t.GetBytes(ctx, inHeaderAck, at.getShort) && protocol.GetFrame(inHeaderAck, protocol.CommandHeaderMagic) == nil {
			m.t.PutBytes(ctx, m.buff[:size+4], m.longPutTimeout)
			if m.t.GetBytes(ctx, inDataAck, at.getShort) && protocol.GetFrame(inDataAck, protocol.CommandDataMagic) == nil {
				return nil
			}
		}
		at.grow()
		m.log.WithFields(logrus.Fields{"put_short": at.putShort, "get_short": at.getShort}).Debug("put_command retrying")
	}
	return protocol.ErrTimeout
}

func (m *Master) getResult(ctx context.Context, timeout time.Duration) ([]byte, error) {
	at := newAttemptTimeouts(timeout, true)
	inHeader := make([]byte, protocol.ResultHeaderFrameSize)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		zero(inHeader)
		m.t.Flush()
		m.t.PutBytes(ctx, m.outResultHeaderAck, at.putShort)
		if m.t.GetBytes(ctx, inHeader, at.getShort) {
			if payload, err := protocol.DecodeControlFrame(inHeader, protocol.ResultHeaderMagic); err == nil {
				resultLen := binary.LittleEndian.Uint32(payload)
				total := int(resultLen) + 4
				if len(m.buff) < total {
					m.log.WithField("result_len", resultLen).Warn("result exceeds scratch buffer")
					return nil, protocol.ErrSizeExceeded
				}
				m.t.PutBytes(ctx, m.outResultDataAck, at.putShort)
				if m.t.GetBytes(ctx, m.buff[:total], m.longGetTimeout) && protocol.GetFrame(m.buff[:total], protocol.ResultDataMagic) == nil {
					return m.buff[2 : 2+resultLen], nil
				}
			}
		}
		at.grow()
		m.log.WithFields(logrus.Fields{"put_short": at.putShort, "get_short": at.getShort}).Debug("get_result retrying")
	}
	return nil, protocol.ErrTimeout
}
