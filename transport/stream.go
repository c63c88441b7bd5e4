package transport

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/ejosue98/mvrpc/protocol"
)

// streamControlTimeout bounds the small setup/header/ack exchanges of
// the stream sub-protocol; only the bulk chunk transfers use the
// caller-supplied read/write timeout.
const streamControlTimeout = time.Second

// StreamReaderCallback receives one chunk of streamed data. The slice
// is only valid for the duration of the call.
type StreamReaderCallback func(chunk []byte)

// StreamReader runs the reader half of the post-call streaming
// sub-protocol: it requests queueDepth credits from the writer, then
// repeatedly receives a length-prefixed chunk and acknowledges it with
// the next byte of an 8-bit LFSR sequence. It returns once the
// transport fails or ctx is cancelled - there is no clean end-of-stream
// signal on the wire, matching the source protocol.
func StreamReader(ctx context.Context, t Transport, buff []byte, queueDepth uint32, readTimeout time.Duration, cb StreamReaderCallback) error {
	setupPayload := make([]byte, 4)
	binary.LittleEndian.PutUint32(setupPayload, queueDepth)
	setup := protocol.EncodeControlFrame(protocol.StreamWriterSetupMagic, setupPayload)
	if !t.PutBytes(ctx, setup, streamControlTimeout) {
		return protocol.ErrTimeout
	}

	txLFSR := protocol.LFSRInitState
	header := make([]byte, protocol.StreamDataHeaderFrameSize)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		zero(header)
		if !t.GetBytes(ctx, header, streamControlTimeout) {
			return protocol.ErrTimeout
		}
		payload, err := protocol.DecodeControlFrame(header, protocol.StreamDataMagic)
		if err != nil {
			return err
		}
		size := binary.LittleEndian.Uint32(payload)
		if uint32(len(buff)) < size {
			return protocol.ErrSizeExceeded
		}
		if !t.GetBytes(ctx, buff[:size], readTimeout) {
			return protocol.ErrTimeout
		}
		if cb != nil {
			cb(buff[:size])
		}
		if !t.PutBytes(ctx, []byte{txLFSR}, streamControlTimeout) {
			return protocol.ErrTimeout
		}
		txLFSR = protocol.NextLFSR(txLFSR)
	}
}

// StreamWriterCallback produces the next chunk to send. A non-nil
// error stops the stream.
type StreamWriterCallback func() ([]byte, error)

// StreamWriter runs the writer half of the streaming sub-protocol: it
// waits for the reader's credit request, then sends chunks governed
// by a credit window that refills on receipt of the expected LFSR ack
// byte. On a half-duplex transport WriterQueueDepthMax caps the
// window at 1, forcing strict lock-step.
func StreamWriter(ctx context.Context, t Transport, writeTimeout time.Duration, cb StreamWriterCallback) error {
	setup := make([]byte, protocol.StreamSetupFrameSize)
	if !t.GetBytes(ctx, setup, streamControlTimeout) {
		return protocol.ErrTimeout
	}
	payload, err := protocol.DecodeControlFrame(setup, protocol.StreamWriterSetupMagic)
	if err != nil {
		return err
	}
	requested := binary.LittleEndian.Uint32(payload)
	maxDepth := uint32(t.WriterQueueDepthMax())
	queueDepth := clampUint32(requested, 1, maxDepth)

	rxLFSR := protocol.LFSRInitState
	credits := queueDepth

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if credits <= queueDepth/2 {
			ackByte := make([]byte, 1)
			if !t.GetBytes(ctx, ackByte, streamControlTimeout) || ackByte[0] != rxLFSR {
				return protocol.ErrTimeout
			}
			rxLFSR = protocol.NextLFSR(rxLFSR)
			credits++
		}

		if credits > 0 {
			data, err := cb()
			if err != nil {
				return err
			}
			headerPayload := make([]byte, 4)
			binary.LittleEndian.PutUint32(headerPayload, uint32(len(data)))
			header := protocol.EncodeControlFrame(protocol.StreamDataMagic, headerPayload)
			if !t.PutBytes(ctx, header, streamControlTimeout) {
				return protocol.ErrTimeout
			}
			if !t.PutBytes(ctx, data, writeTimeout) {
				return protocol.ErrTimeout
			}
			credits--
		}
	}
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
