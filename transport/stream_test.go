package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/ejosue98/mvrpc/driver/mem"
	"github.com/ejosue98/mvrpc/transport"
	"github.com/stretchr/testify/assert"
)

func TestStreamReaderWriterFullDuplex(t *testing.T) {
	readerEnd, writerEnd := mem.NewFullDuplexPair()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	idx := 0
	writerErrCh := make(chan error, 1)
	go func() {
		writerErrCh <- transport.StreamWriter(ctx, writerEnd, 200*time.Millisecond, func() ([]byte, error) {
			c := chunks[idx%len(chunks)]
			idx++
			return c, nil
		})
	}()

	readBuff := make([]byte, 64)
	received := make(chan []byte, len(chunks))
	go func() {
		_ = transport.StreamReader(ctx, readerEnd, readBuff, 4, 200*time.Millisecond, func(chunk []byte) {
			out := append([]byte(nil), chunk...)
			select {
			case received <- out:
			default:
			}
		})
	}()

	for i := 0; i < len(chunks); i++ {
		select {
		case got := <-received:
			assert.Equal(t, chunks[i%len(chunks)], got)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for chunk %d", i)
		}
	}
}

func TestStreamWriterClampsQueueDepthOnHalfDuplex(t *testing.T) {
	readerEnd, writerEnd := mem.NewHalfDuplexPair()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sent := make(chan struct{}, 8)
	go func() {
		_ = transport.StreamWriter(ctx, writerEnd, 200*time.Millisecond, func() ([]byte, error) {
			sent <- struct{}{}
			return []byte("x"), nil
		})
	}()

	readBuff := make([]byte, 16)
	go func() {
		_ = transport.StreamReader(ctx, readerEnd, readBuff, 255, 200*time.Millisecond, nil)
	}()

	assert.Eventually(t, func() bool {
		select {
		case <-sent:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond, "writer never produced a chunk")
}
