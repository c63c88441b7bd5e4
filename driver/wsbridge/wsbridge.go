// Package wsbridge tunnels transport.Transport over a gorilla/websocket
// connection, for a browser-facing debug console talking to the
// simulator. Grounded on dbehnke-dmr-nexus/pkg/web's WebSocketHub: a
// reader goroutine that drains inbound frames and a writer side that
// sends binary messages, simplified from that hub's many-client
// broadcast model down to the single peer-to-peer connection this
// protocol needs.
package wsbridge

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Bridge is a transport.Transport tunnelled over one WebSocket
// connection. Each PutBytes call sends one binary message; GetBytes
// drains bytes accumulated from inbound messages by the background
// reader goroutine.
type Bridge struct {
	conn *websocket.Conn

	mu     sync.Mutex
	buf    []byte
	closed bool
}

// New wraps an already-established *websocket.Conn (either side of
// the handshake; the protocol's byte contract is symmetric) and
// starts its background reader.
func New(conn *websocket.Conn) *Bridge {
	b := &Bridge{conn: conn}
	go b.readLoop()
	return b
}

func (b *Bridge) readLoop() {
	for {
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			b.mu.Lock()
			b.closed = true
			b.mu.Unlock()
			return
		}
		b.mu.Lock()
		b.buf = append(b.buf, data...)
		b.mu.Unlock()
	}
}

// GetBytes drains bytes accumulated from inbound messages until
// len(buf) is satisfied or timeout elapses.
func (b *Bridge) GetBytes(ctx context.Context, buf []byte, timeout time.Duration) bool {
	for i := range buf {
		buf[i] = 0
	}
	deadline := time.Now().Add(timeout)
	n := 0
	for n < len(buf) {
		if ctx.Err() != nil {
			return false
		}
		b.mu.Lock()
		if b.closed && len(b.buf) == 0 {
			b.mu.Unlock()
			return false
		}
		avail := len(b.buf)
		if avail > 0 {
			take := len(buf) - n
			if take > avail {
				take = avail
			}
			copy(buf[n:n+take], b.buf[:take])
			b.buf = b.buf[take:]
			n += take
		}
		b.mu.Unlock()
		if n == len(buf) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	return true
}

// PutBytes sends data as a single binary WebSocket message.
func (b *Bridge) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	_ = b.conn.SetWriteDeadline(time.Now().Add(timeout))
	return b.conn.WriteMessage(websocket.BinaryMessage, data) == nil
}

// Flush discards any bytes buffered from inbound messages that have
// not yet been consumed.
func (b *Bridge) Flush() {
	b.mu.Lock()
	b.buf = b.buf[:0]
	b.mu.Unlock()
}

// WriterQueueDepthMax is the full-duplex default: TCP under the
// WebSocket preserves message order, so a stream writer can keep a
// deep credit window outstanding.
func (b *Bridge) WriterQueueDepthMax() int { return 255 }

// Close closes the underlying connection.
func (b *Bridge) Close() error {
	return b.conn.Close()
}
