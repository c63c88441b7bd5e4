// Package mqttbridge tunnels transport.Transport over a pair of MQTT
// request/response topics, for a gateway process relaying RPC calls
// to a microcontroller across a cloud broker instead of a direct
// wire. Grounded on robotalks-robo.go's pkg/l1/comm/mqtt: one
// paho.mqtt.golang client, a publish topic and a subscribe topic, and
// a mutex-guarded buffer feeding inbound payloads to the reader side - the same
// shape as that package's ReadWriter.ReadPacket/WritePacket, adapted
// from whole-packet semantics to this protocol's raw byte stream.
package mqttbridge

import (
	"context"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Config describes the broker connection and topic pair a Bridge
// uses. PubTopic carries bytes this side sends; SubTopic carries
// bytes the peer sends.
type Config struct {
	BrokerURL string
	ClientID  string
	PubTopic  string
	SubTopic  string
	QoS       byte
}

// Bridge is a transport.Transport tunnelled over MQTT. It is full
// duplex from the protocol's point of view: message delivery order is
// preserved per topic, so the usual stream-writer credit ceiling
// applies.
type Bridge struct {
	client paho.Client
	cfg    Config

	mu  sync.Mutex
	buf []byte
}

// Dial connects to the broker described by cfg and subscribes to
// cfg.SubTopic, returning a ready Bridge.
func Dial(cfg Config) (*Bridge, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true)

	b := &Bridge{cfg: cfg}
	b.client = paho.NewClient(opts)
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	token := b.client.Subscribe(cfg.SubTopic, cfg.QoS, b.onMessage)
	if token.Wait(); token.Error() != nil {
		b.client.Disconnect(0)
		return nil, token.Error()
	}
	return b, nil
}

// Close unsubscribes and disconnects the underlying MQTT client.
func (b *Bridge) Close() error {
	b.client.Unsubscribe(b.cfg.SubTopic)
	b.client.Disconnect(250)
	return nil
}

func (b *Bridge) onMessage(_ paho.Client, msg paho.Message) {
	b.mu.Lock()
	b.buf = append(b.buf, msg.Payload()...)
	b.mu.Unlock()
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

// PutBytes publishes data as a single message on PubTopic.
func (b *Bridge) PutBytes(ctx context.Context, data []byte, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	token := b.client.Publish(b.cfg.PubTopic, b.cfg.QoS, false, data)
	return token.WaitTimeout(timeout) && token.Error() == nil
}

// Flush discards any bytes buffered from inbound messages that have
// not yet been consumed.
func (b *Bridge) Flush() {
	b.mu.Lock()
	b.buf = b.buf[:0]
	b.mu.Unlock()
}

// WriterQueueDepthMax is the full-duplex default: the broker
// preserves per-topic ordering, so a stream writer can keep a deep
// credit window outstanding.
func (b *Bridge) WriterQueueDepthMax() int { return 255 }
