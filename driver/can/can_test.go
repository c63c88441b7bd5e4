package can

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	frames [][]byte
}

func (b *fakeBus) Send(messageID uint32, data []byte) bool {
	b.frames = append(b.frames, append([]byte(nil), data...))
	return true
}

func (b *fakeBus) Receive(messageID uint32) ([]byte, bool) {
	if len(b.frames) == 0 {
		return nil, false
	}
	f := b.frames[0]
	b.frames = b.frames[1:]
	return f, true
}

func TestPutBytesChunksAtEight(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0x100)
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	require.True(t, d.PutBytes(context.Background(), data, 100*time.Millisecond))
	require.Len(t, bus.frames, 3)
	assert.Len(t, bus.frames[0], 8)
	assert.Len(t, bus.frames[1], 8)
	assert.Len(t, bus.frames[2], 4)
}

func TestGetBytesReassemblesFrames(t *testing.T) {
	bus := &fakeBus{frames: [][]byte{{1, 2, 3}, {4, 5}}}
	d := New(bus, 0x100)
	buf := make([]byte, 5)
	require.True(t, d.GetBytes(context.Background(), buf, 100*time.Millisecond))
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, buf)
}

func TestGetBytesTimesOutWhenStarved(t *testing.T) {
	d := New(&fakeBus{}, 0x100)
	buf := make([]byte, 4)
	assert.False(t, d.GetBytes(context.Background(), buf, 5*time.Millisecond))
}

func TestFlushDrainsQueuedFrames(t *testing.T) {
	bus := &fakeBus{frames: [][]byte{{1}, {2}, {3}}}
	d := New(bus, 0x100)
	d.Flush()
	assert.Empty(t, bus.frames)
}

func TestWriterQueueDepthMaxIsFullDuplexDefault(t *testing.T) {
	assert.Equal(t, 255, New(&fakeBus{}, 0x100).WriterQueueDepthMax())
}
