package spi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	reply    []byte
	lastSent []byte
}

func (b *fakeBus) Tx(w, r []byte) error {
	b.lastSent = append([]byte(nil), w...)
	copy(r, b.reply)
	return nil
}

type fakeCS struct {
	lowCount, highCount int
}

func (c *fakeCS) Low()  { c.lowCount++ }
func (c *fakeCS) High() { c.highCount++ }

func TestGetBytesBracketsChipSelect(t *testing.T) {
	bus := &fakeBus{reply: []byte{1, 2, 3, 4}}
	cs := &fakeCS{}
	d := New(bus, cs)

	buf := make([]byte, 4)
	require.True(t, d.GetBytes(context.Background(), buf, 5*time.Millisecond))
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
	assert.Equal(t, 1, cs.lowCount)
	assert.Equal(t, 1, cs.highCount)
}

func TestGetBytesRejectsAllEqualReply(t *testing.T) {
	bus := &fakeBus{reply: []byte{0xFF, 0xFF, 0xFF, 0xFF}}
	d := New(bus, &fakeCS{})
	buf := make([]byte, 4)
	assert.False(t, d.GetBytes(context.Background(), buf, 5*time.Millisecond))
}

func TestPutBytesDoesNotMutateCallerData(t *testing.T) {
	bus := &fakeBus{reply: []byte{9, 9, 9}}
	d := New(bus, &fakeCS{})
	data := []byte{1, 2, 3}
	require.True(t, d.PutBytes(context.Background(), data, 5*time.Millisecond))
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, []byte{1, 2, 3}, bus.lastSent)
}

func TestWriterQueueDepthMaxIsOne(t *testing.T) {
	assert.Equal(t, 1, New(&fakeBus{}, &fakeCS{}).WriterQueueDepthMax())
}
