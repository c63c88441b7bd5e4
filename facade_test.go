package mvrpc

import (
	"context"
	"testing"
	"time"

	"github.com/ejosue98/mvrpc/driver/mem"
	"github.com/ejosue98/mvrpc/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacadeRoundTrip(t *testing.T) {
	masterEnd, slaveEnd := mem.NewFullDuplexPair()
	master := NewMaster(masterEnd, 256)
	slave := NewSlave(slaveEnd, 256, 4)

	require.NoError(t, slave.RegisterCallback("echo", func(req []byte) ([]byte, error) {
		return append([]byte(nil), req...), nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go slave.Loop(ctx, 100*time.Millisecond, 100*time.Millisecond)

	resp, err := master.Call(ctx, "echo", []byte("hi"), 100*time.Millisecond, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), resp)
}

func TestFacadeHashMatchesProtocol(t *testing.T) {
	assert.Equal(t, protocol.Hash("echo"), Hash("echo"))
	assert.NotEqual(t, Hash("echo"), Hash("ping"))
}
