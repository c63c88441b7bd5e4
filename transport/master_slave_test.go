package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/ejosue98/mvrpc/driver/mem"
	"github.com/ejosue98/mvrpc/protocol"
	"github.com/ejosue98/mvrpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPair(t *testing.T) (*transport.Master, *transport.Slave, context.Context, context.CancelFunc) {
	t.Helper()
	masterEnd, slaveEnd := mem.NewFullDuplexPair()
	master := transport.NewMaster(masterEnd, 256)
	slave := transport.NewSlave(slaveEnd, 256, 8)
	ctx, cancel := context.WithCancel(context.Background())
	return master, slave, ctx, cancel
}

func TestCallRoundTrip(t *testing.T) {
	master, slave, ctx, cancel := newPair(t)
	defer cancel()

	require.NoError(t, slave.RegisterCallback("echo", func(req []byte) ([]byte, error) {
		out := append([]byte(nil), req...)
		return out, nil
	}))

	go slave.Loop(ctx, 200*time.Millisecond, 200*time.Millisecond)

	resp, err := master.Call(ctx, "echo", []byte("hello"), 200*time.Millisecond, 200*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), resp)
}

func TestCallUnregisteredNameReturnsEmptyResult(t *testing.T) {
	master, slave, ctx, cancel := newPair(t)
	defer cancel()

	go slave.Loop(ctx, 200*time.Millisecond, 200*time.Millisecond)

	resp, err := master.Call(ctx, "missing", nil, 200*time.Millisecond, 200*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestCallFailOnEmptyResult(t *testing.T) {
	master, slave, ctx, cancel := newPair(t)
	defer cancel()

	require.NoError(t, slave.RegisterCallback("empty", func(req []byte) ([]byte, error) {
		return nil, nil
	}))
	go slave.Loop(ctx, 200*time.Millisecond, 200*time.Millisecond)

	_, err := master.Call(ctx, "empty", nil, 200*time.Millisecond, 200*time.Millisecond, transport.WithFailOnEmptyResult())
	assert.ErrorIs(t, err, protocol.ErrTimeout)
}

func TestCallRequestExceedingScratchBufferFailsFast(t *testing.T) {
	masterEnd, _ := mem.NewFullDuplexPair()
	master := transport.NewMaster(masterEnd, 16)
	ctx := context.Background()

	start := time.Now()
	_, err := master.Call(ctx, "echo", make([]byte, 32), 200*time.Millisecond, 200*time.Millisecond)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, protocol.ErrSizeExceeded)
	assert.Less(t, elapsed, 50*time.Millisecond)
}

func TestCallTimeoutWithoutSlave(t *testing.T) {
	masterEnd, _ := mem.NewFullDuplexPair()
	master := transport.NewMaster(masterEnd, 256)
	ctx := context.Background()

	start := time.Now()
	budget := 40 * time.Millisecond
	_, err := master.Call(ctx, "anything", nil, budget, budget)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, protocol.ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, budget)
	assert.LessOrEqual(t, elapsed, 3*budget+50*time.Millisecond)
}

func TestRegisterCallbackUpdatesInPlace(t *testing.T) {
	_, slave, _, cancel := newPair(t)
	defer cancel()

	require.NoError(t, slave.RegisterCallback("greet", func([]byte) ([]byte, error) { return []byte("v1"), nil }))
	require.NoError(t, slave.RegisterCallback("greet", func([]byte) ([]byte, error) { return []byte("v2"), nil }))

	// The second "greet" did not take a new slot: seven more names still
	// fit in the capacity-8 registry.
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		require.NoError(t, slave.RegisterCallback(n, func([]byte) ([]byte, error) { return nil, nil }))
	}
}

func TestRegistryFullAfterCapacity(t *testing.T) {
	_, slave, _, cancel := newPair(t)
	defer cancel()

	noop := func([]byte) ([]byte, error) { return nil, nil }
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, n := range names {
		require.NoError(t, slave.RegisterCallback(n, noop))
	}
	assert.ErrorIs(t, slave.RegisterCallback("overflow", noop), protocol.ErrRegistryFull)
}

func TestScheduleCallbackFiresOnceAfterSuccess(t *testing.T) {
	master, slave, ctx, cancel := newPair(t)
	defer cancel()

	fired := make(chan struct{}, 1)
	require.NoError(t, slave.RegisterCallback("arm", func([]byte) ([]byte, error) {
		slave.ScheduleCallback(func() { fired <- struct{}{} })
		return []byte("ok"), nil
	}))
	go slave.Loop(ctx, 200*time.Millisecond, 200*time.Millisecond)

	_, err := master.Call(ctx, "arm", nil, 200*time.Millisecond, 200*time.Millisecond)
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback never fired")
	}

	_, err = master.Call(ctx, "arm", nil, 200*time.Millisecond, 200*time.Millisecond)
	require.NoError(t, err)
	select {
	case <-fired:
		t.Fatal("scheduled callback fired twice from one arm")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoopCallbackFiresEveryIteration(t *testing.T) {
	_, slave, ctx, cancel := newPair(t)
	defer cancel()

	count := 0
	done := make(chan struct{})
	slave.SetupLoopCallback(func() {
		count++
		if count >= 3 {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})

	go slave.Loop(ctx, 10*time.Millisecond, 10*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop callback did not fire enough times")
	}
}

func TestLoopReturnsPromptlyOnCancel(t *testing.T) {
	_, slave, ctx, cancel := newPair(t)

	stopped := make(chan struct{})
	go func() {
		slave.Loop(ctx, 5*time.Second, 5*time.Second)
		close(stopped)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Loop did not return after context cancellation")
	}
}

func TestCallSizeExceedsScratchBuffer(t *testing.T) {
	masterEnd, _ := mem.NewFullDuplexPair()
	master := transport.NewMaster(masterEnd, 8)
	_, err := master.Call(context.Background(), "x", make([]byte, 32), 20*time.Millisecond, 20*time.Millisecond)
	assert.Error(t, err)
}
