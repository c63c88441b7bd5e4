package transport

import (
	"time"

	"github.com/ejosue98/mvrpc/protocol"
)

// attemptTimeouts tracks the pair of adaptive inner timeouts (one for
// writes, one for reads) used across the attempts of a single call or
// loop iteration. Master growth is geometric (x1.5 per failed
// attempt); Slave growth is additive (+1ms per failed attempt) - both
// capped at the phase's total budget so neither side ever blocks
// longer than the caller asked for.
type attemptTimeouts struct {
	putShort  time.Duration
	getShort  time.Duration
	total     time.Duration
	geometric bool
}

func newAttemptTimeouts(total time.Duration, geometric bool) *attemptTimeouts {
	return &attemptTimeouts{
		putShort:  minDuration(protocol.DefaultShortTimeout, total),
		getShort:  minDuration(protocol.DefaultShortTimeout, total),
		total:     total,
		geometric: geometric,
	}
}

// grow advances both inner timeouts after a failed attempt, avoiding
// the livelock of retrying forever at the same (possibly too-short)
// timeout.
func (a *attemptTimeouts) grow() {
	if a.geometric {
		a.putShort = minDuration(a.putShort*3/2, a.total)
		a.getShort = minDuration(a.getShort*3/2, a.total)
	} else {
		a.putShort = minDuration(a.putShort+time.Millisecond, a.total)
		a.getShort = minDuration(a.getShort+time.Millisecond, a.total)
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
