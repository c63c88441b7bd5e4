package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashMatchesByteVariant(t *testing.T) {
	names := []string{"", "ping", "get_frame_buffer", "set_lcd_display"}
	for _, name := range names {
		assert.Equal(t, Hash(name), HashBytes([]byte(name)), "name %q", name)
	}
}

func TestHashStopsAtNUL(t *testing.T) {
	withTrailingNUL := append([]byte("ping"), 0x00, 'x', 'x')
	assert.Equal(t, Hash("ping"), HashBytes(withTrailingNUL))
}

func TestHashDjb2Seed(t *testing.T) {
	// A single character hashes to ((5381<<5)+5381) ^ c.
	c := byte('a')
	want := uint32(5381<<5+5381) ^ uint32(c)
	assert.Equal(t, want, Hash("a"))
}

func TestHashDistinctNamesDiffer(t *testing.T) {
	assert.NotEqual(t, Hash("move_forward"), Hash("move_backward"))
}
