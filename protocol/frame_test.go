package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		magic   uint16
		payload []byte
	}{
		{name: "empty ack", magic: CommandHeaderMagic, payload: nil},
		{name: "command header", magic: CommandHeaderMagic, payload: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{name: "result header", magic: ResultHeaderMagic, payload: []byte{0xAA, 0xBB, 0xCC, 0xDD}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := EncodeControlFrame(tt.magic, tt.payload)
			payload, err := DecodeControlFrame(frame, tt.magic)
			require.NoError(t, err)
			assert.Equal(t, len(tt.payload), len(payload))
			for i := range tt.payload {
				assert.Equal(t, tt.payload[i], payload[i])
			}
		})
	}
}

func TestDecodeControlFrameMagicMismatch(t *testing.T) {
	frame := EncodeControlFrame(CommandHeaderMagic, []byte{1, 2})
	_, err := DecodeControlFrame(frame, ResultHeaderMagic)
	assert.ErrorIs(t, err, ErrMagicMismatch)
}

func TestDecodeControlFrameCRCMismatch(t *testing.T) {
	frame := EncodeControlFrame(CommandHeaderMagic, []byte{1, 2, 3, 4})
	frame[2] ^= 0xFF
	_, err := DecodeControlFrame(frame, CommandHeaderMagic)
	assert.ErrorIs(t, err, ErrCRCMismatch)
}

func TestDecodeControlFrameTooShort(t *testing.T) {
	_, err := DecodeControlFrame([]byte{0x01}, CommandHeaderMagic)
	assert.ErrorIs(t, err, ErrSizeExceeded)
}

func TestSetFrameSharesScratchBuffer(t *testing.T) {
	scratch := make([]byte, 8)
	payload := []byte{1, 2, 3, 4}
	SetFrame(scratch, StreamDataMagic, payload)
	decoded, err := DecodeControlFrame(scratch, StreamDataMagic)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestAllEqual(t *testing.T) {
	assert.True(t, AllEqual([]byte{0xFF, 0xFF, 0xFF}))
	assert.False(t, AllEqual([]byte{0xFF, 0xFE, 0xFF}))
	assert.False(t, AllEqual(nil))
	assert.True(t, AllEqual([]byte{0x01}))
}
