// Package protocol implements the wire format shared by the master and
// slave halves of an RPC session: magic values, the CRC-16 checksum,
// the callback name hash, and the small control frames exchanged during
// the four-phase call handshake. All higher layers depend on this
// package; nothing in here depends on a concrete transport.
package protocol

import "time"

// Magic values identifying each phase of the call handshake. All are
// sent little-endian. Master and slave use the same magic on request
// and on ack for a given phase - the direction is implied by who is
// expected to speak next, not by a distinct value.
const (
	CommandHeaderMagic     uint16 = 0x1209
	CommandDataMagic       uint16 = 0x8ADE
	ResultHeaderMagic      uint16 = 0x6CEB
	ResultDataMagic        uint16 = 0xF1A5
	StreamWriterSetupMagic uint16 = 0xEDF6
	StreamDataMagic        uint16 = 0x542E
)

// Control frame sizing. A control frame is magic(2) || payload || crc(2).
const (
	MagicSize = 2
	CRCSize   = 2

	// Command header carries a 32-bit name hash and a 32-bit payload
	// length.
	CommandHeaderPayloadSize = 8
	CommandHeaderFrameSize   = MagicSize + CommandHeaderPayloadSize + CRCSize

	// Result header carries a 32-bit result length.
	ResultHeaderPayloadSize = 4
	ResultHeaderFrameSize   = MagicSize + ResultHeaderPayloadSize + CRCSize

	// Acks on the data phases carry no payload.
	AckFrameSize = MagicSize + CRCSize

	// Stream setup carries a 32-bit queue depth request.
	StreamSetupPayloadSize = 4
	StreamSetupFrameSize   = MagicSize + StreamSetupPayloadSize + CRCSize

	// Stream data header carries a 32-bit chunk length; the chunk
	// itself follows as a second, separately-timed transfer.
	StreamDataHeaderPayloadSize = 4
	StreamDataHeaderFrameSize   = MagicSize + StreamDataHeaderPayloadSize + CRCSize
)

// Default adaptive-timeout parameters, applied when a Master or Slave
// is constructed without explicit overrides.
const (
	DefaultShortTimeout = 2 * time.Millisecond
	DefaultLongTimeout  = 1000 * time.Millisecond
)

// DefaultStreamWriterQueueDepthMax is the ceiling applied to a stream
// reader's requested queue depth on full-duplex transports. The
// half-duplex drivers (driver/i2c, driver/spi) report 1 instead.
const DefaultStreamWriterQueueDepthMax = 255

// LFSRInitState is the starting value of the 8-bit LFSR used to
// acknowledge stream data chunks.
const LFSRInitState byte = 255
