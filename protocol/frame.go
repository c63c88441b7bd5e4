package protocol

import "encoding/binary"

// SetFrame writes a control frame into buf in place: magic(2) ||
// data || crc(2), little-endian throughout. buf must have length
// len(data)+4; this mirrors the source library writing directly into
// a caller-owned scratch buffer instead of allocating.
func SetFrame(buf []byte, magic uint16, data []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], magic)
	if len(data) > 0 {
		copy(buf[2:2+len(data)], data)
	}
	crc := CRC16(buf[:2+len(data)])
	binary.LittleEndian.PutUint16(buf[2+len(data):4+len(data)], crc)
}

// GetFrame validates a control frame already sitting in buf: checks
// that buf carries the expected magic and a matching trailing CRC.
// buf's full length (magic+payload+crc) is taken as given; the
// payload is buf[2 : len(buf)-2].
func GetFrame(buf []byte, expectedMagic uint16) error {
	if len(buf) < MagicSize+CRCSize {
		return ErrSizeExceeded
	}
	magic := binary.LittleEndian.Uint16(buf[0:2])
	crc := binary.LittleEndian.Uint16(buf[len(buf)-2:])
	if magic != expectedMagic {
		return ErrMagicMismatch
	}
	if crc != CRC16(buf[:len(buf)-2]) {
		return ErrCRCMismatch
	}
	return nil
}

// EncodeControlFrame allocates and returns a full control frame for
// magic over payload. Used for the small fixed-size frames (headers,
// acks, stream setup) that do not need to share the scratch buffer.
func EncodeControlFrame(magic uint16, payload []byte) []byte {
	buf := make([]byte, MagicSize+len(payload)+CRCSize)
	SetFrame(buf, magic, payload)
	return buf
}

// DecodeControlFrame validates buf against expectedMagic and, on
// success, returns its payload (the bytes between the magic and the
// trailing CRC).
func DecodeControlFrame(buf []byte, expectedMagic uint16) ([]byte, error) {
	if err := GetFrame(buf, expectedMagic); err != nil {
		return nil, err
	}
	return buf[2 : len(buf)-2], nil
}

// AllEqual reports whether every byte in data is identical. Half-duplex
// transports (I2C, SPI) use this to reject frames that merely captured
// the bus's idle level rather than a real reply - a run of identical
// bytes can pass the magic/CRC check by chance far too often to trust.
func AllEqual(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	first := data[0]
	for _, b := range data[1:] {
		if b != first {
			return false
		}
	}
	return true
}
