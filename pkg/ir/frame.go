package ir

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Bridge framing: payload = type | gpio | body, followed by a big-endian
// CRC-CCITT of the payload. The result is byte-stuffed and terminated by a
// flag byte.
const (
	frameFlagByte   = 0x7E
	frameEscapeByte = 0x7D
	frameXON        = 0x11
	frameXOFF       = 0x13
	frameFlipBit    = 0x20
	frameCancelByte = 0x1A
	frameSubstitute = 0x18

	frameMaxLen = 4096
)

// Frame types. Requests have bit 7 clear, responses have it set.
const (
	frameEmit     byte = 0x01
	frameCapture  byte = 0x02
	frameAck      byte = 0x81
	frameCaptured byte = 0x82
	frameTimeout  byte = 0x83
	frameError    byte = 0xC2
)

var (
	errFrameShort = errors.New("frame too short")
	errFrameCRC   = errors.New("frame crc mismatch")
)

type frame struct {
	Type byte
	GPIO byte
	Body []byte
}

// encodeFrame builds a complete on-wire frame including the trailing flag.
func encodeFrame(f frame) []byte {
	raw := make([]byte, 0, len(f.Body)+4)
	raw = append(raw, f.Type, f.GPIO)
	raw = append(raw, f.Body...)
	crc := crcCCITT(raw)
	raw = append(raw, byte(crc>>8), byte(crc&0xFF))

	out := stuff(raw)
	return append(out, frameFlagByte)
}

// decodeFrame parses stuffed bytes collected between two flag bytes.
func decodeFrame(stuffed []byte) (frame, error) {
	raw := unstuff(stuffed)
	if len(raw) < 4 {
		return frame{}, errFrameShort
	}

	payload := raw[:len(raw)-2]
	received := uint16(raw[len(raw)-2])<<8 | uint16(raw[len(raw)-1])
	if computed := crcCCITT(payload); received != computed {
		return frame{}, fmt.Errorf("%w: received %04x computed %04x", errFrameCRC, received, computed)
	}

	return frame{Type: payload[0], GPIO: payload[1], Body: payload[2:]}, nil
}

// encodePulses packs pulse widths as unsigned varints.
func encodePulses(pulses []int) []byte {
	out := make([]byte, 0, len(pulses)*2)
	for _, p := range pulses {
		out = binary.AppendUvarint(out, uint64(p))
	}
	return out
}

func decodePulses(body []byte) ([]int, error) {
	var pulses []int
	for len(body) > 0 {
		v, n := binary.Uvarint(body)
		if n <= 0 {
			return nil, fmt.Errorf("%w: malformed pulse varint", ErrBridge)
		}
		pulses = append(pulses, int(v))
		body = body[n:]
	}
	return pulses, nil
}

func needsEscape(b byte) bool {
	switch b {
	case frameFlagByte, frameEscapeByte, frameXON, frameXOFF, frameSubstitute, frameCancelByte:
		return true
	}
	return false
}

// stuff escapes reserved bytes.
func stuff(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		if needsEscape(b) {
			out = append(out, frameEscapeByte, b^frameFlipBit)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// unstuff reverses stuff.
func unstuff(data []byte) []byte {
	out := make([]byte, 0, len(data))
	escaped := false
	for _, b := range data {
		if escaped {
			out = append(out, b^frameFlipBit)
			escaped = false
		} else if b == frameEscapeByte {
			escaped = true
		} else {
			out = append(out, b)
		}
	}
	return out
}

// crcCCITT computes CRC-CCITT (0xFFFF initial, poly 0x1021).
func crcCCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
