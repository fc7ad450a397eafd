package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_RoundTrip(t *testing.T) {
	f := frame{
		Type: frameEmit,
		GPIO: 17,
		// Includes every reserved byte.
		Body: []byte{0x00, frameFlagByte, frameEscapeByte, frameXON, frameXOFF, frameCancelByte, frameSubstitute, 0xFF},
	}

	wire := encodeFrame(f)
	require.Equal(t, byte(frameFlagByte), wire[len(wire)-1])
	for _, b := range wire[:len(wire)-1] {
		assert.False(t, b == frameFlagByte, "unescaped flag byte inside frame")
	}

	got, err := decodeFrame(wire[:len(wire)-1])
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestFrame_CRCMismatch(t *testing.T) {
	wire := encodeFrame(frame{Type: frameAck, GPIO: 17})
	wire[0] ^= 0x01

	_, err := decodeFrame(wire[:len(wire)-1])
	assert.ErrorIs(t, err, errFrameCRC)
}

func TestFrame_Short(t *testing.T) {
	_, err := decodeFrame([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, errFrameShort)
}

func TestPulses_RoundTrip(t *testing.T) {
	pulses := []int{9000, 4500, 560, 1690, 1, 127, 128, 65535}
	got, err := decodePulses(encodePulses(pulses))
	require.NoError(t, err)
	assert.Equal(t, pulses, got)
}

func TestPulses_Malformed(t *testing.T) {
	_, err := decodePulses([]byte{0x80})
	assert.ErrorIs(t, err, ErrBridge)
}

func TestCRC_KnownValue(t *testing.T) {
	// CRC-16/CCITT-FALSE check value.
	assert.Equal(t, uint16(0x29B1), crcCCITT([]byte("123456789")))
}
