package ir

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLink plays the bridge firmware: every written request frame is handed
// to respond and the returned frames are queued for reading.
type fakeLink struct {
	mu       sync.Mutex
	requests []frame
	pending  []byte
	respond  func(req frame) []frame
	writeErr error
	closed   bool
}

func (l *fakeLink) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeErr != nil {
		return 0, l.writeErr
	}
	req, err := decodeFrame(data[:len(data)-1])
	if err != nil {
		return 0, err
	}
	l.requests = append(l.requests, req)
	if l.respond != nil {
		for _, resp := range l.respond(req) {
			l.pending = append(l.pending, encodeFrame(resp)...)
		}
	}
	return len(data), nil
}

func (l *fakeLink) ReadByte() (byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		return 0, errReadTimeout
	}
	b := l.pending[0]
	l.pending = l.pending[1:]
	return b, nil
}

func (l *fakeLink) Close() error {
	l.closed = true
	return nil
}

func TestSerialEmit_Ack(t *testing.T) {
	l := &fakeLink{respond: func(req frame) []frame {
		return []frame{{Type: frameAck, GPIO: req.GPIO}}
	}}
	tr := newSerialTransceiver(l, Config{EmitterGPIO: 22})

	err := tr.Emit(context.Background(), Command{Name: "power", Pulses: []int{9000, 4500, 560}})
	require.NoError(t, err)

	require.Len(t, l.requests, 1)
	assert.Equal(t, frameEmit, l.requests[0].Type)
	assert.Equal(t, byte(22), l.requests[0].GPIO)
	pulses, err := decodePulses(l.requests[0].Body)
	require.NoError(t, err)
	assert.Equal(t, []int{9000, 4500, 560}, pulses)
}

func TestSerialEmit_SkipsNoiseAndRequests(t *testing.T) {
	l := &fakeLink{respond: func(req frame) []frame {
		// An echoed request and then the real answer.
		return []frame{req, {Type: frameAck}}
	}}
	l.pending = []byte{0x42, 0x43, frameCancelByte}
	tr := newSerialTransceiver(l, Config{})

	require.NoError(t, tr.Emit(context.Background(), Command{Pulses: []int{1}}))
}

func TestSerialEmit_BridgeError(t *testing.T) {
	l := &fakeLink{respond: func(req frame) []frame {
		return []frame{{Type: frameError, Body: []byte("led fault")}}
	}}
	tr := newSerialTransceiver(l, Config{})

	err := tr.Emit(context.Background(), Command{Pulses: []int{1}})
	assert.ErrorIs(t, err, ErrBridge)
	assert.Contains(t, err.Error(), "led fault")
	assert.True(t, tr.IsConnected())
}

func TestSerialEmit_RejectsEmptyCommand(t *testing.T) {
	l := &fakeLink{}
	tr := newSerialTransceiver(l, Config{})

	assert.ErrorIs(t, tr.Emit(context.Background(), Command{Name: "x"}), ErrEmptyCommand)
	assert.Empty(t, l.requests)
}

func TestSerialEmit_WriteFailureDisconnects(t *testing.T) {
	l := &fakeLink{writeErr: errors.New("device unplugged")}
	tr := newSerialTransceiver(l, Config{})

	err := tr.Emit(context.Background(), Command{Pulses: []int{1}})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, tr.IsConnected())

	assert.ErrorIs(t, tr.Emit(context.Background(), Command{Pulses: []int{1}}), ErrNotConnected)
}

func TestSerialEmit_ContextCancelled(t *testing.T) {
	l := &fakeLink{}
	tr := newSerialTransceiver(l, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Emit(ctx, Command{Pulses: []int{1}}), context.Canceled)
}

func TestSerialCapture(t *testing.T) {
	l := &fakeLink{respond: func(req frame) []frame {
		return []frame{{Type: frameCaptured, GPIO: req.GPIO, Body: encodePulses([]int{9010, 4490, 560, 570})}}
	}}
	tr := newSerialTransceiver(l, Config{ReceiverGPIO: 23})

	cmd, err := tr.Capture(context.Background(), "volume.up")
	require.NoError(t, err)
	assert.Equal(t, "volume.up", cmd.Name)
	assert.Equal(t, []int{9010, 4490, 565, 565}, cmd.Pulses)

	require.Len(t, l.requests, 1)
	assert.Equal(t, frameCapture, l.requests[0].Type)
	assert.Equal(t, byte(23), l.requests[0].GPIO)
	assert.Equal(t, uint32(DefaultCaptureTimeout.Milliseconds()), binary.BigEndian.Uint32(l.requests[0].Body))
}

func TestSerialCapture_ConfiguredTolerance(t *testing.T) {
	l := &fakeLink{respond: func(req frame) []frame {
		return []frame{{Type: frameCaptured, Body: encodePulses([]int{560, 650, 560, 650})}}
	}}

	tight := newSerialTransceiver(l, Config{Tolerance: 0.05})
	cmd, err := tight.Capture(context.Background(), "fan.next")
	require.NoError(t, err)
	assert.Equal(t, []int{560, 650, 560, 650}, cmd.Pulses)

	loose := newSerialTransceiver(l, Config{})
	cmd, err = loose.Capture(context.Background(), "fan.next")
	require.NoError(t, err)
	assert.Equal(t, []int{605, 605, 605, 605}, cmd.Pulses)
}

func TestNewSerialTransceiver_GPIOOutOfRange(t *testing.T) {
	for _, cfg := range []Config{
		{Port: "/dev/null", EmitterGPIO: MaxGPIO + 1},
		{Port: "/dev/null", ReceiverGPIO: -1},
	} {
		_, err := NewSerialTransceiver(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gpio pin")
	}
}

func TestSerialCapture_Timeout(t *testing.T) {
	l := &fakeLink{respond: func(req frame) []frame {
		return []frame{{Type: frameTimeout}}
	}}
	tr := newSerialTransceiver(l, Config{})

	_, err := tr.Capture(context.Background(), "power.on")
	assert.ErrorIs(t, err, ErrCaptureTimeout)
}

func TestSerialClose(t *testing.T) {
	l := &fakeLink{}
	tr := newSerialTransceiver(l, Config{})

	require.NoError(t, tr.Close())
	assert.True(t, l.closed)
	assert.False(t, tr.IsConnected())
	_, err := tr.Capture(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestNullTransceiver(t *testing.T) {
	tr := NewNullTransceiver()
	assert.False(t, tr.IsConnected())
	assert.ErrorIs(t, tr.Emit(context.Background(), Command{Pulses: []int{1}}), ErrNotConnected)
	_, err := tr.Capture(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, tr.Close())
}
