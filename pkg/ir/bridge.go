package ir

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// emitTimeout bounds how long the bridge may take to acknowledge an emission.
const emitTimeout = 2 * time.Second

// link is the byte transport under a SerialTransceiver.
type link interface {
	Write(data []byte) (int, error)
	ReadByte() (byte, error)
	Close() error
}

// SerialTransceiver drives a UART-attached IR bridge. Each call writes one
// request frame and waits for the matching response; calls are serialised.
type SerialTransceiver struct {
	link link
	cfg  Config

	mu        sync.Mutex
	connected bool
	connMu    sync.RWMutex
}

// NewSerialTransceiver opens the configured serial port.
func NewSerialTransceiver(cfg Config) (*SerialTransceiver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	log.Info().
		Str("port", cfg.Port).
		Int("emitter_gpio", cfg.EmitterGPIO).
		Int("receiver_gpio", cfg.ReceiverGPIO).
		Msg("Initializing IR bridge")

	s, err := OpenSerial(cfg.Port, cfg.BaudRate)
	if err != nil {
		return nil, fmt.Errorf("open serial: %w", err)
	}
	return newSerialTransceiver(s, cfg), nil
}

func newSerialTransceiver(l link, cfg Config) *SerialTransceiver {
	return &SerialTransceiver{
		link:      l,
		cfg:       cfg.withDefaults(),
		connected: true,
	}
}

// Emit transmits cmd on the emitter pin and waits for the bridge ACK.
func (t *SerialTransceiver) Emit(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !t.IsConnected() {
		return ErrNotConnected
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	req := frame{Type: frameEmit, GPIO: byte(t.cfg.EmitterGPIO), Body: encodePulses(cmd.Pulses)}
	resp, err := t.roundTrip(ctx, req, emitTimeout)
	if err != nil {
		return err
	}

	switch resp.Type {
	case frameAck:
		log.Debug().Str("command", cmd.Name).Int("pulses", len(cmd.Pulses)).Msg("IR command emitted")
		return nil
	case frameError:
		return fmt.Errorf("%w: %s", ErrBridge, string(resp.Body))
	default:
		return fmt.Errorf("%w: unexpected response 0x%02x to emit", ErrBridge, resp.Type)
	}
}

// Capture arms the receiver pin and returns the next signal it decodes.
func (t *SerialTransceiver) Capture(ctx context.Context, label string) (Command, error) {
	if !t.IsConnected() {
		return Command{}, ErrNotConnected
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	body := binary.BigEndian.AppendUint32(nil, uint32(t.cfg.CaptureTimeout/time.Millisecond))
	req := frame{Type: frameCapture, GPIO: byte(t.cfg.ReceiverGPIO), Body: body}

	// Give the bridge a little slack past its own timeout to report it.
	resp, err := t.roundTrip(ctx, req, t.cfg.CaptureTimeout+emitTimeout)
	if err != nil {
		return Command{}, err
	}

	switch resp.Type {
	case frameCaptured:
		pulses, err := decodePulses(resp.Body)
		if err != nil {
			return Command{}, err
		}
		log.Debug().Str("label", label).Int("pulses", len(pulses)).Msg("IR command captured")
		return NormalizeTolerance(Command{Name: label, Pulses: pulses}, t.cfg.Tolerance), nil
	case frameTimeout:
		return Command{}, ErrCaptureTimeout
	case frameError:
		return Command{}, fmt.Errorf("%w: %s", ErrBridge, string(resp.Body))
	default:
		return Command{}, fmt.Errorf("%w: unexpected response 0x%02x to capture", ErrBridge, resp.Type)
	}
}

// roundTrip writes req and reads frames until a response frame arrives.
func (t *SerialTransceiver) roundTrip(ctx context.Context, req frame, timeout time.Duration) (frame, error) {
	if _, err := t.link.Write(encodeFrame(req)); err != nil {
		t.setConnected(false)
		return frame{}, fmt.Errorf("%w: write frame: %w", ErrNotConnected, err)
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 0, 64)

	for {
		if err := ctx.Err(); err != nil {
			return frame{}, err
		}

		b, err := t.link.ReadByte()
		if errors.Is(err, errReadTimeout) {
			if time.Now().After(deadline) {
				if req.Type == frameCapture {
					return frame{}, ErrCaptureTimeout
				}
				return frame{}, fmt.Errorf("%w: no response within %v", ErrBridge, timeout)
			}
			continue
		}
		if err != nil {
			t.setConnected(false)
			return frame{}, fmt.Errorf("%w: read frame: %w", ErrNotConnected, err)
		}

		switch b {
		case frameCancelByte, frameSubstitute:
			buf = buf[:0]
			continue
		case frameXON, frameXOFF:
			continue
		case frameFlagByte:
			if len(buf) == 0 {
				continue
			}
			f, err := decodeFrame(buf)
			buf = buf[:0]
			if err != nil {
				log.Warn().Err(err).Msg("Discarding bridge frame")
				continue
			}
			if f.Type&0x80 == 0 {
				continue
			}
			return f, nil
		}

		buf = append(buf, b)
		if len(buf) > frameMaxLen {
			buf = buf[:0]
		}
	}
}

// IsConnected returns true until a transport error is observed.
func (t *SerialTransceiver) IsConnected() bool {
	t.connMu.RLock()
	defer t.connMu.RUnlock()
	return t.connected
}

func (t *SerialTransceiver) setConnected(v bool) {
	t.connMu.Lock()
	t.connected = v
	t.connMu.Unlock()
}

// Close closes the serial link.
func (t *SerialTransceiver) Close() error {
	t.setConnected(false)
	return t.link.Close()
}
