package ir

import (
	"context"
	"fmt"
	"time"
)

// Emitter transmits a captured command through an infrared LED.
type Emitter interface {
	Emit(ctx context.Context, cmd Command) error
}

// Receiver captures a command from a physical remote. Capture blocks until a
// signal arrives, the context ends or the configured timeout elapses. The
// returned command is normalized with the receiver's Config.Tolerance.
type Receiver interface {
	Capture(ctx context.Context, label string) (Command, error)
}

// Transceiver is the hardware side of the service: one emitter, one receiver.
type Transceiver interface {
	Emitter
	Receiver

	// IsConnected returns true if the underlying bridge is reachable
	IsConnected() bool

	// Close releases the bridge
	Close() error
}

// Config wires a transceiver to its hardware. GPIO numbers are the pins the
// bridge drives for the emitter LED and reads for the demodulating receiver.
type Config struct {
	Port           string
	BaudRate       int
	EmitterGPIO    int
	ReceiverGPIO   int
	CaptureTimeout time.Duration
	Tolerance      float64
}

// Defaults used when a Config field is left at its zero value.
const (
	DefaultBaudRate       = 115200
	DefaultEmitterGPIO    = 17
	DefaultReceiverGPIO   = 18
	DefaultCaptureTimeout = 10 * time.Second
)

// MaxGPIO is the highest pin number a bridge frame can address.
const MaxGPIO = 255

func (c Config) validate() error {
	for _, pin := range []int{c.EmitterGPIO, c.ReceiverGPIO} {
		if pin < 0 || pin > MaxGPIO {
			return fmt.Errorf("gpio pin %d out of range [0, %d]", pin, MaxGPIO)
		}
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.EmitterGPIO == 0 {
		c.EmitterGPIO = DefaultEmitterGPIO
	}
	if c.ReceiverGPIO == 0 {
		c.ReceiverGPIO = DefaultReceiverGPIO
	}
	if c.CaptureTimeout == 0 {
		c.CaptureTimeout = DefaultCaptureTimeout
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	return c
}
