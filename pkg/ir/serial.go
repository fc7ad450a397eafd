package ir

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// errReadTimeout is returned by ReadByte when no byte arrived within the
// port's read timeout.
var errReadTimeout = errors.New("serial read timeout")

// pollInterval bounds a single blocking read so deadlines are honoured.
const pollInterval = 100 * time.Millisecond

// SerialPort wraps a serial connection to the IR bridge microcontroller.
type SerialPort struct {
	port serial.Port
	mu   sync.Mutex
	buf  [1]byte
}

// OpenSerial opens the serial port at the given baud rate, 8N1.
func OpenSerial(portPath string, baudRate int) (*SerialPort, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	if err := port.SetReadTimeout(pollInterval); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	// Bridges reset on DTR; hold it low so opening the port does not reboot them.
	if err := port.SetDTR(false); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set DTR: %w", err)
	}

	log.Info().Str("port", portPath).Int("baud", baudRate).Msg("Serial port opened")

	return &SerialPort{port: port}, nil
}

// Write sends raw bytes to the serial port.
func (s *SerialPort) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Write(data)
}

// ReadByte reads a single byte, returning errReadTimeout when the line is idle.
func (s *SerialPort) ReadByte() (byte, error) {
	n, err := s.port.Read(s.buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errReadTimeout
	}
	return s.buf[0], nil
}

// Close closes the serial port.
func (s *SerialPort) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}
