// Package irtest provides an in-memory transceiver for tests.
package irtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/urmzd/irhome/pkg/ir"
)

// Recorder records emitted commands and replays queued captures.
type Recorder struct {
	mu       sync.Mutex
	emitted  []ir.Command
	captures []ir.Command
	labels   []string

	// EmitErr, when set, is returned by Emit and nothing is recorded.
	EmitErr error
	// Disconnected makes IsConnected return false.
	Disconnected bool
}

// NewRecorder returns a Recorder that will answer captures with the given
// commands in order.
func NewRecorder(captures ...ir.Command) *Recorder {
	return &Recorder{captures: captures}
}

func (r *Recorder) Emit(ctx context.Context, cmd ir.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.EmitErr != nil {
		return r.EmitErr
	}
	r.emitted = append(r.emitted, cmd.Clone())
	return nil
}

func (r *Recorder) Capture(ctx context.Context, label string) (ir.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = append(r.labels, label)
	if len(r.captures) == 0 {
		return ir.Command{}, fmt.Errorf("%w: no capture queued for %s", ir.ErrCaptureTimeout, label)
	}
	cmd := r.captures[0]
	r.captures = r.captures[1:]
	cmd.Name = label
	return cmd, nil
}

func (r *Recorder) IsConnected() bool {
	return !r.Disconnected
}

func (r *Recorder) Close() error {
	return nil
}

// Emitted returns the names of emitted commands in order.
func (r *Recorder) Emitted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.emitted))
	for i, c := range r.emitted {
		names[i] = c.Name
	}
	return names
}

// Count returns the number of emissions.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.emitted)
}

// CaptureLabels returns the labels Capture was called with.
func (r *Recorder) CaptureLabels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.labels...)
}
