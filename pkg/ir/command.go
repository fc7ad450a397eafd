package ir

import (
	"math"
	"sort"
)

// DefaultTolerance is the relative gap under which two pulse widths are
// considered the same symbol during normalization.
const DefaultTolerance = 0.2

// Command is a captured infrared signal. Pulses alternate mark and space
// durations in microseconds, starting with a mark.
type Command struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Pulses      []int  `json:"pulses" yaml:"pulses"`
}

// Clone returns a deep copy of the command.
func (c Command) Clone() Command {
	out := c
	if c.Pulses != nil {
		out.Pulses = append([]int(nil), c.Pulses...)
	}
	return out
}

// Validate reports whether the command can be emitted.
func (c Command) Validate() error {
	if len(c.Pulses) == 0 {
		return ErrEmptyCommand
	}
	for _, p := range c.Pulses {
		if p <= 0 {
			return ErrInvalidPulse
		}
	}
	return nil
}

// Normalize cleans up receiver jitter using DefaultTolerance.
func Normalize(c Command) Command {
	return NormalizeTolerance(c, DefaultTolerance)
}

// NormalizeTolerance groups pulse widths into clusters and replaces every
// pulse with the rounded mean of its cluster. Sorted distinct widths join the
// current cluster while the gap to the previous width is at most
// tolerance*previous. Cluster means of a normalized command are further apart
// than that bound, so applying it twice yields the same command.
func NormalizeTolerance(c Command, tolerance float64) Command {
	out := c.Clone()
	if len(out.Pulses) == 0 {
		return out
	}

	distinct := make([]int, 0, len(out.Pulses))
	seen := make(map[int]struct{}, len(out.Pulses))
	for _, p := range out.Pulses {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		distinct = append(distinct, p)
	}
	sort.Ints(distinct)

	counts := make(map[int]int, len(distinct))
	for _, p := range out.Pulses {
		counts[p]++
	}

	mapping := make(map[int]int, len(distinct))
	start := 0
	flush := func(end int) {
		sum, n := 0, 0
		for _, v := range distinct[start:end] {
			sum += v * counts[v]
			n += counts[v]
		}
		mean := int(math.Round(float64(sum) / float64(n)))
		for _, v := range distinct[start:end] {
			mapping[v] = mean
		}
	}
	for i := 1; i < len(distinct); i++ {
		prev := distinct[i-1]
		if float64(distinct[i]-prev) > tolerance*float64(prev) {
			flush(i)
			start = i
		}
	}
	flush(len(distinct))

	for i, p := range out.Pulses {
		out.Pulses[i] = mapping[p]
	}
	return out
}
