package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ClustersJitter(t *testing.T) {
	cmd := Command{Name: "power", Pulses: []int{9010, 4490, 560, 1690, 570, 550, 1700, 565}}

	got := Normalize(cmd)

	assert.Equal(t, []int{9010, 4490, 561, 1695, 561, 561, 1695, 561}, got.Pulses)
	assert.Equal(t, "power", got.Name)
	// The input is not modified.
	assert.Equal(t, 9010, cmd.Pulses[0])
	assert.Equal(t, 1690, cmd.Pulses[3])
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := [][]int{
		{9000, 4500, 560, 560, 560, 1690, 560, 1690, 560, 40000},
		{100, 110, 121, 133, 146, 161},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{2400, 600, 1200, 600, 600, 600, 1200, 600},
		{500},
	}
	for _, tol := range []float64{0.05, DefaultTolerance, 0.5} {
		for _, pulses := range inputs {
			once := NormalizeTolerance(Command{Pulses: pulses}, tol)
			twice := NormalizeTolerance(once, tol)
			assert.Equal(t, once.Pulses, twice.Pulses, "tolerance %v pulses %v", tol, pulses)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(Command{Name: "empty"})
	assert.Empty(t, got.Pulses)
}

func TestCommand_Validate(t *testing.T) {
	assert.NoError(t, Command{Pulses: []int{1, 2}}.Validate())
	assert.ErrorIs(t, Command{}.Validate(), ErrEmptyCommand)
	assert.ErrorIs(t, Command{Pulses: []int{100, 0}}.Validate(), ErrInvalidPulse)
	assert.ErrorIs(t, Command{Pulses: []int{-3}}.Validate(), ErrInvalidPulse)
}

func TestCommand_Clone(t *testing.T) {
	orig := Command{Name: "up", Pulses: []int{1, 2, 3}}
	c := orig.Clone()
	c.Pulses[0] = 99
	require.Equal(t, 1, orig.Pulses[0])
}
