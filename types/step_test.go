package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepListStartsAtSyntheticStep(t *testing.T) {
	list := NewStepList([]string{"A", "B", "C"})

	require.Equal(t, 4, list.Len())
	require.False(t, list.Exhausted())
	assert.Equal(t, StartStepLabel, list.Current().Label)
	assert.Equal(t, StepStatusPending, list.Current().Status)
}

func TestStepListAdvanceExhaustsAndBecomesNoOp(t *testing.T) {
	list := NewStepList([]string{"A", "B", "C"})

	for i := 0; i < 4; i++ {
		require.False(t, list.Exhausted(), "cursor should not be exhausted after %d advances", i)
		list.Advance()
	}
	assert.True(t, list.Exhausted())
	assert.Nil(t, list.Current())

	// Further advances are no-ops, not failures.
	list.Advance()
	list.Advance()
	assert.True(t, list.Exhausted())

	for _, s := range list.Steps() {
		assert.Equal(t, StepStatusCompleted, s.Status, "step %q", s.Label)
	}
}

func TestStepListMarkCurrentNotApplicable(t *testing.T) {
	list := NewStepList([]string{"A", "B"})
	list.Advance() // Start -> A

	list.MarkCurrentNotApplicable("PICS not met")

	steps := list.Steps()
	assert.Equal(t, StepStatusNotApplicable, steps[1].Status, "skipped step is never completed")
	assert.Equal(t, "PICS not met", steps[1].Reason)
	assert.Equal(t, "B", list.Current().Label, "cursor advanced past the skipped step")
}

func TestStepListForceCompleteCurrent(t *testing.T) {
	list := NewStepList([]string{"A"})
	list.Advance() // Start -> A

	list.ForceCompleteCurrent()
	assert.Equal(t, StepStatusCompleted, list.Current().Status)
	assert.Equal(t, "A", list.Current().Label, "cursor does not move")

	// Idempotent on an already-completed step and on exhaustion.
	list.ForceCompleteCurrent()
	list.Advance()
	list.ForceCompleteCurrent()
	assert.True(t, list.Exhausted())
}

func TestStepListMarkAllRemainingFailed(t *testing.T) {
	list := NewStepList([]string{"A", "B", "C"})
	list.Advance() // Start completed
	list.Advance() // A completed

	list.MarkAllRemainingFailed()

	steps := list.Steps()
	assert.Equal(t, StepStatusCompleted, steps[0].Status)
	assert.Equal(t, StepStatusCompleted, steps[1].Status)
	assert.Equal(t, StepStatusFailed, steps[2].Status)
	assert.Equal(t, StepStatusFailed, steps[3].Status)
}

func TestStepListEmptyMetadataStillHasStartStep(t *testing.T) {
	list := NewStepList(nil)

	require.Equal(t, 1, list.Len())
	assert.Equal(t, StartStepLabel, list.Current().Label)
	list.Advance()
	assert.True(t, list.Exhausted())
}
