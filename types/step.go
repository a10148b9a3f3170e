package types

// StepStatus represents the lifecycle state of a single test step.
type StepStatus string

const (
	StepStatusPending       StepStatus = "pending"
	StepStatusCompleted     StepStatus = "completed"
	StepStatusNotApplicable StepStatus = "not_applicable"
	StepStatusFailed        StepStatus = "failed"
)

// StartStepLabel is the synthetic first step of every step list.
const StartStepLabel = "Start"

// Step is one reportable unit of progress within a test case.
type Step struct {
	Label  string
	Status StepStatus
	Reason string // populated when the step was marked not applicable
}

// StepList is the ordered per-run step sequence plus a forward-only
// cursor. Exactly one step is current until the list is exhausted.
type StepList struct {
	steps  []*Step
	cursor int
}

// NewStepList builds a step list from metadata step labels, prepending
// the synthetic Start step. The first step is current on construction.
func NewStepList(labels []string) *StepList {
	steps := make([]*Step, 0, len(labels)+1)
	steps = append(steps, &Step{Label: StartStepLabel, Status: StepStatusPending})
	for _, label := range labels {
		steps = append(steps, &Step{Label: label, Status: StepStatusPending})
	}
	return &StepList{steps: steps}
}

// Current returns the step at the cursor, or nil once the list is exhausted.
func (l *StepList) Current() *Step {
	if l.Exhausted() {
		return nil
	}
	return l.steps[l.cursor]
}

// Exhausted reports whether the cursor has moved past the last step.
func (l *StepList) Exhausted() bool {
	return l.cursor >= len(l.steps)
}

// Advance marks the current step completed if it is still pending and
// moves the cursor forward. Advancing an exhausted list is a no-op.
func (l *StepList) Advance() {
	if l.Exhausted() {
		return
	}
	if l.steps[l.cursor].Status == StepStatusPending {
		l.steps[l.cursor].Status = StepStatusCompleted
	}
	l.cursor++
}

// MarkCurrentNotApplicable records the reason on the current step, marks
// it not applicable and advances the cursor.
func (l *StepList) MarkCurrentNotApplicable(reason string) {
	if l.Exhausted() {
		return
	}
	current := l.steps[l.cursor]
	current.Status = StepStatusNotApplicable
	current.Reason = reason
	l.Advance()
}

// ForceCompleteCurrent marks the current step completed without moving
// the cursor. Used at run teardown so a finished run never leaves its
// current step pending.
func (l *StepList) ForceCompleteCurrent() {
	if l.Exhausted() {
		return
	}
	if l.steps[l.cursor].Status == StepStatusPending {
		l.steps[l.cursor].Status = StepStatusCompleted
	}
}

// MarkAllRemainingFailed forces every step still pending to failed.
// A run must never report success while leaving steps unresolved.
func (l *StepList) MarkAllRemainingFailed() {
	for _, s := range l.steps {
		if s.Status == StepStatusPending {
			s.Status = StepStatusFailed
		}
	}
}

// Steps returns the underlying ordered steps.
func (l *StepList) Steps() []*Step {
	return l.steps
}

// Len returns the number of steps including the synthetic Start step.
func (l *StepList) Len() int {
	return len(l.steps)
}
