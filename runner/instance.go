package runner

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/conformd/sdk-bridge/events"
	"github.com/conformd/sdk-bridge/types"
)

// CaseInstance is one execution of a case type. It owns the step list
// and is advanced only by the execution bridge's event handlers.
type CaseInstance struct {
	Case  *types.CaseType
	Steps *types.StepList

	logger log.Logger

	// finalized is set once a terminal run event has been processed; it
	// makes the final step-completion call idempotent.
	finalized     bool
	runStopSeen   bool
	exception     string
	runDuration   time.Duration
	failures      int
	skips         int
	unknownEvents int
}

// NewCaseInstance creates a fresh instance for one run of the case type.
// The step list is seeded with the synthetic Start step followed by the
// metadata steps.
func NewCaseInstance(ct *types.CaseType, logger log.Logger) *CaseInstance {
	return &CaseInstance{
		Case:   ct,
		Steps:  types.NewStepList(ct.Metadata.Steps),
		logger: logger,
	}
}

// RunFinished reports whether the instance has processed the terminal
// run event, independent of the channel's own finished flag.
func (c *CaseInstance) RunFinished() bool {
	return c.runStopSeen
}

// fillCounters copies the instance's event bookkeeping onto the result.
func (c *CaseInstance) fillCounters(result *types.CaseResult) {
	result.Exception = c.exception
	result.RunnerDuration = c.runDuration
	result.Failures = c.failures
	result.Skips = c.skips
	result.UnknownEvents = c.unknownEvents
}

func (c *CaseInstance) handleRunStart(ev events.Event) error {
	c.logger.Debug("Runner reported run start",
		"case", c.Case.Identifier,
		"file", ev.StringParam("file"),
		"name", ev.StringParam("name"),
		"count", ev.IntParam("count"))
	c.Steps.Advance()
	return nil
}

func (c *CaseInstance) handleTestStart(ev events.Event) error {
	c.logger.Debug("Runner reported test start", "case", c.Case.Identifier, "name", ev.StringParam("name"))
	c.Steps.Advance()
	return nil
}

func (c *CaseInstance) handleTestSkipped(ev events.Event) error {
	c.skips++
	reason := ev.StringParam("expression")
	if reason == "" {
		reason = "test step skipped"
	}
	c.Steps.MarkCurrentNotApplicable(reason)
	return nil
}

func (c *CaseInstance) handleTestSuccess(ev events.Event) error {
	c.Steps.Advance()
	return nil
}

func (c *CaseInstance) handleTestFailure(ev events.Event) error {
	// Failure still moves the cursor; the outcome is recorded on the run,
	// not on the step.
	c.failures++
	c.logger.Debug("Runner reported test failure",
		"case", c.Case.Identifier,
		"request", ev.StringParam("request"),
		"received", ev.StringParam("received"))
	c.Steps.Advance()
	return nil
}

func (c *CaseInstance) handleTestUnknown(ev events.Event) error {
	// Internal bookkeeping signal, not a step boundary.
	c.unknownEvents++
	return nil
}

func (c *CaseInstance) handleRunStop(ev events.Event) error {
	c.runStopSeen = true
	c.exception = ev.StringParam("exception")
	c.runDuration = time.Duration(ev.IntParam("duration")) * time.Millisecond
	if !c.finalized {
		c.Steps.ForceCompleteCurrent()
		c.finalized = true
	}
	return nil
}
