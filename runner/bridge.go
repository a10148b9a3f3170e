// Package runner contains the execution bridge: it launches the external
// SDK runner process for one test case, drains the lifecycle events the
// runner publishes over the event channel, and turns them into step
// progress on the harness's own test-case model.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/conformd/sdk-bridge/events"
	"github.com/conformd/sdk-bridge/metrics"
	"github.com/conformd/sdk-bridge/types"
)

// State tracks the bridge through one run.
type State string

const (
	StateNotStarted     State = "not_started"
	StateLaunching      State = "launching"
	StateAwaitingEvents State = "awaiting_events"
	StateDraining       State = "draining"
	StateFinalizing     State = "finalizing"
	StateCompleted      State = "completed"
	StateFailed         State = "failed"
)

const (
	DefaultPollInterval = 5 * time.Millisecond
	DefaultDrainTimeout = 10 * time.Minute
)

// EventSource is the consumer side of one run's event channel.
type EventSource interface {
	Addr() string
	Token() string
	TryPopNext() (events.Event, bool)
	IsFinished() bool
	Close() error
}

// eventHandler advances a case instance for one drained event. The table
// below is the closed dispatch surface: handler selection is validated
// against it at dispatch time, never via reflection into the instance.
type eventHandler func(*CaseInstance, events.Event) error

var handlers = map[events.Name]eventHandler{
	events.RunStart:    (*CaseInstance).handleRunStart,
	events.RunStop:     (*CaseInstance).handleRunStop,
	events.TestSkipped: (*CaseInstance).handleTestSkipped,
	events.TestStart:   (*CaseInstance).handleTestStart,
	events.TestSuccess: (*CaseInstance).handleTestSuccess,
	events.TestFailure: (*CaseInstance).handleTestFailure,
	events.TestUnknown: (*CaseInstance).handleTestUnknown,
}

// Config holds the collaborators and knobs of the execution bridge.
type Config struct {
	Executor   ProcessExecutor
	NewChannel func() (EventSource, error)

	// RunnerBinary is the fixed executable prefix; RunnerModule is the
	// runner entry point handed the test identifier.
	RunnerBinary string
	RunnerModule string

	// RunConfig is passed through opaquely as CLI flags.
	RunConfig RunConfig

	// PICSFile references the applicability-tag file generated for this
	// run, empty when none was generated.
	PICSFile string

	PollInterval time.Duration
	DrainTimeout time.Duration
	Log          log.Logger
}

// Bridge orchestrates test runs against the external runner process.
type Bridge struct {
	cfg Config
}

// NewBridge validates the collaborators and creates a bridge.
func NewBridge(cfg Config) (*Bridge, error) {
	if cfg.Executor == nil {
		return nil, fmt.Errorf("process executor cannot be nil")
	}
	if cfg.NewChannel == nil {
		return nil, fmt.Errorf("channel constructor cannot be nil")
	}
	if cfg.RunnerBinary == "" {
		return nil, fmt.Errorf("runner binary cannot be empty")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultDrainTimeout
	}
	return &Bridge{cfg: cfg}, nil
}

// RunCase executes one test case end to end: stand up the event channel,
// launch the runner, drain events into step transitions, and tear the
// channel down on every exit path. output receives the runner's streamed
// output; nil discards it.
func (b *Bridge) RunCase(ctx context.Context, ct *types.CaseType, output io.Writer) *types.CaseResult {
	started := time.Now()
	result := &types.CaseResult{Case: ct}
	instance := NewCaseInstance(ct, b.cfg.Log)

	ctx, span := otel.Tracer("sdk-bridge/runner").Start(ctx, "run-case",
		trace.WithAttributes(attribute.String("case.id", ct.Identifier)))
	defer span.End()

	state := StateNotStarted
	setState := func(next State) {
		b.cfg.Log.Debug("Bridge state transition", "case", ct.Identifier, "from", state, "to", next)
		state = next
	}

	fail := func(err error) *types.CaseResult {
		setState(StateFailed)
		instance.Steps.MarkAllRemainingFailed()
		result.Status = types.CaseStatusFail
		result.Error = err
		result.TimedOut = IsTimeoutError(err)
		result.Steps = instance.Steps.Steps()
		result.Duration = time.Since(started)
		instance.fillCounters(result)
		metrics.RecordErrorDetails("run_case", err)
		return result
	}

	setState(StateLaunching)
	channel, err := b.cfg.NewChannel()
	if err != nil {
		return fail(fmt.Errorf("standing up event channel: %w", err))
	}
	// Scoped teardown: the channel endpoint is released exactly once on
	// every exit path, including launch failure and drain errors.
	defer func() {
		if cerr := channel.Close(); cerr != nil {
			b.cfg.Log.Error("Failed to release event channel", "case", ct.Identifier, "err", cerr)
		}
	}()

	if output == nil {
		output = io.Discard
	}
	tokens := b.buildInvocation(ct, channel)
	proc, err := b.cfg.Executor.Run(ctx, tokens, RunOptions{
		Prefix:       b.cfg.RunnerBinary,
		StreamOutput: true,
		UseSocket:    false,
		Stdout:       output,
		Stderr:       output,
	})
	if err != nil {
		// Fatal to the run, not retried. The channel is never polled.
		return fail(&LaunchError{Err: err})
	}
	go func() {
		if werr := proc.Wait(); werr != nil {
			b.cfg.Log.Warn("Runner process exited with error", "case", ct.Identifier, "err", werr)
		}
	}()

	setState(StateAwaitingEvents)
	if err := b.drain(ctx, instance, channel, &state, setState); err != nil {
		return fail(err)
	}

	setState(StateFinalizing)
	instance.Steps.MarkAllRemainingFailed()

	result.Steps = instance.Steps.Steps()
	result.Duration = time.Since(started)
	instance.fillCounters(result)
	result.Status = classify(instance)
	span.SetAttributes(attribute.String("case.status", string(result.Status)))

	setState(StateCompleted)
	return result
}

// drain is the cooperative polling loop: pop the next event if present,
// otherwise yield for the poll interval and retry, while an event is
// pending or the publisher has not signaled finished. runStop marks the
// run finished from the bridge's point of view independent of the
// channel's own flag.
func (b *Bridge) drain(ctx context.Context, instance *CaseInstance, channel EventSource, state *State, setState func(State)) error {
	deadline := time.NewTimer(b.cfg.DrainTimeout)
	defer deadline.Stop()

	for {
		ev, ok := channel.TryPopNext()
		if ok {
			// The deadline binds the whole drain, including a runner
			// that keeps publishing without ever stopping.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-deadline.C:
				return &TimeoutError{Deadline: b.cfg.DrainTimeout}
			default:
			}
			if *state != StateDraining {
				setState(StateDraining)
			}
			if err := b.dispatch(instance, ev); err != nil {
				return err
			}
			continue
		}

		if channel.IsFinished() || instance.RunFinished() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return &TimeoutError{Deadline: b.cfg.DrainTimeout}
		case <-time.After(b.cfg.PollInterval):
			// Yield between empty polls.
		}
	}
}

// dispatch routes one event through the closed handler table.
func (b *Bridge) dispatch(instance *CaseInstance, ev events.Event) error {
	handler, ok := handlers[ev.Name]
	if !ok {
		return &ProtocolError{EventName: string(ev.Name)}
	}
	metrics.RecordEvent(string(ev.Name))
	return handler(instance, ev)
}

// buildInvocation assembles the runner command tokens: entry point, test
// identifier, the pass-through run configuration (commissioning method
// omitted), the channel endpoint credentials, and the applicability-tag
// file when one exists.
func (b *Bridge) buildInvocation(ct *types.CaseType, channel EventSource) []string {
	tokens := []string{}
	if b.cfg.RunnerModule != "" {
		tokens = append(tokens, b.cfg.RunnerModule)
	}
	tokens = append(tokens, ct.Title)
	tokens = append(tokens, GenerateArguments(b.cfg.RunConfig, true)...)
	tokens = append(tokens, "--event-endpoint", channel.Addr(), "--event-token", channel.Token())
	if b.cfg.PICSFile != "" {
		tokens = append(tokens, "--PICS", b.cfg.PICSFile)
	}
	return tokens
}

// classify derives the harness-visible status of a finished run. A step
// forced to failed or a terminal exception fails the case; a case whose
// real steps were all skipped is a skip.
func classify(instance *CaseInstance) types.CaseStatus {
	if instance.exception != "" {
		return types.CaseStatusFail
	}

	steps := instance.Steps.Steps()
	notApplicable := 0
	for _, s := range steps {
		if s.Status == types.StepStatusFailed {
			return types.CaseStatusFail
		}
		if s.Status == types.StepStatusNotApplicable {
			notApplicable++
		}
	}
	// Real steps exclude the synthetic Start step.
	if len(steps) > 1 && notApplicable == len(steps)-1 {
		return types.CaseStatusSkip
	}
	return types.CaseStatusPass
}
