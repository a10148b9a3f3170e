// Package bridge is the harness service that loads the test catalog and
// executes every case through the external SDK runner, bridging the
// runner's lifecycle events into harness-visible step progress.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/conformd/sdk-bridge/catalog"
	"github.com/conformd/sdk-bridge/events"
	"github.com/conformd/sdk-bridge/exitcodes"
	"github.com/conformd/sdk-bridge/logging"
	"github.com/conformd/sdk-bridge/metrics"
	"github.com/conformd/sdk-bridge/runner"
	"github.com/conformd/sdk-bridge/types"
)

// Harness implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &Harness{}

// Harness runs certification test cases through the execution bridge.
type Harness struct {
	ctx         context.Context
	config      *Config
	version     string
	collections []*catalog.Collection
	runConfig   runner.RunConfig
	executor    runner.ProcessExecutor
	scheduler   *DefaultRunScheduler
	result      *types.RunResult

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Harness, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating harness with config",
		"scriptDir", config.ScriptDir,
		"runnerBinary", config.RunnerBinary,
		"runnerModule", config.RunnerModule,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	runConfig, err := LoadRunConfig(config.ProjectConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load project run configuration: %w", err)
	}

	collection, err := catalog.LoadCollection("SDK Test Definitions", catalog.Folder{Path: config.ScriptDir}, config.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to load test collection: %w", err)
	}
	collections := []*catalog.Collection{collection}

	if config.CustomScriptDir != "" {
		custom, err := catalog.LoadCustomCollection("Custom Test Definitions", catalog.Folder{Path: config.CustomScriptDir}, config.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to load custom test collection: %w", err)
		}
		if custom != nil {
			collections = append(collections, custom)
		}
	}

	h := &Harness{
		ctx:              ctx,
		config:           config,
		version:          version,
		collections:      collections,
		runConfig:        runConfig,
		executor:         runner.NewProcessExecutor(config.Log),
		scheduler:        NewDefaultRunScheduler(config.RunInterval, config.RunOnce, config.Log),
		shutdownCallback: shutdownCallback,
	}
	h.scheduler.RegisterCallback(h.runAll)

	config.Log.Info("bridge.New: loaded catalog", "collections", len(collections))
	return h, nil
}

// Start runs the test cases, periodically when an interval is configured.
// Start implements the cliapp.Lifecycle interface.
func (h *Harness) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			h.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	h.ctx = ctx

	if h.config.RunOnce {
		h.config.Log.Info("Starting sdk-bridge in run-once mode")
	} else {
		h.config.Log.Info("Starting sdk-bridge in continuous mode", "interval", h.config.RunInterval)
	}

	if err := h.scheduler.Start(ctx); err != nil {
		// Runtime errors (configuration, catalog, log dir) exit with code 2
		h.config.Log.Error("Runtime error running tests", "error", err)
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	if h.config.RunOnce {
		h.config.Log.Info("Run completed, exiting (run-once mode)")

		if h.result != nil && h.result.Status == types.CaseStatusFail {
			h.config.Log.Warn("Run-once completed with failures, returning exit code 1")
			return NewTestFailureError(h.result.String())
		}

		// Only needed in run-once mode when every case passed
		go func() {
			h.shutdownCallback(nil)
		}()
		return nil
	}

	h.config.Log.Debug("sdk-bridge started successfully")
	return nil
}

// runAll executes every case in the catalog once and reports the results.
func (h *Harness) runAll() error {
	runID := uuid.New().String()
	h.config.Log.Info("Running all test cases...", "run_id", runID)

	fileLogger, err := logging.NewFileLogger(h.config.LogDir, runID, h.config.Log)
	if err != nil {
		return NewRuntimeError(fmt.Errorf("failed to create run log directory: %w", err))
	}
	defer func() {
		if cerr := fileLogger.Close(); cerr != nil {
			h.config.Log.Error("Failed to close run logs", "err", cerr)
		}
	}()

	execBridge, err := runner.NewBridge(runner.Config{
		Executor: h.executor,
		NewChannel: func() (runner.EventSource, error) {
			return events.NewServer(h.config.Log)
		},
		RunnerBinary: h.config.RunnerBinary,
		RunnerModule: h.config.RunnerModule,
		RunConfig:    h.runConfig,
		PICSFile:     h.config.PICSFile,
		PollInterval: h.config.PollInterval,
		DrainTimeout: h.config.DrainTimeout,
		Log:          h.config.Log,
	})
	if err != nil {
		return NewRuntimeError(fmt.Errorf("failed to create execution bridge: %w", err))
	}

	result := &types.RunResult{RunID: runID}
	for _, collection := range h.collections {
		for _, suite := range collection.Suites {
			suiteResult := &types.SuiteResult{
				Name:    fmt.Sprintf("%s / %s", collection.Name, suite.Name),
				Version: suite.Version,
			}

			// Runs execute sequentially; every case gets its own channel
			// endpoint, so nothing is shared between them.
			for _, ct := range suite.Cases {
				var output io.Writer
				if w, werr := fileLogger.Writer(ct.ClassName); werr != nil {
					h.config.Log.Warn("Failed to open case log, discarding runner output", "case", ct.Identifier, "err", werr)
				} else {
					output = w
				}

				caseResult := execBridge.RunCase(h.ctx, ct, output)
				metrics.RecordCase(runID, ct.Identifier, string(caseResult.Status))
				suiteResult.AddCase(caseResult)
			}

			result.AddSuite(suiteResult)
		}
	}
	result.Status = result.Stats.Status()
	h.result = result

	printResultsTable(result)
	fmt.Println(result.String())
	metrics.RecordRun(runID, string(result.Status),
		result.Stats.Total, result.Stats.Passed, result.Stats.Failed, result.Duration)

	h.config.Log.Info("Harness run completed",
		"run_id", runID, "status", result.Status, "logs", fileLogger.RunDir())
	return nil
}

// Stop stops the sdk-bridge service.
// Stop implements the cliapp.Lifecycle interface.
func (h *Harness) Stop(ctx context.Context) error {
	h.config.Log.Info("Stopping sdk-bridge")

	if h.scheduler.Stopped() {
		h.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	if err := h.scheduler.Stop(); err != nil {
		return err
	}

	h.config.Log.Info("sdk-bridge stopped successfully")
	return nil
}

// Stopped returns true if the sdk-bridge service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (h *Harness) Stopped() bool {
	return h.scheduler.Stopped()
}

// Result returns the most recent run result.
func (h *Harness) Result() *types.RunResult {
	return h.result
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (h *Harness) WaitForShutdown(ctx context.Context) error {
	return h.scheduler.WaitForShutdown(ctx)
}
