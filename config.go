package bridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/conformd/sdk-bridge/flags"
	"github.com/conformd/sdk-bridge/runner"
)

// Config holds the application configuration
type Config struct {
	ScriptDir       string
	CustomScriptDir string
	ProjectConfig   string
	RunnerBinary    string
	RunnerModule    string
	PICSFile        string
	RunInterval     time.Duration // Interval between harness runs
	RunOnce         bool          // Indicates if the service should exit after one run
	PollInterval    time.Duration // Yield interval between empty channel polls
	DrainTimeout    time.Duration // Deadline for draining one case's channel
	LogDir          string        // Directory to store per-run case logs
	Log             log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger, scriptDir string, runnerModule string) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if scriptDir == "" {
		return nil, errors.New("test-definition folder is required")
	}
	if runnerModule == "" {
		return nil, errors.New("runner module is required")
	}

	absScriptDir, err := filepath.Abs(scriptDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for script directory '%s': %w", scriptDir, err)
	}

	customScriptDir := ctx.String(flags.CustomScriptDir.Name)
	if customScriptDir != "" {
		customScriptDir, err = filepath.Abs(customScriptDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for custom script directory: %w", err)
		}
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}
	logDir, err = filepath.Abs(logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
	}

	return &Config{
		ScriptDir:       absScriptDir,
		CustomScriptDir: customScriptDir,
		ProjectConfig:   ctx.String(flags.ProjectConfig.Name),
		RunnerBinary:    ctx.String(flags.RunnerBinary.Name),
		RunnerModule:    runnerModule,
		PICSFile:        ctx.String(flags.PICSFile.Name),
		RunInterval:     runInterval,
		RunOnce:         runOnce,
		PollInterval:    ctx.Duration(flags.PollInterval.Name),
		DrainTimeout:    ctx.Duration(flags.DrainTimeout.Name),
		LogDir:          logDir,
		Log:             log,
	}, nil
}

// LoadRunConfig reads the opaque project run-configuration parameters.
// An empty path yields an empty configuration.
func LoadRunConfig(path string) (runner.RunConfig, error) {
	if path == "" {
		return runner.RunConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project config: %w", err)
	}

	var cfg runner.RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing project config: %w", err)
	}
	if cfg == nil {
		cfg = runner.RunConfig{}
	}
	return cfg, nil
}
