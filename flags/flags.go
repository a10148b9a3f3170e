package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

const EnvVarPrefix = "SDK_BRIDGE"

var (
	ScriptDir = &cli.StringFlag{
		Name:     "scriptdir",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "SCRIPTDIR"),
		Usage:    "Path to the test-definition folder from which to load the catalog",
	}
	CustomScriptDir = &cli.StringFlag{
		Name:    "custom-scriptdir",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CUSTOM_SCRIPTDIR"),
		Usage:   "Optional path to a custom test-definition folder",
	}
	ProjectConfig = &cli.StringFlag{
		Name:    "project-config",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PROJECT_CONFIG"),
		Usage:   "Path to the project run-configuration file (eg. 'project.yaml')",
	}
	RunnerBinary = &cli.StringFlag{
		Name:    "runner-binary",
		Value:   "python3",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUNNER_BINARY"),
		Usage:   "Executable prefix used to launch the external test runner",
	}
	RunnerModule = &cli.StringFlag{
		Name:     "runner-module",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "RUNNER_MODULE"),
		Usage:    "Runner entry point handed the test identifier (eg. 'matter.test_runner')",
	}
	PICSFile = &cli.StringFlag{
		Name:    "pics-file",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PICS_FILE"),
		Usage:   "Path to a generated applicability-tag (PICS) file, forwarded to the runner when set",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_INTERVAL"),
		Usage:   "Interval between harness runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	PollInterval = &cli.DurationFlag{
		Name:    "poll-interval",
		Value:   5 * time.Millisecond,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "POLL_INTERVAL"),
		Usage:   "Yield interval between empty event-channel polls",
	}
	DrainTimeout = &cli.DurationFlag{
		Name:    "drain-timeout",
		Value:   10 * time.Minute,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "DRAIN_TIMEOUT"),
		Usage:   "Deadline for draining one case's event channel before the run fails as timed out",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGDIR"),
		Usage:   "Directory to store per-run case logs",
	}
)

var requiredFlags = []cli.Flag{
	ScriptDir,
	RunnerModule,
}

var optionalFlags = []cli.Flag{
	CustomScriptDir,
	ProjectConfig,
	RunnerBinary,
	PICSFile,
	RunInterval,
	PollInterval,
	DrainTimeout,
	LogDir,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
