package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/ethereum/go-ethereum/log"
)

var _ ProcessExecutor = (*processExecutor)(nil)

// ProcessExecutor is the process-execution collaborator. It spawns the
// external runner binary and streams its raw output; the bridge does not
// manage OS pipes or signals beyond this contract.
type ProcessExecutor interface {
	// Run launches the runner with the given command tokens. A non-nil
	// error means the process never started.
	Run(ctx context.Context, tokens []string, opts RunOptions) (Execution, error)
}

// RunOptions carry the fixed executable prefix and streaming behavior of
// one invocation.
type RunOptions struct {
	Prefix       string // executable prefix, e.g. the runner interpreter
	StreamOutput bool
	UseSocket    bool
	Stdout       io.Writer // destination for streamed output, may be nil
	Stderr       io.Writer
}

// Execution is a handle on a launched runner process.
type Execution interface {
	// Wait blocks until the process exits and returns its exit error.
	Wait() error
}

// processExecutor implements ProcessExecutor with os/exec.
type processExecutor struct {
	logger log.Logger
}

// NewProcessExecutor creates the default local process executor.
func NewProcessExecutor(logger log.Logger) ProcessExecutor {
	return &processExecutor{logger: logger}
}

func (e *processExecutor) Run(ctx context.Context, tokens []string, opts RunOptions) (Execution, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if opts.Prefix == "" {
		return nil, fmt.Errorf("executable prefix cannot be empty")
	}

	cmd := exec.CommandContext(ctx, opts.Prefix, tokens...)
	if opts.StreamOutput {
		if opts.Stdout != nil {
			cmd.Stdout = opts.Stdout
		}
		if opts.Stderr != nil {
			cmd.Stderr = opts.Stderr
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	e.logger.Debug("Runner process started", "prefix", opts.Prefix, "pid", cmd.Process.Pid, "args", tokens)
	return &processExecution{cmd: cmd}, nil
}

type processExecution struct {
	cmd *exec.Cmd
}

func (p *processExecution) Wait() error {
	return p.cmd.Wait()
}
