package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/openark-net/githooks/pkg/hooks/domain"
)

type Runner struct{}

func New() *Runner {
	return &Runner{}
}

func (r *Runner) Run(ctx context.Context, cmd domain.Command) domain.CommandResult {
	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.WorkingDir

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	err := execCmd.Run()

	result := domain.CommandResult{
		Command: cmd,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	if err != nil {
		result.State = domain.Failed
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result
		}
		result.ExitCode = 1
		if ctx.Err() != nil {
			result.Err = ctx.Err()
		} else {
			result.Err = err
		}
		return result
	}

	result.State = domain.Completed
	result.ExitCode = 0
	return result
}
