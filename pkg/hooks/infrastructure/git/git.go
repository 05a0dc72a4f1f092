package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/openark-net/githooks/pkg/hooks/domain"
)

const gitBinary = "git"

type Client struct {
	runner domain.CommandRunner
	dir    string
}

// New returns a client that runs git from dir. An empty dir means the
// process working directory.
func New(runner domain.CommandRunner, dir string) *Client {
	return &Client{runner: runner, dir: dir}
}

func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	result := c.run(ctx, "rev-parse", "--show-toplevel")

	if result.Err != nil {
		if errors.Is(result.Err, exec.ErrNotFound) {
			return "", domain.ErrGitNotFound
		}
		return "", fmt.Errorf("git rev-parse --show-toplevel: %w", result.Err)
	}
	if result.State == domain.Failed {
		if strings.Contains(result.Stderr, "not a git repository") {
			return "", domain.ErrNotGitRepo
		}
		return "", fmt.Errorf("git rev-parse --show-toplevel: %w: %s", domain.ErrNotGitRepo, strings.TrimSpace(result.Stderr))
	}

	root := strings.TrimSpace(result.Stdout)
	if root == "" {
		return "", domain.ErrNotGitRepo
	}
	return root, nil
}

// HooksPathOverride returns the value of core.hooksPath, or "" when unset.
// When set, git runs hooks from there instead of .git/hooks.
func (c *Client) HooksPathOverride(ctx context.Context) (string, error) {
	result := c.run(ctx, "config", "--get", "core.hooksPath")

	if result.Err != nil {
		return "", fmt.Errorf("git config --get core.hooksPath: %w", result.Err)
	}
	// git config exits 1 when the key is not set.
	if result.State == domain.Failed {
		if result.ExitCode == 1 {
			return "", nil
		}
		return "", fmt.Errorf("git config --get core.hooksPath: %s", strings.TrimSpace(result.Stderr))
	}

	return strings.TrimSpace(result.Stdout), nil
}

func (c *Client) run(ctx context.Context, args ...string) domain.CommandResult {
	return c.runner.Run(ctx, domain.Command{
		Name:       gitBinary,
		Args:       args,
		WorkingDir: c.dir,
	})
}
