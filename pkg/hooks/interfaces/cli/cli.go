package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openark-net/githooks/pkg/hooks/application"
	"github.com/openark-net/githooks/pkg/hooks/domain"
	"github.com/openark-net/githooks/pkg/hooks/infrastructure/fsutil"
	"github.com/openark-net/githooks/pkg/hooks/infrastructure/git"
	"github.com/openark-net/githooks/pkg/hooks/infrastructure/runner"
	"github.com/openark-net/githooks/pkg/hooks/interfaces/presenter"
)

var (
	ErrInstallFailed = errors.New("hook installation failed")
	ErrUnhealthy     = errors.New("hooks are not installed or out of date")
)

// shownError marks an error the presenter has already reported.
type shownError struct {
	error
}

func (e shownError) Unwrap() error {
	return e.error
}

type Repository interface {
	domain.RepoLocator
	HooksPathOverride(ctx context.Context) (string, error)
}

type Deps struct {
	Repo Repository
	FS   domain.FileSystem
}

func DefaultDeps() Deps {
	return Deps{
		Repo: git.New(runner.New(), ""),
		FS:   fsutil.OS{},
	}
}

func Command() *cobra.Command {
	return NewCommand(DefaultDeps())
}

func NewCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "setup-hooks",
		Short:         "Install the repository's .githooks into .git/hooks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return install(cmd.Context(), deps, cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(statusCommand(deps))
	return cmd
}

func install(ctx context.Context, deps Deps, out io.Writer) error {
	pres := presenter.New(out)

	root, err := deps.Repo.RepoRoot(ctx)
	if err != nil {
		pres.Error(err)
		return shownError{err}
	}

	pres.Banner()

	inst := application.New(deps.FS)
	go pres.Run(inst.Events())
	result, err := inst.Install(domain.NewLayout(root))
	pres.Wait()

	if err != nil {
		pres.Error(err)
		return shownError{err}
	}

	pres.Summary(result)

	if hooksPath, err := deps.Repo.HooksPathOverride(ctx); err == nil && hooksPath != "" {
		pres.Warn("core.hooksPath is set to %q, git will not run hooks from .git/hooks", hooksPath)
	}

	if !result.OK() {
		return shownError{fmt.Errorf("%w: %d hook(s)", ErrInstallFailed, result.Failed())}
	}
	return nil
}

func Run() int {
	cmd := Command()
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var shown shownError
	if !errors.As(err, &shown) {
		presenter.New(cmd.ErrOrStderr()).Error(err)
	}
	return 1
}
