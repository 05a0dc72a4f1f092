package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openark-net/githooks/pkg/hooks/application"
	"github.com/openark-net/githooks/pkg/hooks/domain"
	"github.com/openark-net/githooks/pkg/hooks/interfaces/presenter"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func statusCommand(deps Deps) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether each hook is installed, up to date and executable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatYAML {
				return fmt.Errorf("unknown format %q, want %s or %s", format, formatText, formatYAML)
			}

			pres := presenter.New(cmd.OutOrStdout())

			root, err := deps.Repo.RepoRoot(cmd.Context())
			if err != nil {
				pres.Error(err)
				return shownError{err}
			}

			layout := domain.NewLayout(root)
			statuses := application.Status(deps.FS, layout)

			if format == formatYAML {
				err = pres.StatusYAML(layout, statuses)
			} else {
				err = pres.StatusTable(layout, statuses)
			}
			if err != nil {
				return err
			}

			if !application.AllHealthy(statuses) {
				return shownError{ErrUnhealthy}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or yaml")

	return cmd
}
