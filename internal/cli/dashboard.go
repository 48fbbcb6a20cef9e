package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/erazemk/imenik/internal/state"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show how many clients and companies there are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.sync.FetchPeople(cmd.Context()); err != nil {
				return err
			}
			if err := a.sync.FetchCompanies(cmd.Context()); err != nil {
				return err
			}

			d := dashboard{
				Email:   a.client.Session().Email,
				Summary: state.Summarize(a.store.Snapshot()),
			}
			return a.out.Success(d, func(w io.Writer) error { return renderDashboard(w, d) })
		},
	}
}
