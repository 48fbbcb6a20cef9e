package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/imenik/internal/model"
	"github.com/erazemk/imenik/internal/state"
)

// NewCompaniesCommand creates the companies command group.
func NewCompaniesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage the shared company list",
	}
	cmd.AddCommand(newCompaniesListCommand(rootOpts))
	cmd.AddCommand(newCompaniesShowCommand(rootOpts))
	cmd.AddCommand(newCompaniesAddCommand(rootOpts))
	cmd.AddCommand(newCompaniesEditCommand(rootOpts))
	cmd.AddCommand(newCompaniesRemoveCommand(rootOpts))
	cmd.AddCommand(newCompaniesLogoCommand(rootOpts))
	return cmd
}

func newCompaniesListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.sync.FetchCompanies(cmd.Context()); err != nil {
				return err
			}
			companies := a.store.Companies().Snapshot().Items
			return a.out.Success(companies, func(w io.Writer) error { return renderCompanies(w, companies) })
		},
	}
}

func newCompaniesShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a company and the people who work there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			c, err := a.findCompany(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.sync.FetchPeople(cmd.Context()); err != nil {
				return err
			}

			d := companyDetail{
				Company: *c,
				People:  state.PeopleByCompany(a.store.People().Snapshot().Items, c.ID),
			}
			return a.out.Success(d, func(w io.Writer) error { return renderCompanyDetail(w, d) })
		},
	}
}

func renderCompany(c model.Company) func(io.Writer) error {
	return func(w io.Writer) error { return renderCompanies(w, []model.Company{c}) }
}

func newCompaniesAddCommand(rootOpts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Company{Name: name}
			if err := c.Validate(); err != nil {
				return err
			}

			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			created, err := a.sync.CreateCompany(cmd.Context(), c)
			if err != nil {
				return err
			}
			return a.out.Success(created, renderCompany(created))
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "company name")
	return cmd
}

func newCompaniesEditCommand(rootOpts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a company",
		Long: `Rename a company.

People already linked to the company keep showing the old name until they
are edited again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Company{ID: args[0], Name: name}
			if err := c.Validate(); err != nil {
				return err
			}

			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.sync.UpdateCompany(cmd.Context(), c); err != nil {
				return err
			}
			return a.out.Success(c, renderCompany(c))
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new company name")
	return cmd
}

func newCompaniesRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a company",
		Long: `Delete a company.

People linked to the company are not changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.sync.DeleteCompany(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted %s\n", args[0])
				return err
			})
		},
	}
}

func newCompaniesLogoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logo",
		Short: "Upload or download a company logo",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> <file>",
		Short: "Upload a JPEG or PNG logo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "reading logo", err)
			}

			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.sync.SetCompanyLogo(cmd.Context(), args[0], data); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"logo": args[0]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logo set for %s\n", args[0])
				return err
			})
		},
	})

	var outPath string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Download a logo to a file, or to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			data, _, err := a.sync.CompanyLogo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return WrapExitError(ExitFailure, "writing logo", err)
			}
			return nil
		},
	}
	get.Flags().StringVarP(&outPath, "output", "o", "", "file to write the logo to")
	cmd.AddCommand(get)

	return cmd
}
