package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/erazemk/imenik/internal/model"
	"github.com/erazemk/imenik/internal/state"
)

// NewPeopleCommand creates the people command group.
func NewPeopleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "people",
		Aliases: []string{"person", "contacts"},
		Short:   "Manage your contacts",
	}
	cmd.AddCommand(newPeopleListCommand(rootOpts))
	cmd.AddCommand(newPeopleAddCommand(rootOpts))
	cmd.AddCommand(newPeopleEditCommand(rootOpts))
	cmd.AddCommand(newPeopleRemoveCommand(rootOpts))
	return cmd
}

func newPeopleListCommand(rootOpts *RootOptions) *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.sync.FetchPeople(cmd.Context()); err != nil {
				return err
			}

			people := a.store.People().Snapshot().Items
			if companyID != "" {
				people = state.PeopleByCompany(people, companyID)
			}
			return a.out.Success(people, func(w io.Writer) error { return renderPeople(w, people) })
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "only people at this company id")
	return cmd
}

// findCompany fetches the companies and returns the one with id.
func (a *app) findCompany(ctx context.Context, id string) (*model.Company, error) {
	if err := a.sync.FetchCompanies(ctx); err != nil {
		return nil, err
	}
	for _, c := range a.store.Companies().Snapshot().Items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, NewExitError(ExitFailure, fmt.Sprintf("no company with id %q", id))
}

// findPerson fetches the contacts and returns the one with id.
func (a *app) findPerson(ctx context.Context, id string) (model.Person, error) {
	if err := a.sync.FetchPeople(ctx); err != nil {
		return model.Person{}, err
	}
	for _, p := range a.store.People().Snapshot().Items {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Person{}, NewExitError(ExitFailure, fmt.Sprintf("no person with id %q", id))
}

type personFlags struct {
	name      string
	companyID string
	noCompany bool
	notes     string
}

func (f *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "full name")
	cmd.Flags().StringVar(&f.companyID, "company", "", "id of the company the person works at")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

// apply copies the flags that were set onto p. The company name is copied
// from the company as it is now.
func (f *personFlags) apply(ctx context.Context, cmd *cobra.Command, a *app, p *model.Person) error {
	if cmd.Flags().Changed("name") {
		p.Name = f.name
	}
	if cmd.Flags().Changed("notes") {
		p.Notes = f.notes
	}
	switch {
	case f.noCompany:
		p.AssignCompany(nil)
	case f.companyID != "":
		c, err := a.findCompany(ctx, f.companyID)
		if err != nil {
			return err
		}
		p.AssignCompany(c)
	}
	return p.Validate()
}

func newPeopleAddCommand(rootOpts *RootOptions) *cobra.Command {
	f := &personFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			var p model.Person
			if err := f.apply(cmd.Context(), cmd, a, &p); err != nil {
				return err
			}
			created, err := a.sync.CreatePerson(cmd.Context(), p)
			if err != nil {
				return err
			}
			return a.out.Success(created, func(w io.Writer) error { return renderPerson(w, created) })
		},
	}
	f.register(cmd)
	return cmd
}

func newPeopleEditCommand(rootOpts *RootOptions) *cobra.Command {
	f := &personFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			p, err := a.findPerson(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := f.apply(cmd.Context(), cmd, a, &p); err != nil {
				return err
			}
			if err := a.sync.UpdatePerson(cmd.Context(), p); err != nil {
				return err
			}
			return a.out.Success(p, func(w io.Writer) error { return renderPerson(w, p) })
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.noCompany, "no-company", false, "unlink the person from their company")
	cmd.MarkFlagsMutuallyExclusive("company", "no-company")
	return cmd
}

func newPeopleRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.sync.DeletePerson(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted %s\n", args[0])
				return err
			})
		},
	}
}
