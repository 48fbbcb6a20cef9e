package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/erazemk/imenik/internal/client"
)

type credentialOptions struct {
	email    string
	password string
	confirm  string
}

func addCredentialFlags(cmd *cobra.Command, o *credentialOptions) {
	cmd.Flags().StringVarP(&o.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&o.password, "password", "p", "", "account password")
}

func sessionText(verb string, s *client.Session) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s as %s\n", verb, s.Email)
		return err
	}
}

// NewSignUpCommand creates the signup command.
func NewSignUpCommand(rootOpts *RootOptions) *cobra.Command {
	o := &credentialOptions{}
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCredentials(o.email, o.password); err != nil {
				return err
			}
			if o.password != o.confirm {
				return NewExitError(ExitCommandError, "passwords do not match")
			}

			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			s, err := a.client.SignUp(cmd.Context(), o.email, o.password)
			if err != nil {
				return err
			}
			if err := a.saveSession(s); err != nil {
				return err
			}
			return a.out.Success(s, sessionText("Signed up", s))
		},
	}
	addCredentialFlags(cmd, o)
	cmd.Flags().StringVar(&o.confirm, "confirm", "", "repeat the password")
	return cmd
}

// NewSignInCommand creates the signin command.
func NewSignInCommand(rootOpts *RootOptions) *cobra.Command {
	o := &credentialOptions{}
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCredentials(o.email, o.password); err != nil {
				return err
			}

			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			s, err := a.client.SignIn(cmd.Context(), o.email, o.password)
			if err != nil {
				return err
			}
			if err := a.saveSession(s); err != nil {
				return err
			}
			return a.out.Success(s, sessionText("Signed in", s))
		},
	}
	addCredentialFlags(cmd, o)
	return cmd
}

// NewSignOutCommand creates the signout command.
func NewSignOutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.client.SignOut(cmd.Context()); err != nil {
				return err
			}
			if err := client.ClearSession(a.cfg.Client.SessionPath); err != nil {
				return err
			}
			return a.out.Success(map[string]bool{"signedOut": true}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Signed out")
				return err
			})
		},
	}
}

// NewWhoAmICommand creates the whoami command.
func NewWhoAmICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			me, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.Success(me, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s)\n", me.Email, me.UserID)
				return err
			})
		},
	}
}
