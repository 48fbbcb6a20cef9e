package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/erazemk/imenik/internal/client"
	"github.com/erazemk/imenik/internal/config"
	"github.com/erazemk/imenik/internal/crm"
	"github.com/erazemk/imenik/internal/logging"
	"github.com/erazemk/imenik/internal/state"
)

// app is everything a client command needs: the remote client, the local
// store and the syncer operating on both.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	client *client.Client
	store  *state.Store
	sync   *crm.Syncer
	out    *OutputFormatter
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, WrapExitError(ExitCommandError, "loading config", err)
	}
	if opts.ServerURL != "" {
		cfg.Client.ServerURL = opts.ServerURL
	}
	if opts.SessionPath != "" {
		cfg.Client.SessionPath = opts.SessionPath
	}
	if opts.LogLevel != "" {
		cfg.Server.LogLevel = opts.LogLevel
		cfg.Client.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return cfg, nil
}

// newApp builds the client side and restores a saved session, if any.
func newApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.Client.LogLevel)
	logger := logging.NewCLI(level, cmd.ErrOrStderr())

	c := client.New(cfg.Client.ServerURL, cfg.Client.Timeout)
	session, err := client.LoadSession(cfg.Client.SessionPath)
	if err != nil {
		logger.Warn("ignoring unreadable session file", "path", cfg.Client.SessionPath, "error", err)
	}
	c.SetSession(session)

	st := state.New()
	return &app{
		cfg:    cfg,
		logger: logger,
		client: c,
		store:  st,
		sync:   crm.New(c, c, st, logger),
		out:    &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}, nil
}

func (a *app) saveSession(s *client.Session) error {
	if err := client.SaveSession(a.cfg.Client.SessionPath, s); err != nil {
		return WrapExitError(ExitFailure, "signed in but could not save the session", err)
	}
	return nil
}

// requireSession fails early for commands that only make sense signed in.
func (a *app) requireSession() error {
	if a.client.CurrentUserID() == "" {
		return crm.ErrNotAuthenticated
	}
	return nil
}

var errMissingCredentials = NewExitError(ExitCommandError, "email and password are required")

func requireCredentials(email, password string) error {
	if email == "" || password == "" {
		return errMissingCredentials
	}
	return nil
}
