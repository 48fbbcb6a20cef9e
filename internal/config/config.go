// Package config loads imenik's YAML configuration.
//
// Values are resolved in order: built-in defaults, the YAML file (if any),
// IMENIK_* environment variables, then command-line flags applied by the
// caller. Validate is run on the result.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/imenik/internal/logging"
)

// Config is the full configuration file.
type Config struct {
	Server Server `yaml:"server"`
	Client Client `yaml:"client"`
}

// Server configures `imenik serve`.
type Server struct {
	Addr     string `yaml:"addr"`
	DBPath   string `yaml:"db_path"`
	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"`
	Metrics  bool   `yaml:"metrics"`
}

// Client configures the commands that talk to a server.
type Client struct {
	ServerURL   string `yaml:"server_url"`
	SessionPath string `yaml:"session_path"`
	// Timeout bounds each remote request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the console log level of client commands.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:     ":8080",
			DBPath:   "imenik.sqlite3",
			LogLevel: "info",
			Metrics:  true,
		},
		Client: Client{
			ServerURL:   "http://localhost:8080",
			SessionPath: defaultSessionPath(),
			LogLevel:    "warn",
		},
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".imenik-session.yaml"
	}
	return filepath.Join(dir, "imenik", "session.yaml")
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path skips the file. A path that does not exist is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"IMENIK_ADDR":             &cfg.Server.Addr,
		"IMENIK_DB":               &cfg.Server.DBPath,
		"IMENIK_LOG":              &cfg.Server.LogPath,
		"IMENIK_LOG_LEVEL":        &cfg.Server.LogLevel,
		"IMENIK_SERVER_URL":       &cfg.Client.ServerURL,
		"IMENIK_SESSION":          &cfg.Client.SessionPath,
		"IMENIK_CLIENT_LOG_LEVEL": &cfg.Client.LogLevel,
	}
	for name, dst := range str {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	if v, ok := lookup("IMENIK_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("IMENIK_TIMEOUT: %w", err)
		}
		cfg.Client.Timeout = d
	}
	return nil
}

// Validate checks the fields every command relies on.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if c.Server.DBPath == "" {
		return errors.New("server.db_path must be set")
	}
	if _, err := logging.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("server.log_level: %w", err)
	}

	u, err := url.Parse(c.Client.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid client.server_url %q: %w", c.Client.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("client.server_url %q must be an absolute http(s) URL", c.Client.ServerURL)
	}
	if c.Client.SessionPath == "" {
		return errors.New("client.session_path must be set")
	}
	if _, err := logging.ParseLevel(c.Client.LogLevel); err != nil {
		return fmt.Errorf("client.log_level: %w", err)
	}
	if c.Client.Timeout < 0 {
		return errors.New("client.timeout must not be negative")
	}
	return nil
}
