// Package config resolves the bridge's credentials and server address
// from, in ascending precedence: an optional YAML file under the
// bakamcp home directory, a .env file in the working directory,
// BAKALARI_* environment variables, and command-line flags (applied
// by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the bridge needs to run.
type Config struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	ServerURL string `yaml:"server_url"`
	Debug     bool   `yaml:"debug"`
}

// HomeDir returns the bakamcp directory under the user's home, used
// for the config file and debug logs.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bakamcp"), nil
}

// Load resolves configuration from file and environment. Flag values
// are layered on top by the command layer.
func Load() (*Config, error) {
	cfg := &Config{}

	if dir, err := HomeDir(); err == nil {
		path := filepath.Join(dir, "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	// .env feeds the environment; variables already set win, so real
	// environment keeps precedence over the file.
	_ = godotenv.Load()

	if v := os.Getenv("BAKALARI_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("BAKALARI_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("BAKALARI_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("BAKAMCP_DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		cfg.Debug = true
	}

	return cfg, nil
}

// Validate checks that everything required to authenticate is present.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is required (--url, BAKALARI_URL, or config file)")
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("username and password are required (--user/--password, BAKALARI_USERNAME/BAKALARI_PASSWORD, or config file)")
	}
	return nil
}

// NormalizeServerURL trims trailing slashes and defaults the scheme
// to https when none is given, so "skola.bakalari.cz/" becomes
// "https://skola.bakalari.cz".
func NormalizeServerURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}
