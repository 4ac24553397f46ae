// Package config loads glm-usage settings and resolves the monitoring platform.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appName = "glm-usage"

// Viper keys
const (
	KeyAuthToken = "auth_token"
	KeyBaseURL   = "base_url"
	KeyFormat    = "format"
	KeyVerbose   = "verbose"
)

var (
	// ErrMissingAuthToken is returned when no auth token was configured.
	ErrMissingAuthToken = errors.New("ANTHROPIC_AUTH_TOKEN is not set")
	// ErrMissingBaseURL is returned when no base URL was configured.
	ErrMissingBaseURL = errors.New("ANTHROPIC_BASE_URL is not set")
)

// envBindings lists the environment variables read for each key.
var envBindings = map[string][]string{
	KeyAuthToken: {"ANTHROPIC_AUTH_TOKEN"},
	KeyBaseURL:   {"ANTHROPIC_BASE_URL"},
	KeyFormat:    {"GLM_USAGE_FORMAT"},
	KeyVerbose:   {"GLM_USAGE_VERBOSE"},
}

// Config is built once at startup and handed to every component.
type Config struct {
	AuthToken string
	BaseURL   string
	Format    string
	Verbose   bool
}

// Validate checks that both required values are present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AuthToken) == "" {
		return fmt.Errorf(`%w. 请设置环境变量: export ANTHROPIC_AUTH_TOKEN="your-token"`, ErrMissingAuthToken)
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf(`%w. 请设置环境变量: export ANTHROPIC_BASE_URL="https://open.bigmodel.cn/api/anthropic"`, ErrMissingBaseURL)
	}
	return nil
}

// Platform resolves the platform for the configured base URL.
func (c Config) Platform() (PlatformConfig, error) {
	return Resolve(c.BaseURL)
}

// Loader reads settings from flags, the environment and the config file.
type Loader struct {
	v         *viper.Viper
	configDir string // $XDG_CONFIG_HOME/glm-usage (defaults to ~/.config/glm-usage)
}

// NewLoader creates a loader backed by v. Flags should already be bound to v
// under the Key* names.
func NewLoader(v *viper.Viper) *Loader {
	return NewLoaderIn(v, filepath.Join(xdg.ConfigHome, appName))
}

// NewLoaderIn is like NewLoader but looks for config.yaml in dir.
func NewLoaderIn(v *viper.Viper, dir string) *Loader {
	return &Loader{v: v, configDir: dir}
}

// Path returns the location of the optional config file.
func (l *Loader) Path() string {
	return filepath.Join(l.configDir, "config.yaml")
}

// Load merges flags, environment and config file, in that order of
// precedence. A missing config file is fine; a broken one is not.
// Load does not validate: callers decide when missing values are fatal.
func (l *Loader) Load() (Config, error) {
	if err := l.bindEnv(); err != nil {
		return Config{}, err
	}

	path := l.Path()
	if _, err := os.Stat(path); err == nil {
		l.v.SetConfigFile(path)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}

	return l.config(), nil
}

// LoadFlagsEnv is like Load but never touches the config file.
func (l *Loader) LoadFlagsEnv() (Config, error) {
	if err := l.bindEnv(); err != nil {
		return Config{}, err
	}
	return l.config(), nil
}

func (l *Loader) bindEnv() error {
	for key, envs := range envBindings {
		if err := l.v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}

func (l *Loader) config() Config {
	return Config{
		AuthToken: strings.TrimSpace(l.v.GetString(KeyAuthToken)),
		BaseURL:   strings.TrimSpace(l.v.GetString(KeyBaseURL)),
		Format:    strings.TrimSpace(l.v.GetString(KeyFormat)),
		Verbose:   l.v.GetBool(KeyVerbose),
	}
}
