package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the client configuration. Values come from defaults, then the
// YAML file, then DOCDRILL_* environment variables.
type Config struct {
	// ServerURL is the root of the practice service.
	ServerURL string `yaml:"server_url" validate:"required,url"`

	// RequestTimeout bounds each blocking request. Zero disables the limit.
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`

	// SaveTimeout bounds each background note save attempt.
	SaveTimeout time.Duration `yaml:"save_timeout" validate:"gt=0"`

	// SaveAttempts is how many times a background note save is tried.
	SaveAttempts int `yaml:"save_attempts" validate:"gte=1,lte=10"`

	// LogFile is the rotating JSON log written by the client.
	LogFile string `yaml:"log_file" validate:"required"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Journal is the SQLite file holding the local event journal.
	Journal string `yaml:"journal" validate:"required"`

	// Device is reported with quick practice answers.
	Device string `yaml:"device" validate:"required"`
}

// DefaultConfig returns a Config with defaults resolved against the XDG
// base directories.
func DefaultConfig() Config {
	return Config{
		ServerURL:      "http://localhost:8000",
		RequestTimeout: 0,
		SaveTimeout:    15 * time.Second,
		SaveAttempts:   3,
		LogFile:        filepath.Join(stateHome(), "docdrill", "docdrill.log"),
		LogLevel:       "info",
		Journal:        filepath.Join(dataHome(), "docdrill", "journal.db"),
		Device:         "terminal",
	}
}

// DefaultPath resolves the config file path:
// 1. DOCDRILL_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/docdrill/config.yml
// 3. ~/.config/docdrill/config.yml
func DefaultPath() string {
	if p := os.Getenv("DOCDRILL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configHome(), "docdrill", "config.yml")
}

// Load reads .env, the YAML file at path and the environment. A missing
// file is not an error; an empty path means DefaultPath.
func Load(path string) (Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DOCDRILL_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("DOCDRILL_REQUEST_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("DOCDRILL_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("DOCDRILL_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("DOCDRILL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DOCDRILL_JOURNAL"); v != "" {
		cfg.Journal = v
	}
	if v := os.Getenv("DOCDRILL_DEVICE"); v != "" {
		cfg.Device = v
	}
	return nil
}

// parseDuration accepts Go durations ("90s") or bare seconds ("90").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func configHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".config")
}

func dataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".local", "share")
}

func stateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".local", "state")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
