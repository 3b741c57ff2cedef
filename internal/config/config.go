// Package config holds all linkreach configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultMessage is the templated outreach note used when none is supplied.
const DefaultMessage = "Hi! I'm a motivated engineer looking for SDE/Full Stack/AI roles. " +
	"I'd love to connect and learn about opportunities at your company. Thank you!"

// Config holds one run's settings. CLI flags override file values; the
// credential fields additionally honor environment overrides so secrets can
// stay out of shell history.
type Config struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`

	// ExcelPath locates the record store. A relative path is resolved
	// against the executable's directory, not the working directory.
	ExcelPath string `yaml:"excel_path"`
	Limit     int    `yaml:"limit"`
	Message   string `yaml:"message"`

	// API strategy settings.
	RefreshCookies    bool    `yaml:"refresh_cookies"`
	NoFollow          bool    `yaml:"nofollow"`
	CookiePath        string  `yaml:"cookie_path"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// UI strategy settings.
	Headless bool `yaml:"headless"`
}

// DefaultConfig returns the defaults for a run.
func DefaultConfig() Config {
	return Config{
		ExcelPath:         "linkedin-data.xlsx",
		Limit:             20,
		Message:           DefaultMessage,
		RequestsPerSecond: 0.5,
		CookiePath:        defaultCookiePath(),
	}
}

// DefaultPath returns the conventional config file location, empty when the
// user config dir cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "linkreach", "config.yaml")
}

// LoadOrDefault reads the config file at path, falling back to the defaults
// when the path is empty or the file does not exist. A file that exists but
// cannot be parsed is an error, not a silent fallback. Environment
// overrides apply in every case.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a config file and applies environment overrides on top.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Save writes the config as yaml.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ApplyEnvOverrides pulls credentials from the environment when set.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LINKREACH_EMAIL"); v != "" {
		c.Email = v
	}
	if v := os.Getenv("LINKREACH_PASSWORD"); v != "" {
		c.Password = v
	}
}

// Validate checks the fields every strategy needs.
func (c Config) Validate() error {
	if c.Email == "" {
		return errors.New("email is required (--email or LINKREACH_EMAIL)")
	}
	if c.Password == "" {
		return errors.New("password is required (--password or LINKREACH_PASSWORD)")
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	return nil
}

// ResolvedExcelPath resolves ExcelPath against the executable's directory
// when relative, so the tool finds its workbook regardless of where it is
// invoked from.
func (c Config) ResolvedExcelPath() (string, error) {
	if filepath.IsAbs(c.ExcelPath) {
		return c.ExcelPath, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), c.ExcelPath), nil
}

func defaultCookiePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "linkreach", "cookies.json")
}
