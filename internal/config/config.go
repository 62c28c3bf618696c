package config

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/logger"
)

const (
	EnvURL                = "NPM_URL"
	EnvEmail              = "NPM_EMAIL"
	EnvPassword           = "NPM_PASSWORD"
	EnvReadonly           = "NPM_READONLY"
	EnvTimeout            = "NPM_TIMEOUT"
	EnvInsecureSkipVerify = "NPM_INSECURE_SKIP_VERIFY"
	EnvLogLevel           = "NPMATE_LOG_LEVEL"
	EnvLogDir             = "NPMATE_LOG_DIR"
	EnvConfigDir          = "NPMATE_CONFIG_DIR"

	DefaultURL = "http://localhost:81"
)

var (
	// configDir is the configuration directory path
	// Can be set via SetConfigDir before loading config
	configDir     string
	configDirInit bool
)

// SetConfigDir sets a custom configuration directory
// Must be called before any config loading functions
func SetConfigDir(dir string) {
	configDir = dir
	configDirInit = true
}

// GetConfigDir returns the configuration directory
// Priority: 1. SetConfigDir, 2. NPMATE_CONFIG_DIR, 3. ./config in current directory
func GetConfigDir() string {
	if !configDirInit {
		if dir := strings.TrimSpace(os.Getenv(EnvConfigDir)); dir != "" {
			configDir = dir
		} else if cwd, err := os.Getwd(); err == nil {
			configDir = filepath.Join(cwd, "config")
		}
		configDirInit = true
	}
	return configDir
}

// Config application configuration structure
type Config struct {
	NPM NPMConfig `yaml:"npm"`
	Log LogConfig `yaml:"log"`
}

// NPMConfig connection settings for the Nginx Proxy Manager API
type NPMConfig struct {
	URL                string        `yaml:"url"`
	Email              string        `yaml:"email"`
	Password           string        `yaml:"password,omitempty"`
	Readonly           bool          `yaml:"readonly"`
	Timeout            time.Duration `yaml:"timeout"` // 0 disables the client timeout
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level   string `yaml:"level"`
	Dir     string `yaml:"dir"`
	MaxDays int    `yaml:"max_days"`
	Console bool   `yaml:"console"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		NPM: NPMConfig{
			URL: DefaultURL,
		},
		Log: LogConfig{
			Level:   "info",
			MaxDays: 7,
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	dir := GetConfigDir()
	if dir == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return dir, nil
}

// LogDir returns the log directory path
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return c.Log.Dir
	}
	dir := GetConfigDir()
	if dir == "" {
		return "logs"
	}
	return filepath.Join(dir, "logs")
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load layers defaults, config.yaml, the .secrets file and the environment.
// Credentials are not checked here; call Validate before talking to NPM.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperr.Config("failed to parse config file %s: %v", configPath, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	secrets, err := LoadSecrets()
	if err != nil {
		return nil, err
	}
	cfg.NPM.Email = secrets.GetOrDefault(EnvEmail, cfg.NPM.Email)
	cfg.NPM.Password = secrets.GetOrDefault(EnvPassword, cfg.NPM.Password)

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvURL); ok && strings.TrimSpace(v) != "" {
		c.NPM.URL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvEmail); ok && strings.TrimSpace(v) != "" {
		c.NPM.Email = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPassword); ok && v != "" {
		c.NPM.Password = v
	}
	// Only the literal "true" enables readonly mode
	if v, ok := lookup(EnvReadonly); ok {
		c.NPM.Readonly = v == "true"
	}
	if v, ok := lookup(EnvTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return apperr.Config("invalid %s: %v", EnvTimeout, err)
		}
		c.NPM.Timeout = d
	}
	if v, ok := lookup(EnvInsecureSkipVerify); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return apperr.Config("invalid %s: %v", EnvInsecureSkipVerify, err)
		}
		c.NPM.InsecureSkipVerify = b
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogDir); ok && strings.TrimSpace(v) != "" {
		c.Log.Dir = strings.TrimSpace(v)
	}
	return nil
}

// Save saves configuration to file. The password is never written.
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *cfg
	out.NPM.Password = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	content := "# npmate configuration file\n# Put NPM_PASSWORD in .secrets next to this file or in the environment.\n\n" + string(data)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.NPM.URL) == "" {
		return apperr.Config("%s cannot be empty", EnvURL)
	}
	u, err := url.Parse(c.NPM.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return apperr.Config("%s must be an absolute URL (scheme://host), got %q", EnvURL, c.NPM.URL)
	}
	if c.NPM.Email == "" && c.NPM.Password == "" {
		return apperr.Config("%s and %s are required", EnvEmail, EnvPassword)
	}
	if c.NPM.Email == "" {
		return apperr.Config("%s is required", EnvEmail)
	}
	if c.NPM.Password == "" {
		return apperr.Config("%s is required", EnvPassword)
	}
	if c.NPM.Timeout < 0 {
		return apperr.Config("%s must not be negative", EnvTimeout)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return apperr.Config("invalid log level: %v", err)
	}
	return nil
}

// LoggerConfig converts the log section for logger.Init
func (c *Config) LoggerConfig() logger.Config {
	level, _ := logger.ParseLevel(c.Log.Level)
	return logger.Config{
		LogDir:     c.LogDir(),
		Level:      level,
		MaxDays:    c.Log.MaxDays,
		ConsoleOut: c.Log.Console,
	}
}

// HTTPClient builds the client used for NPM requests
func (c *Config) HTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.NPM.InsecureSkipVerify, // nolint:gosec -- opt-in for self-signed NPM installs
		},
	}
	return &http.Client{
		Timeout:   c.NPM.Timeout,
		Transport: transport,
	}
}

// String returns string representation of config (hides sensitive info)
func (c *Config) String() string {
	timeout := "none"
	if c.NPM.Timeout > 0 {
		timeout = c.NPM.Timeout.String()
	}
	email := c.NPM.Email
	if email == "" {
		email = "(not configured)"
	}

	return fmt.Sprintf(`npmate configuration:
  NPM:
    URL: %s
    Email: %s
    Password: %s
    Readonly: %v
    Timeout: %s
    Insecure Skip Verify: %v
  Log:
    Level: %s
    Dir: %s
    Max Days: %d
    Console: %v`,
		c.NPM.URL,
		email,
		redactSecret(c.NPM.Password),
		c.NPM.Readonly,
		timeout,
		c.NPM.InsecureSkipVerify,
		c.Log.Level,
		c.LogDir(),
		c.Log.MaxDays,
		c.Log.Console,
	)
}

func redactSecret(value string) string {
	if value == "" {
		return "(not configured)"
	}
	return "***"
}
