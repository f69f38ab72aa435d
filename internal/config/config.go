package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the runtime settings of folio.
type Config struct {
	APIURL       string
	Timeout      time.Duration
	PollInterval time.Duration
	LogFile      string
	LogLevel     string
	MetricsAddr  string
}

// Environment variables consulted by Load. They override the config file.
const (
	EnvAPIURL      = "FOLIO_API_URL"
	EnvTimeout     = "FOLIO_HTTP_TIMEOUT"
	EnvPoll        = "FOLIO_POLL_INTERVAL"
	EnvLogFile     = "FOLIO_LOG_FILE"
	EnvLogLevel    = "FOLIO_LOG_LEVEL"
	EnvMetricsAddr = "FOLIO_METRICS_ADDR"
)

const (
	defaultConfigPath = "~/.config/folio/config.toml"
	defaultLogFile    = "~/.local/state/folio/folio.log"
	defaultAPIURL     = "http://127.0.0.1:8000"
	defaultTimeout    = 10 * time.Second
	defaultPoll       = 30 * time.Second
	defaultLogLevel   = "info"
)

// Load reads the TOML file at path (or the default location), then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:       defaultAPIURL,
		Timeout:      defaultTimeout,
		PollInterval: defaultPoll,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := cfg.applyFile(raw); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

type fileConfig struct {
	APIURL      string `toml:"api_url"`
	Timeout     string `toml:"timeout"`
	Poll        string `toml:"poll_interval"`
	LogFile     string `toml:"log_file"`
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return bytes, nil
}

func (c *Config) applyFile(bytes []byte) error {
	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("parse config: invalid timeout %q", raw.Timeout)
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(raw.Poll); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("parse config: invalid poll_interval %q", raw.Poll)
		}
		c.PollInterval = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	c.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	return nil
}

func (c *Config) applyEnv() {
	c.APIURL = envOrDefault(EnvAPIURL, c.APIURL)
	c.Timeout = envPositiveDuration(EnvTimeout, c.Timeout)
	c.PollInterval = envPositiveDuration(EnvPoll, c.PollInterval)
	if v := envOrDefault(EnvLogFile, ""); v != "" {
		c.LogFile = mustExpand(v)
	}
	c.LogLevel = strings.ToLower(envOrDefault(EnvLogLevel, c.LogLevel))
	c.MetricsAddr = envOrDefault(EnvMetricsAddr, c.MetricsAddr)
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

// envPositiveDuration accepts Go durations ("5s") or whole seconds ("5").
func envPositiveDuration(key string, defaultVal time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return defaultVal
		}
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// Overrides carries command-line values. Zero fields leave the loaded value
// alone, so flags win over the environment and the file only when set.
type Overrides struct {
	APIURL       string
	Timeout      time.Duration
	PollInterval time.Duration
	LogFile      string
	LogLevel     string
	MetricsAddr  string
}

// Apply copies every non-zero override onto c.
func (o Overrides) Apply(c *Config) {
	if v := strings.TrimSpace(o.APIURL); v != "" {
		c.APIURL = v
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.PollInterval > 0 {
		c.PollInterval = o.PollInterval
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(o.MetricsAddr); v != "" {
		c.MetricsAddr = v
	}
}
