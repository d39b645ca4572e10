// ABOUTME: Configuration loader for the imo-dms client
// ABOUTME: Layers defaults, config.yaml, .env and IMO_DMS_* environment variables

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is the hosted document-management backend
	DefaultAPIURL = "https://imo-works-dms.onrender.com"

	appDirName = "imo-dms"
	fileName   = "config.yaml"
)

// Config holds client settings
type Config struct {
	APIURL           string
	ConfigDir        string
	RequestTimeout   int // seconds
	RecentLimit      int // items shown in the home screen recent lists
	RecentFilesLimit int // items fetched by the recent files screen
	LogLevel         string
	LogFormat        string
}

// fileConfig mirrors config.yaml. Zero values mean "not set".
type fileConfig struct {
	APIURL           string `yaml:"api_url"`
	RequestTimeout   int    `yaml:"request_timeout"`
	RecentLimit      int    `yaml:"recent_limit"`
	RecentFilesLimit int    `yaml:"recent_files_limit"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
}

// dotenvFiles are loaded before the environment is read. Existing variables win.
var dotenvFiles = []string{".env"}

// DefaultDir returns the config directory: IMO_DMS_CONFIG_DIR, then XDG, then ~/.config
func DefaultDir() string {
	if dir := os.Getenv("IMO_DMS_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// Load builds the configuration. An empty configDir selects DefaultDir(),
// which sees variables set in .env.
func Load(configDir string) (*Config, error) {
	for _, f := range dotenvFiles {
		// Missing .env is the normal case
		_ = godotenv.Load(f)
	}

	if configDir == "" {
		configDir = DefaultDir()
	}

	cfg := &Config{
		APIURL:           DefaultAPIURL,
		ConfigDir:        configDir,
		RequestTimeout:   30,
		RecentLimit:      5,
		RecentFilesLimit: 500,
		LogLevel:         "info",
		LogFormat:        "text",
	}

	if err := cfg.applyFile(filepath.Join(configDir, fileName)); err != nil {
		return nil, err
	}

	cfg.APIURL = getEnv("IMO_DMS_API_URL", cfg.APIURL)
	cfg.RequestTimeout = getEnvInt("IMO_DMS_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RecentLimit = getEnvInt("IMO_DMS_RECENT_LIMIT", cfg.RecentLimit)
	cfg.RecentFilesLimit = getEnvInt("IMO_DMS_RECENT_FILES_LIMIT", cfg.RecentFilesLimit)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.APIURL = NormalizeURL(cfg.APIURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.RequestTimeout != 0 {
		c.RequestTimeout = fc.RequestTimeout
	}
	if fc.RecentLimit != 0 {
		c.RecentLimit = fc.RecentLimit
	}
	if fc.RecentFilesLimit != 0 {
		c.RecentFilesLimit = fc.RecentFilesLimit
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	return nil
}

// Validate checks numeric settings are in range
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	for _, v := range []struct {
		name  string
		value int
		max   int
	}{
		{"request_timeout", c.RequestTimeout, 600},
		{"recent_limit", c.RecentLimit, 100},
		{"recent_files_limit", c.RecentFilesLimit, 5000},
	} {
		if v.value < 1 || v.value > v.max {
			return fmt.Errorf("%s must be between 1 and %d, got %d", v.name, v.max, v.value)
		}
	}
	return nil
}

// NormalizeURL adds an https:// scheme when missing and drops trailing slashes
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	return strings.TrimRight(url, "/")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
