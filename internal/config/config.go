// Package config loads qrstudio settings from defaults, an optional YAML
// file, an optional .env file and QRSTUDIO_* environment variables, in that
// order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/storage"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QRSTUDIO_"

// Storage selects the history backend.
type Storage struct {
	Type        string `yaml:"type"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
	SSLEnabled  bool   `yaml:"ssl_enabled"`
	QuotaBytes  int    `yaml:"quota_bytes"`
}

// Defaults is the style applied when a request leaves a field empty.
type Defaults struct {
	Size            int    `yaml:"size"`
	DotColor        string `yaml:"dot_color"`
	BackgroundColor string `yaml:"background_color"`
	Level           string `yaml:"level"`
}

// Config holds all application configuration values.
type Config struct {
	Port       int      `yaml:"port"`
	LogLevel   string   `yaml:"log_level"`
	Engine     string   `yaml:"engine"`
	Storage    Storage  `yaml:"storage"`
	SessionTTL Duration `yaml:"session_ttl"`
	Defaults   Defaults `yaml:"defaults"`
}

// Duration accepts human-readable YAML values such as "30m" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	def := render.DefaultOptions()
	quota := storage.DefaultConfig().QuotaBytes
	return &Config{
		Port:       8080,
		LogLevel:   "info",
		Engine:     render.DefaultEngine,
		Storage:    Storage{Type: "memory", Path: "qrstudio.db", QuotaBytes: quota},
		SessionTTL: Duration{24 * time.Hour},
		Defaults: Defaults{
			Size:            def.Size,
			DotColor:        render.HexColor(def.DotColor),
			BackgroundColor: render.HexColor(def.BackgroundColor),
			Level:           string(def.Level),
		},
	}
}

// Load reads the YAML file at path (a missing file is not an error), then
// envFile, then the environment, and validates the result.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if envFile != "" {
		// Load never overrides variables already present in the environment.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading env file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.RenderDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	// PORT is what most hosting platforms set; the prefixed form wins.
	for _, key := range []string{"PORT", EnvPrefix + "PORT"} {
		if v := os.Getenv(key); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: invalid port %q", key, v)
			}
			cfg.Port = p
		}
	}
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Engine, "ENGINE")
	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Path, "STORAGE_PATH")
	setString(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Defaults.DotColor, "DOT_COLOR")
	setString(&cfg.Defaults.BackgroundColor, "BACKGROUND_COLOR")
	setString(&cfg.Defaults.Level, "LEVEL")

	if v := os.Getenv(EnvPrefix + "STORAGE_SSL"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.Storage.SSLEnabled = true
		case "false", "0", "no":
			cfg.Storage.SSLEnabled = false
		}
	}
	if v := os.Getenv(EnvPrefix + "QUOTA_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sQUOTA_BYTES: invalid number %q", EnvPrefix, v)
		}
		cfg.Storage.QuotaBytes = n
	}
	if v := os.Getenv(EnvPrefix + "SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSIZE: invalid number %q", EnvPrefix, v)
		}
		cfg.Defaults.Size = n
	}
	if v := os.Getenv(EnvPrefix + "SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSESSION_TTL: %w", EnvPrefix, err)
		}
		cfg.SessionTTL = Duration{d}
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		*dst = v
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// StorageConfig converts the storage section for storage.New.
func (c *Config) StorageConfig() storage.Config {
	sc := storage.DefaultConfig()
	sc.Type = c.Storage.Type
	sc.Path = c.Storage.Path
	sc.DatabaseURL = c.Storage.DatabaseURL
	sc.SSLEnabled = c.Storage.SSLEnabled
	sc.QuotaBytes = c.Storage.QuotaBytes
	return sc
}

// RenderDefaults parses the defaults section into render options.
func (c *Config) RenderDefaults() (render.Options, error) {
	base := render.DefaultOptions()
	opts := base
	opts.Size = c.Defaults.Size
	var err error
	if opts.DotColor, err = render.ParseColor(c.Defaults.DotColor, base.DotColor); err != nil {
		return render.Options{}, fmt.Errorf("defaults.dot_color: %w", err)
	}
	if opts.BackgroundColor, err = render.ParseColor(c.Defaults.BackgroundColor, base.BackgroundColor); err != nil {
		return render.Options{}, fmt.Errorf("defaults.background_color: %w", err)
	}
	if c.Defaults.Level != "" {
		if opts.Level, err = render.ParseLevel(c.Defaults.Level); err != nil {
			return render.Options{}, fmt.Errorf("defaults.level: %w", err)
		}
	}
	if err := opts.Validate(); err != nil {
		return render.Options{}, fmt.Errorf("defaults: %w", err)
	}
	return opts, nil
}
