package config

import (
	"fmt"
	"os"
	"strconv"

	"SessionAtlas/internal/calculator"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceCSV    = "csv"
	SourceKlines = "klines"
	SourceYahoo  = "yahoo"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		Kind     string `yaml:"kind"`
		Path     string `yaml:"path"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Symbol   string `yaml:"symbol"`
		Interval string `yaml:"interval"`
		Limit    int    `yaml:"limit"`
		Range    string `yaml:"range"`
	} `yaml:"source"`
	Thresholds calculator.Thresholds `yaml:"thresholds"`
	Output     struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Database struct {
		Driver string `yaml:"driver"` // sqlite, postgres, or empty for none
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"` // empty runs once and exits
	} `yaml:"schedule"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Thresholds: calculator.DefaultThresholds()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"ATLAS_SOURCE_KIND", &c.Source.Kind},
		{"ATLAS_SOURCE_PATH", &c.Source.Path},
		{"ATLAS_SOURCE_URL", &c.Source.BaseURL},
		{"ATLAS_API_KEY", &c.Source.APIKey},
		{"ATLAS_SYMBOL", &c.Source.Symbol},
		{"ATLAS_OUTPUT_DIR", &c.Output.Dir},
		{"ATLAS_DB_DRIVER", &c.Database.Driver},
		{"ATLAS_DB_DSN", &c.Database.DSN},
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"ATLAS_CRON", &c.Schedule.Cron},
		{"HTTPS_PROXY", &c.Proxy},
		{"LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("ATLAS_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Source.Limit = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		switch {
		case c.Source.Path != "":
			c.Source.Kind = SourceCSV
		case c.Source.BaseURL != "":
			c.Source.Kind = SourceKlines
		default:
			c.Source.Kind = SourceYahoo
		}
	}
	if c.Source.Symbol == "" {
		c.Source.Symbol = "SPX500"
	}
	if c.Source.Interval == "" {
		c.Source.Interval = "1h"
	}
	if c.Source.Limit == 0 {
		c.Source.Limit = 1000
	}
	if c.Source.Range == "" {
		c.Source.Range = "60d"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
		c.Database.DSN = "data/session_atlas.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// SanitizeThresholds replaces unusable classifier thresholds with defaults
// and returns the names of the replaced fields.
func (c *Config) SanitizeThresholds() []string {
	th, notes := c.Thresholds.Sanitize()
	c.Thresholds = th
	return notes
}

// NotifyEnabled reports whether Telegram credentials are configured.
func (c *Config) NotifyEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for csv sources")
		}
	case SourceKlines:
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url is required for klines sources")
		}
	case SourceYahoo:
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}
	if c.Source.Limit < 0 {
		return fmt.Errorf("source.limit must not be negative")
	}
	switch c.Database.Driver {
	case "", "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
