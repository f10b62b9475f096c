// Package config provides YAML-based configuration loading for Pitwall.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Pitwall configuration, loaded from pitwall.yaml.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Reports   []ReportConfig  `yaml:"reports"`
	Notify    NotifyConfig    `yaml:"notify"`
	Publish   PublishConfig   `yaml:"publish"`
}

// StoreConfig selects and locates the key-value store backend.
type StoreConfig struct {
	Driver   string `yaml:"driver"` // "sqlite" (default) or "mysql"
	Path     string `yaml:"path"`   // sqlite file
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
}

// DashboardConfig holds HTTP dashboard settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// ReportConfig declares the column schema for one report type. When present
// it replaces column discovery for that type.
type ReportConfig struct {
	Type   string   `yaml:"type"`
	Fields []string `yaml:"fields"`
}

// NotifyConfig configures the scheduled coverage digest.
type NotifyConfig struct {
	Schedule string        `yaml:"schedule"` // 5-field cron expression
	Event    string        `yaml:"event"`
	Mode     string        `yaml:"mode"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack bot credentials.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord bot credentials.
type DiscordConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// PublishConfig holds credentials for publishing reports as gists.
type PublishConfig struct {
	GitHubToken string `yaml:"github_token"`
}

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.expandEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Schema returns the declared field list for a report type, or nil when the
// type has no declared schema.
func (c *Config) Schema(reportType string) []string {
	for _, r := range c.Reports {
		if r.Type == reportType {
			return r.Fields
		}
	}
	return nil
}

// NotifyEnabled reports whether a digest schedule and at least one chat
// platform are configured.
func (c *Config) NotifyEnabled() bool {
	if c.Notify.Schedule == "" {
		return false
	}
	return c.Notify.Slack.BotToken != "" || c.Notify.Discord.BotToken != ""
}

// expandEnv resolves $VAR references in secrets so tokens can stay out of
// the config file.
func (c *Config) expandEnv() {
	c.Notify.Slack.BotToken = os.ExpandEnv(c.Notify.Slack.BotToken)
	c.Notify.Discord.BotToken = os.ExpandEnv(c.Notify.Discord.BotToken)
	c.Publish.GitHubToken = os.ExpandEnv(c.Publish.GitHubToken)
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			c.Store.Path = "pitwall.db"
		}
	case "mysql":
		if c.Store.Host == "" {
			c.Store.Host = "127.0.0.1"
		}
		if c.Store.Port == 0 {
			c.Store.Port = 3306
		}
		if c.Store.Database == "" {
			c.Store.Database = "pitwall"
		}
		if c.Store.User == "" {
			c.Store.User = "root"
		}
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Notify.Mode == "" {
		c.Notify.Mode = "pit"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Store.Driver != "sqlite" && c.Store.Driver != "mysql" {
		errs = append(errs, fmt.Sprintf("store.driver %q must be sqlite or mysql", c.Store.Driver))
	}
	seen := make(map[string]bool)
	for i, r := range c.Reports {
		if r.Type == "" {
			errs = append(errs, fmt.Sprintf("reports[%d].type is required", i))
			continue
		}
		if strings.Contains(r.Type, "-") {
			errs = append(errs, fmt.Sprintf("reports[%d].type %q must not contain '-'", i, r.Type))
		}
		if seen[r.Type] {
			errs = append(errs, fmt.Sprintf("reports[%d].type %q is declared twice", i, r.Type))
		}
		seen[r.Type] = true
		if len(r.Fields) == 0 {
			errs = append(errs, fmt.Sprintf("reports[%d].fields is required", i))
		}
	}
	if c.Notify.Schedule != "" {
		if _, err := cronParser.Parse(c.Notify.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("notify.schedule %q: %v", c.Notify.Schedule, err))
		}
		if c.Notify.Event == "" {
			errs = append(errs, "notify.event is required when notify.schedule is set")
		}
	}
	if c.Notify.Slack.BotToken != "" && c.Notify.Slack.Channel == "" {
		errs = append(errs, "notify.slack.channel is required")
	}
	if c.Notify.Discord.BotToken != "" && c.Notify.Discord.Channel == "" {
		errs = append(errs, "notify.discord.channel is required")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
