package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// DataConfig controls where and how roster documents are stored.
type DataConfig struct {
	// Dir holds the database or the JSON documents, plus logs.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Backend is "sqlite" or "json".
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// RosterConfig holds the duty enumeration and the qualifying weekday.
type RosterConfig struct {
	// Weekday is the English weekday name of qualifying dates.
	Weekday string `mapstructure:"weekday" yaml:"weekday"`

	// Statuses is the ordered status enumeration.
	Statuses []string `mapstructure:"statuses" yaml:"statuses"`

	// DefaultStatus must be one of Statuses.
	DefaultStatus string `mapstructure:"default_status" yaml:"default_status"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// MailConfig holds the IMAP account used to file report drafts.
type MailConfig struct {
	IMAPHost string   `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort string   `mapstructure:"imap_port" yaml:"imap_port"`
	Username string   `mapstructure:"username" yaml:"username"`
	TLS      bool     `mapstructure:"tls" yaml:"tls"`
	Mailbox  string   `mapstructure:"mailbox" yaml:"mailbox"`
	From     string   `mapstructure:"from" yaml:"from"`
	To       []string `mapstructure:"to" yaml:"to"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Data    DataConfig    `mapstructure:"data" yaml:"data"`
	Roster  RosterConfig  `mapstructure:"roster" yaml:"roster"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Mail    MailConfig    `mapstructure:"mail" yaml:"mail"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/saturday-roster/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "saturday-roster", "config.yaml")
}

// DefaultDataDir returns ~/.local/share/saturday-roster.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "data")
	}
	return filepath.Join(home, ".local", "share", "saturday-roster")
}

func defaultStatusLabels() []string {
	labels := make([]string, len(DefaultStatuses))
	for i, st := range DefaultStatuses {
		labels[i] = string(st)
	}
	return labels
}

// DefaultAppConfig returns the configuration of the reference deployment.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Data: DataConfig{
			Dir:     DefaultDataDir(),
			Backend: BackendSQLite,
		},
		Roster: RosterConfig{
			Weekday:       "saturday",
			Statuses:      defaultStatusLabels(),
			DefaultStatus: string(DefaultStatus),
		},
		Log: LogConfig{Level: "info"},
		Mail: MailConfig{
			IMAPPort: "993",
			TLS:      true,
			Mailbox:  "Drafts",
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	def := DefaultAppConfig()
	v.SetDefault("data.dir", def.Data.Dir)
	v.SetDefault("data.backend", def.Data.Backend)
	v.SetDefault("roster.weekday", def.Roster.Weekday)
	v.SetDefault("roster.statuses", def.Roster.Statuses)
	v.SetDefault("roster.default_status", def.Roster.DefaultStatus)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("mail.imap_port", def.Mail.IMAPPort)
	v.SetDefault("mail.tls", def.Mail.TLS)
	v.SetDefault("mail.mailbox", def.Mail.Mailbox)
	v.SetDefault("display.theme", def.Display.Theme)

	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return finishConfig(def, v)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return finishConfig(def, v)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return finishConfig(cfg, v)
}

// finishConfig applies environment overrides that Unmarshal cannot see
// without a config file, expands the data dir, and validates the result.
func finishConfig(cfg *AppConfig, v *viper.Viper) (*AppConfig, error) {
	if dir := v.GetString("data.dir"); dir != "" {
		cfg.Data.Dir = dir
	}
	if backend := v.GetString("data.backend"); backend != "" {
		cfg.Data.Backend = backend
	}
	if level := v.GetString("log.level"); level != "" {
		cfg.Log.Level = level
	}
	cfg.Data.Dir = expandHome(cfg.Data.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts of the configuration the engine depends on.
func (c *AppConfig) Validate() error {
	switch c.Data.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("unknown data backend %q (want %s or %s)",
			c.Data.Backend, BackendSQLite, BackendJSON)
	}
	if _, err := c.QualifyingWeekday(); err != nil {
		return err
	}
	if _, err := c.StatusSet(); err != nil {
		return fmt.Errorf("roster statuses: %w", err)
	}
	return nil
}

// StatusSet builds the configured status enumeration.
func (c *AppConfig) StatusSet() (StatusSet, error) {
	return NewStatusSet(c.Roster.Statuses, c.Roster.DefaultStatus)
}

// QualifyingWeekday parses the configured weekday name.
func (c *AppConfig) QualifyingWeekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Roster.Weekday))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return time.Saturday, fmt.Errorf("unknown weekday %q", c.Roster.Weekday)
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data", cfg.Data)
	v.Set("roster", cfg.Roster)
	v.Set("log", cfg.Log)
	v.Set("mail", cfg.Mail)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
