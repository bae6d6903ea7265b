// Package config loads roleform settings from an optional YAML file and
// ROLEFORM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, so server.addr is
// read from ROLEFORM_SERVER_ADDR.
const EnvPrefix = "ROLEFORM"

// Keys shared by the config file, environment and command flags.
const (
	KeyServerAddr      = "server.addr"
	KeyShutdownTimeout = "server.shutdown_timeout"
	KeySessionIdle     = "session.idle_timeout"
	KeyCleanupInterval = "session.cleanup_interval"
	KeyDataset         = "dataset.path"
	KeyTitle           = "form.title"
	KeyRenderer        = "render.renderer"
	KeyStandalone      = "render.standalone"
	KeyThemeName       = "theme.name"
	KeyThemeVariant    = "theme.variant"
	KeyThemeFile       = "theme.file"
	KeyPreset          = "form.preset"
	KeyExportDir       = "export.dir"
	KeyOutputFormat    = "output.format"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
)

// Config is the resolved settings tree.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Session Session `mapstructure:"session"`
	Dataset Dataset `mapstructure:"dataset"`
	Form    Form    `mapstructure:"form"`
	Render  Render  `mapstructure:"render"`
	Theme   Theme   `mapstructure:"theme"`
	Export  Export  `mapstructure:"export"`
	Output  Output  `mapstructure:"output"`
	Log     Log     `mapstructure:"log"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Session struct {
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Dataset.Path empty means the embedded dataset.
type Dataset struct {
	Path string `mapstructure:"path"`
}

// Form.Preset names a YAML or JSON presentation preset.
type Form struct {
	Title  string `mapstructure:"title"`
	Preset string `mapstructure:"preset"`
}

type Render struct {
	Renderer   string `mapstructure:"renderer"`
	Standalone bool   `mapstructure:"standalone"`
}

// Theme.File is a go-theme manifest in YAML or JSON.
type Theme struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
	File    string `mapstructure:"file"`
}

// Export.Dir empty disables the terminal export sink.
type Export struct {
	Dir string `mapstructure:"dir"`
}

type Output struct {
	Format string `mapstructure:"format"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeySessionIdle, 30*time.Minute)
	v.SetDefault(KeyCleanupInterval, time.Minute)
	v.SetDefault(KeyDataset, "")
	v.SetDefault(KeyTitle, "Roles")
	v.SetDefault(KeyRenderer, "vanilla")
	v.SetDefault(KeyStandalone, true)
	v.SetDefault(KeyThemeName, "")
	v.SetDefault(KeyThemeVariant, "")
	v.SetDefault(KeyThemeFile, "")
	v.SetDefault(KeyPreset, "")
	v.SetDefault(KeyExportDir, "")
	v.SetDefault(KeyOutputFormat, "json")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// NewViper returns a viper instance with defaults and environment binding
// applied. file, when set, must exist.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := ReadFile(v, file); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadFile merges file into v. An empty file is a no-op.
func ReadFile(v *viper.Viper, file string) error {
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", file, err)
	}
	return nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config: viper instance is nil")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the hosts cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Session.IdleTimeout < 0 {
		return fmt.Errorf("config: session.idle_timeout must not be negative, got %s", c.Session.IdleTimeout)
	}
	if c.Session.CleanupInterval <= 0 {
		return fmt.Errorf("config: session.cleanup_interval must be positive, got %s", c.Session.CleanupInterval)
	}
	if c.Theme.Variant != "" && c.Theme.Name == "" && c.Theme.File == "" {
		return errors.New("config: theme.variant requires theme.name or theme.file")
	}
	return nil
}
