package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-roleform/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := config.NewViper("")
	if err != nil {
		t.Fatalf("new viper: %v", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := config.Config{
		Server:  config.Server{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Session: config.Session{IdleTimeout: 30 * time.Minute, CleanupInterval: time.Minute},
		Form:    config.Form{Title: "Roles"},
		Render:  config.Render{Renderer: "vanilla", Standalone: true},
		Output:  config.Output{Format: "json"},
		Log:     config.Log{Level: "info", Format: "console"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roleform.yaml")
	body := strings.Join([]string{
		"server:",
		"  addr: 127.0.0.1:9000",
		"dataset:",
		"  path: roles.yaml",
		"theme:",
		"  name: acme",
		"  variant: dark",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ROLEFORM_LOG_LEVEL", "debug")
	t.Setenv("ROLEFORM_SESSION_IDLE_TIMEOUT", "5m")

	v, err := config.NewViper(path)
	if err != nil {
		t.Fatalf("new viper: %v", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Dataset.Path != "roles.yaml" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Theme != (config.Theme{Name: "acme", Variant: "dark"}) {
		t.Fatalf("theme = %+v", cfg.Theme)
	}
	if cfg.Log.Level != "debug" || cfg.Session.IdleTimeout != 5*time.Minute {
		t.Fatalf("environment overrides not applied: %+v", cfg)
	}
}

func TestNewViper_MissingFile(t *testing.T) {
	if _, err := config.NewViper(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := config.Config{
		Server:  config.Server{Addr: ":0"},
		Session: config.Session{CleanupInterval: time.Second},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(*config.Config){
		"empty addr":       func(c *config.Config) { c.Server.Addr = " " },
		"negative idle":    func(c *config.Config) { c.Session.IdleTimeout = -time.Second },
		"zero cleanup":     func(c *config.Config) { c.Session.CleanupInterval = 0 },
		"variant no theme": func(c *config.Config) { c.Theme.Variant = "dark" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
