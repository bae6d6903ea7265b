package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/internal/config"
	"github.com/goliatone/go-roleform/internal/logging"
	"github.com/goliatone/go-roleform/pkg/renderers/tui"
)

// app carries state shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger

	// driver overrides the survey prompt driver used by fill.
	driver tui.PromptDriver
}

func newApp() *app {
	v, err := config.NewViper("")
	if err != nil {
		panic(err)
	}
	return &app{v: v, logger: zap.NewNop()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "roleform",
		Short: "Dynamic role-selection form",
		Long: `roleform builds a role-selection form from a list of role entities: a
multi-select of roles, a checkbox and description field per role, and a
submit button. The form can be rendered to HTML or JSON, filled in the
terminal, or served over HTTP.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML or JSON)")
	flags.String("dataset", "", "role dataset file (JSON or YAML); embedded dataset when empty")
	flags.String("title", "", "form title")
	flags.String("preset", "", "presentation preset file (YAML or JSON)")
	flags.String("theme-file", "", "go-theme manifest file (YAML or JSON)")
	flags.String("theme", "", "theme name")
	flags.String("theme-variant", "", "theme variant")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	a.bind(flags, map[string]string{
		"dataset":       config.KeyDataset,
		"title":         config.KeyTitle,
		"preset":        config.KeyPreset,
		"theme-file":    config.KeyThemeFile,
		"theme":         config.KeyThemeName,
		"theme-variant": config.KeyThemeVariant,
		"log-level":     config.KeyLogLevel,
		"log-format":    config.KeyLogFormat,
	})

	root.AddCommand(
		newRenderCmd(a),
		newFillCmd(a),
		newServeCmd(a),
		newOpenAPICmd(a),
	)
	return root
}

// bind maps flag names onto viper keys. Flags only override when set.
func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("roleform: bind flag %s: %v", name, err))
		}
	}
}

func (a *app) setup() error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("roleform: logger: %w", err)
	}
	a.logger = logger
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", zap.String("file", used))
	}
	return nil
}
