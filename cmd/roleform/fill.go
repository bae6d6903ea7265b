package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/internal/config"
	"github.com/goliatone/go-roleform/pkg/export"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively in the terminal",
		Long: `fill walks the form in the terminal: pick roles, confirm the ones to
include, edit their descriptions, then submit. The payload is printed and,
with --export-dir, written to data.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			schema, err := orch.Schema(cmd.Context(), nil)
			if err != nil {
				return err
			}

			options := []tui.Option{
				tui.WithOutputFormat(tui.OutputFormat(a.cfg.Output.Format)),
				tui.WithLogger(a.logger),
			}
			if a.driver != nil {
				options = append(options, tui.WithPromptDriver(a.driver))
			} else {
				options = append(options, tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())))
			}
			if dir := a.cfg.Export.Dir; dir != "" {
				options = append(options, tui.WithExportSink(export.DirSink{Dir: dir}))
			}
			renderer, err := tui.New(options...)
			if err != nil {
				return err
			}

			out, err := renderer.Render(cmd.Context(), schema, render.RenderOptions{})
			if errors.Is(err, tui.ErrAborted) {
				a.logger.Info("fill aborted")
				return err
			}
			if err != nil {
				return fmt.Errorf("roleform: fill: %w", err)
			}
			a.logger.Debug("form filled", zap.Int("bytes", len(out)))
			return writeOutput(cmd.OutOrStdout(), output, append(out, '\n'))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.String("format", "", "payload format (json, form, pretty)")
	flags.String("export-dir", "", "also write data.json to this directory")
	a.bind(flags, map[string]string{
		"format":     config.KeyOutputFormat,
		"export-dir": config.KeyExportDir,
	})
	return cmd
}
