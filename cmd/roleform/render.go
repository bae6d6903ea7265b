package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-roleform/internal/config"
	"github.com/goliatone/go-roleform/pkg/orchestrator"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/renderers/schemajson"
	"github.com/goliatone/go-roleform/pkg/renderers/vanilla"
)

func newRenderCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the initial form as HTML or JSON",
		Example: `  roleform render > form.html
  roleform render --renderer json --dataset roles.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			html, err := vanilla.New(vanilla.WithStandalone(a.cfg.Render.Standalone))
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			registry.MustRegister(html)
			registry.MustRegister(schemajson.New(schemajson.WithIndent("  ")))

			orch, err := a.orchestrator(
				orchestrator.WithRegistry(registry),
				orchestrator.WithDefaultRenderer(a.cfg.Render.Renderer),
			)
			if err != nil {
				return err
			}
			out, err := orch.Generate(cmd.Context(), orchestrator.Request{Renderer: a.cfg.Render.Renderer})
			if err != nil {
				return fmt.Errorf("roleform: render: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.String("renderer", "", "renderer to use (vanilla, json)")
	flags.Bool("standalone", true, "wrap HTML output in a complete document")
	a.bind(flags, map[string]string{
		"renderer":   config.KeyRenderer,
		"standalone": config.KeyStandalone,
	})
	return cmd
}
