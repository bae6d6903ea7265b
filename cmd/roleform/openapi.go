package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-roleform/pkg/apidoc"
)

func newOpenAPICmd(a *app) *cobra.Command {
	var (
		output  string
		servers []string
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the HTTP host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			schema, err := orch.Schema(cmd.Context(), nil)
			if err != nil {
				return err
			}

			options := []apidoc.Option{apidoc.WithTitle(schema.Title)}
			for _, url := range servers {
				options = append(options, apidoc.WithServer(url))
			}
			doc, err := apidoc.Build(cmd.Context(), schema, options...)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("roleform: encode openapi: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), output, append(data, '\n'))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringSliceVar(&servers, "server", nil, "server URL to list in the document")
	return cmd
}
