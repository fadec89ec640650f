package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
	"github.com/bobmcallan/contentflow-mcp/internal/common"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the built-in operation catalog",
	}

	cmd.AddCommand(newCatalogListCmd(), newCatalogOpenAPICmd(root))
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every tool and resource with its content API route",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := catalog.Default()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tMETHOD\tROUTE")
			for _, spec := range reg.Operations() {
				route := spec.Path
				if spec.Kind == catalog.KindResource {
					route = spec.URI
					if spec.Path != "" {
						route += " -> " + spec.Path
					}
				}
				method := spec.Method
				if spec.IsStatic() {
					method = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", spec.Name, spec.Kind, method, route)
			}
			return w.Flush()
		},
	}
}

func newCatalogOpenAPICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "openapi",
		Short: "Print the content API contract implied by the catalog as OpenAPI JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}

			doc, err := catalog.OpenAPI(catalog.Default(), cfg.API.BaseURL(), common.GetVersion())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(doc)
		},
	}
}
