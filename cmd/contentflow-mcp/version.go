package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of contentflow-mcp",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contentflow-mcp %s\n", common.GetFullVersion())
		},
	}
}
