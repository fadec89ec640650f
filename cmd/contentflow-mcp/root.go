package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/config"
)

const configFileName = "contentflow-mcp.toml"

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "contentflow-mcp",
		Short: "MCP server for the ContentFlow content API",
		Long: `contentflow-mcp exposes the ContentFlow hot-topic, content, publishing and
analytics API to MCP clients as tools and resources. Every call is relayed to
the content API over HTTP; nothing is stored locally.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			common.LoadVersionFromFile()
		},
	}

	cmd.PersistentFlags().StringArrayVarP(&opts.configFiles, "config", "c", nil,
		"Configuration file path (can be specified multiple times)")

	cmd.AddCommand(
		newServeCmd(opts),
		newCatalogCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// load resolves configuration from the given or auto-discovered files.
func (o *rootOptions) load() (*config.Config, []string, error) {
	files := o.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, files, err
	}
	return cfg, files, nil
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD and Docker fallbacks after.
func configSearchPaths() []string {
	candidates := []string{
		configFileName,
		filepath.Join("config", configFileName),
		filepath.Join("docker", configFileName),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, configFileName),
		filepath.Join(binDir, "config", configFileName),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
