// Command lorebase serves the Solstice knowledge base over MCP: the brand
// guide, the protocol glossary, and live protocol stats, each fetched from
// its upstream, normalized, and cached with a TTL.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "lorebase",
		Short:         "Solstice knowledge base MCP server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "lorebase.yaml", "path to config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newCheckCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
