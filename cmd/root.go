// Package cmd implements the mapagent CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "mapagent",
	Short: "mapagent — a tool-calling map assistant",
	Long: "mapagent answers geographic questions by calling OpenStreetMap and " +
		"OpenRouteService tools, routed by an LLM provider or a built-in heuristic.",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(toolsCmd)
}
