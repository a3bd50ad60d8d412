package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapagent/mapagent/pkg/tools"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalog",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Print the full catalog as JSON")
}

func runTools(_ *cobra.Command, _ []string) error {
	if toolsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tools.Catalog())
	}
	for _, s := range tools.Catalog() {
		fmt.Printf("%-20s %s\n", s.Name, s.Description)
	}
	return nil
}
