package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/merow/meetnote/internal/templates"
	"github.com/spf13/cobra"
)

var (
	templatesJSON bool
	templatesToon bool
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available note templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)

	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output as JSON")
	templatesCmd.Flags().BoolVar(&templatesToon, "toon", false, "Output in LLM-friendly toon format")
}

func runTemplates(cmd *cobra.Command, args []string) error {
	all := templates.All()

	if templatesJSON {
		output, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if templatesToon {
		output, err := gotoon.Encode(all)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("Available templates:\n\n")
	for _, t := range all {
		fmt.Printf("  %s %-15s %s\n", t.Icon, t.ID, t.Name)
		fmt.Printf("     %s\n\n", t.Description)
	}

	return nil
}
