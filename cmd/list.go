package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/merow/meetnote/internal/models"
	"github.com/spf13/cobra"
)

var (
	listStatus string
	listToday  bool
	listSince  string
	listJSON   bool
	listToon   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recording history",
	Long: `List all recordings, newest first, with optional filtering.

Examples:
  meetnote list
  meetnote list --status failed
  meetnote list --today
  meetnote list --since 2026-08-01`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status: pending|processing|completed|failed")
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show only today's recordings")
	listCmd.Flags().StringVar(&listSince, "since", "", "Show recordings since date (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	recordings := store.GetAllRecordings()

	var filtered []models.Recording
	for _, rec := range recordings {
		if listStatus != "" && rec.Status != models.Status(listStatus) {
			continue
		}

		if listToday {
			today := time.Now().Format("2006-01-02")
			if rec.CreatedAt().Format("2006-01-02") != today {
				continue
			}
		}

		if listSince != "" {
			sinceDate, err := time.Parse("2006-01-02", listSince)
			if err != nil {
				return fmt.Errorf("invalid --since date format (use YYYY-MM-DD): %w", err)
			}
			if rec.CreatedAt().Before(sinceDate) {
				continue
			}
		}

		filtered = append(filtered, rec)
	}

	if listJSON {
		output, err := json.MarshalIndent(filtered, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if listToon {
		output, err := gotoon.Encode(filtered)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	if len(filtered) == 0 {
		fmt.Println("No recordings match the filter criteria")
		return nil
	}

	fmt.Printf("Found %d recording(s):\n\n", len(filtered))
	for _, rec := range filtered {
		fmt.Printf("  %s  %s\n", rec.ID, rec.Title)
		fmt.Printf("    Created:  %s\n", rec.CreatedAt().Format("2006-01-02 15:04"))
		fmt.Printf("    Status:   %s\n", rec.Status)
		fmt.Printf("    Template: %s\n", rec.TemplateID)
		if rec.NotePath != "" {
			fmt.Printf("    Note:     %s\n", rec.NotePath)
		}
		if rec.Error != "" {
			msg := rec.Error
			if len(msg) > 80 {
				msg = msg[:80] + "..."
			}
			fmt.Printf("    Error:    %s\n", msg)
		}
		fmt.Println()
	}

	return nil
}
