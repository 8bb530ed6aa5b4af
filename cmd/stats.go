package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/alpkeskin/gotoon"
	"github.com/merow/meetnote/internal/history"
	"github.com/spf13/cobra"
)

var (
	statsJSON bool
	statsToon bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recording statistics",
	Long: `Display statistics about your recording history including:
  - Recording counts by status
  - Total audio size on disk
  - Breakdown by template
  - Daily activity

Examples:
  meetnote stats
  meetnote stats --json
  meetnote stats --toon`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output in LLM-friendly toon format")
}

type recordingStats struct {
	history.Stats
	ByTemplate    map[string]int  `json:"by_template"`
	DailyActivity []dailyActivity `json:"daily_activity"`
}

type dailyActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	stats := recordingStats{
		Stats:      store.GetStats(),
		ByTemplate: make(map[string]int),
	}

	byDate := make(map[string]int)
	for _, rec := range store.GetAllRecordings() {
		stats.ByTemplate[rec.TemplateID]++
		byDate[rec.CreatedAt().Format("2006-01-02")]++
	}

	for date, count := range byDate {
		stats.DailyActivity = append(stats.DailyActivity, dailyActivity{Date: date, Count: count})
	}
	sort.Slice(stats.DailyActivity, func(i, j int) bool {
		return stats.DailyActivity[i].Date > stats.DailyActivity[j].Date
	})

	if statsJSON {
		output, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if statsToon {
		output, err := gotoon.Encode(stats)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println("Recording Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Printf("Total Recordings: %d\n", stats.Total)
	fmt.Printf("Audio on disk:    %s\n", formatSize(stats.TotalSize))
	fmt.Println()

	if stats.Total == 0 {
		return nil
	}

	fmt.Println("By Status:")
	statuses := []struct {
		name  string
		count int
	}{
		{"completed", stats.Completed},
		{"failed", stats.Failed},
		{"processing", stats.Processing},
		{"pending", stats.Pending},
	}
	for _, s := range statuses {
		if s.count == 0 {
			continue
		}
		percentage := float64(s.count) / float64(stats.Total) * 100
		fmt.Printf("  %-12s %3d  (%.1f%%)\n", s.name, s.count, percentage)
	}
	fmt.Println()

	if len(stats.ByTemplate) > 0 {
		fmt.Println("By Template:")
		var ids []string
		for id := range stats.ByTemplate {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			return stats.ByTemplate[ids[i]] > stats.ByTemplate[ids[j]]
		})
		for _, id := range ids {
			fmt.Printf("  %-15s %3d\n", id, stats.ByTemplate[id])
		}
		fmt.Println()
	}

	if len(stats.DailyActivity) > 0 {
		fmt.Println("Recent Activity:")
		limit := 7
		if len(stats.DailyActivity) < limit {
			limit = len(stats.DailyActivity)
		}
		for i := 0; i < limit; i++ {
			da := stats.DailyActivity[i]
			bar := ""
			for j := 0; j < da.Count && j < 20; j++ {
				bar += "█"
			}
			fmt.Printf("  %s  %3d  %s\n", da.Date, da.Count, bar)
		}
	}

	return nil
}
