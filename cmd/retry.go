package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var retryCmd = &cobra.Command{
	Use:   "retry <recording-id>",
	Short: "Re-run the pipeline for a failed recording",
	Long: `Re-run transcription, summarization, and note writing against a
recording's stored audio file. The stored title and template are used.
Retry always redoes both transcription and summarization.

Find recording ids with 'meetnote list --status failed'.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetry,
}

func init() {
	rootCmd.AddCommand(retryCmd)
}

func runRetry(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	taker := newNoteTaker(store)

	fmt.Printf("Retrying recording %s\n", args[0])

	result, err := taker.RetryTranscription(context.Background(), args[0], printProgress)
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Meeting notes saved\n")
	fmt.Printf("  Note: %s\n", result.NotePath)

	return nil
}
