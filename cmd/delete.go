package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <recording-id>",
	Short: "Delete a recording and its files",
	Long: `Remove a recording from history along with its audio file, note file,
and transcript sidecar. Missing files are tolerated; the record is
removed regardless.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Delete without confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	rec, ok := store.GetRecording(args[0])
	if !ok {
		return fmt.Errorf("recording not found: %s", args[0])
	}

	if !deleteForce {
		fmt.Printf("Delete %q (%s) and its files? [y/N] ", rec.Title, rec.CreatedAt().Format("2006-01-02 15:04"))
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	// Drop the note's search vector along with the files
	if rec.NotePath != "" {
		if ix, err := openIndex(); err == nil {
			ix.Remove(rec.NotePath)
		}
	}

	store.DeleteRecording(rec.ID)
	fmt.Printf("✓ Deleted recording %s\n", rec.ID)

	return nil
}
