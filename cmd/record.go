package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gen2brain/beeep"
	"github.com/merow/meetnote/internal/config"
	"github.com/merow/meetnote/internal/meeting"
	"github.com/merow/meetnote/internal/ollama"
	"github.com/spf13/cobra"
)

var (
	recordTitle        string
	recordTemplate     string
	recordParticipants []string
	recordNoEmbed      bool
	recordNoNotify     bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a meeting and turn it into notes",
	Long: `Record from the default microphone until stopped, then transcribe,
summarize, and write the note.

While recording, metadata can be edited live; the values in effect at
stop time are what end up in the note:
  title <new title>
  template <template id>
  participants <name, name, ...>

Press Enter (or Ctrl-C) to stop recording and start processing.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordTitle, "title", "Meeting", "Meeting title")
	recordCmd.Flags().StringVar(&recordTemplate, "template", "general", "Note template id (see 'meetnote templates')")
	recordCmd.Flags().StringSliceVar(&recordParticipants, "participants", []string{}, "Participant names")
	recordCmd.Flags().BoolVar(&recordNoEmbed, "no-embed", false, "Skip embedding generation for search")
	recordCmd.Flags().BoolVar(&recordNoNotify, "no-notify", false, "Skip the desktop notification")
}

func runRecord(cmd *cobra.Command, args []string) error {
	// A missing notes root is a configuration problem; catch it before
	// recording a meeting that could not be written anywhere.
	notesPath := config.GetNotesPath()
	if notesPath == "" {
		return fmt.Errorf("notes.path is not configured - set it in %s", "$HOME/.config/meetnote/config.toml")
	}
	if _, err := os.Stat(notesPath); err != nil {
		return fmt.Errorf("notes folder not found at: %s", notesPath)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	taker := newNoteTaker(store)

	if !ollama.IsAvailable(config.GetOllamaURL()) {
		fmt.Fprintln(os.Stderr, "Warning: Ollama is not reachable - summarization will fail. Start it with: ollama serve")
	}

	start, err := taker.StartMeeting(recordTitle, recordTemplate, recordParticipants)
	if err != nil {
		return err
	}

	fmt.Printf("● Recording %q (template: %s)\n", recordTitle, recordTemplate)
	fmt.Printf("  Audio: %s\n", start.AudioPath)
	fmt.Println("  Press Enter to stop. Live edits: title <t> | template <id> | participants <a, b>")

	waitForStop(taker)

	fmt.Println("\nProcessing recording...")

	result, err := taker.StopMeeting(context.Background(), printProgress)
	if err != nil {
		notify("Recording failed", err.Error())
		return err
	}

	fmt.Printf("\n✓ Meeting notes saved\n")
	fmt.Printf("  Note:      %s\n", result.NotePath)
	fmt.Printf("  Recording: %s\n", result.RecordingID)

	notify("Meeting notes saved", result.NotePath)

	if !recordNoEmbed && config.GetEmbeddingsEnabled() {
		if err := embedNote(result.NotePath, result.Summary); err != nil {
			// Search still works keyword-only without a vector
			fmt.Fprintf(os.Stderr, "Warning: failed to generate embedding: %v\n", err)
			fmt.Fprintln(os.Stderr, "Tip: ensure Ollama is running and the model is pulled: ollama pull "+config.GetEmbeddingModel())
		}
	}

	return nil
}

// waitForStop blocks until Enter or an interrupt, applying live edits
// in the meantime
func waitForStop(taker *meeting.NoteTaker) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-sigCh:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(line)
			if line == "" || line == "stop" {
				return
			}
			applyLiveEdit(taker, line)
		}
	}
}

func applyLiveEdit(taker *meeting.NoteTaker, line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "title":
		taker.UpdateMeetingTitle(rest)
		fmt.Printf("  title → %s\n", rest)
	case "template":
		taker.UpdateMeetingTemplate(rest)
		fmt.Printf("  template → %s\n", rest)
	case "participants":
		var participants []string
		for _, p := range strings.Split(rest, ",") {
			if p = strings.TrimSpace(p); p != "" {
				participants = append(participants, p)
			}
		}
		taker.UpdateMeetingParticipants(participants)
		fmt.Printf("  participants → %v\n", participants)
	default:
		fmt.Printf("  unknown command %q (use: title, template, participants)\n", cmd)
	}
}

// embedNote stores an embedding vector for the finished note so search
// can rank it semantically
func embedNote(notePath, summary string) error {
	ollamaURL := config.GetOllamaURL()
	if !ollama.IsAvailable(ollamaURL) {
		return fmt.Errorf("Ollama is not available at %s", ollamaURL)
	}

	client, err := ollama.NewClient(ollamaURL, config.GetEmbeddingModel())
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.CheckModel(ctx); err != nil {
		return err
	}

	text := summary
	// nomic-embed-text handles ~8K tokens, roughly 32K chars
	if len(text) > 30000 {
		text = text[:30000]
	}

	vec, err := client.GenerateEmbedding(ctx, text)
	if err != nil {
		return err
	}

	ix, err := openIndex()
	if err != nil {
		return err
	}
	return ix.Put(notePath, vec)
}

func notify(title, message string) {
	if recordNoNotify {
		return
	}
	if err := beeep.Notify("meetnote: "+title, message, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: desktop notification failed: %v\n", err)
	}
}
