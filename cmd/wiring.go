package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/merow/meetnote/internal/audio"
	"github.com/merow/meetnote/internal/config"
	"github.com/merow/meetnote/internal/history"
	"github.com/merow/meetnote/internal/index"
	"github.com/merow/meetnote/internal/meeting"
	"github.com/merow/meetnote/internal/notes"
	"github.com/merow/meetnote/internal/summarize"
	"github.com/merow/meetnote/internal/transcribe"
)

// openStore opens the recording history under the user data directory
func openStore() (*history.Store, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return history.NewStore(dataDir)
}

// openIndex opens the note embedding index under the user data directory
func openIndex() (*index.Index, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return index.New(filepath.Join(dataDir, "embeddings"))
}

// newNoteTaker wires the pipeline from configuration
func newNoteTaker(store *history.Store) *meeting.NoteTaker {
	transcriber := transcribe.NewWhisper(config.GetWhisperBinary(), config.GetWhisperModel())
	summarizer := summarize.NewLlama(config.GetLlamaAPIURL(), config.GetLlamaModel())
	writer := notes.NewWriter(config.GetNotesPath())
	recorder := audio.NewRecorder(config.GetSampleRate(), config.GetChannels())

	return meeting.NewNoteTaker(store, transcriber, summarizer, writer, recorder, meeting.Options{
		SettleDelay:   time.Duration(config.GetSettleDelayMillis()) * time.Millisecond,
		MinAudioBytes: config.GetMinAudioBytes(),
	})
}

// printProgress is the observer shared by record, retry, and convert
func printProgress(e meeting.Event) {
	switch e.Stage {
	case meeting.StageFailed:
		fmt.Printf("✗ [%d/%d] %s\n", e.Step, e.Total, e.Message)
	case meeting.StageDone:
		fmt.Printf("✓ [%d/%d] %s\n", e.Step, e.Total, e.Message)
	default:
		fmt.Printf("  [%d/%d] %s\n", e.Step, e.Total, e.Message)
	}
}

// formatSize renders a byte count for humans
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
