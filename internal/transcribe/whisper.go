// Package transcribe provides the speech-to-text port of the pipeline.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/merow/meetnote/internal/models"
)

// Transcriber converts an audio file to transcript text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// DefaultModel is the whisper model used when none is configured
const DefaultModel = "base"

// Whisper shells out to a local whisper install and reads the .txt
// transcript it writes next to the audio file.
type Whisper struct {
	binary string
	model  string
}

// NewWhisper creates a whisper-backed transcriber
func NewWhisper(binary, model string) *Whisper {
	if binary == "" {
		binary = "whisper"
	}
	if model == "" {
		model = DefaultModel
	}
	return &Whisper{binary: binary, model: model}
}

// Model returns the model being used
func (w *Whisper) Model() string {
	return w.model
}

// Transcribe runs whisper on the audio file and returns the trimmed
// transcript text
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAudioNotFound, audioPath)
	}

	bin, err := exec.LookPath(w.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrWhisperNotFound, w.binary)
	}

	cmd := exec.CommandContext(ctx, bin,
		audioPath,
		"--model", w.model,
		"--output_format", "txt",
		"--language", "en",
		"--output_dir", filepath.Dir(audioPath),
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("whisper failed: %w\n%s", err, string(out))
	}

	txtPath := models.TranscriptSidecarPath(audioPath)
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("%w: expected %s", ErrNoOutput, txtPath)
	}

	return strings.TrimSpace(string(data)), nil
}
