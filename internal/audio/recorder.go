// Package audio provides microphone capture for the recording pipeline.
package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Capture is the interface the orchestrator records through
type Capture interface {
	Start(outputPath string) error
	Stop() error
	IsRecording() bool
}

// Recorder manages ffmpeg-based mic recording
type Recorder struct {
	sampleRate int
	channels   int
	cmd        *exec.Cmd
	logFile    *os.File
}

// NewRecorder creates an ffmpeg recorder with the given capture settings
func NewRecorder(sampleRate, channels int) *Recorder {
	if sampleRate == 0 {
		sampleRate = 16000
	}
	if channels == 0 {
		channels = 1
	}
	return &Recorder{sampleRate: sampleRate, channels: channels}
}

// CheckFFmpeg verifies ffmpeg is installed
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found. Install with: brew install ffmpeg")
	}
	return nil
}

// Start begins recording from the default input device into outputPath.
// The ffmpeg process runs until Stop is called.
func (r *Recorder) Start(outputPath string) error {
	if r.cmd != nil {
		return fmt.Errorf("recorder is already running")
	}
	if err := CheckFFmpeg(); err != nil {
		return err
	}

	format, device := defaultInput()
	cmd := exec.Command("ffmpeg",
		"-f", format,
		"-i", device,
		"-ac", strconv.Itoa(r.channels),
		"-ar", strconv.Itoa(r.sampleRate),
		"-y",
		outputPath,
	)

	// Keep ffmpeg stderr for diagnostics
	if logFile, err := os.Create(outputPath + ".ffmpeg.log"); err == nil {
		cmd.Stderr = logFile
		r.logFile = logFile
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	r.cmd = cmd
	return nil
}

// Stop signals ffmpeg to finish the file and waits for it to exit
func (r *Recorder) Stop() error {
	if r.cmd == nil {
		return nil
	}

	if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = r.cmd.Process.Kill()
	}
	// ffmpeg exits non-zero on SIGINT; the file is still finalized
	_ = r.cmd.Wait()

	if r.logFile != nil {
		r.logFile.Close()
		r.logFile = nil
	}
	r.cmd = nil
	return nil
}

// IsRecording reports whether a capture process is running
func (r *Recorder) IsRecording() bool {
	return r.cmd != nil
}

func defaultInput() (format, device string) {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation", ":default"
	case "windows":
		return "dshow", "audio=default"
	default:
		return "pulse", "default"
	}
}
