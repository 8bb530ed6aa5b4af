package transcribe

import "errors"

// Common error types for the transcribe package
var (
	// ErrAudioNotFound indicates the audio file to transcribe does not exist
	ErrAudioNotFound = errors.New("audio file not found")

	// ErrWhisperNotFound indicates no whisper executable could be located
	ErrWhisperNotFound = errors.New("whisper executable not found")

	// ErrNoOutput indicates whisper ran but produced no transcript file
	ErrNoOutput = errors.New("transcription file was not generated")
)
