package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a recording attempt
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Recording represents one capture-to-note attempt
type Recording struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Timestamp  int64  `json:"timestamp"` // creation time in epoch milliseconds
	Status     Status `json:"status"`
	AudioPath  string `json:"audioPath"`
	NotePath   string `json:"notePath,omitempty"`
	TemplateID string `json:"templateId"`
	Error      string `json:"error,omitempty"`
}

// NewID generates a fresh recording identifier
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time in epoch milliseconds, the store's
// timestamp unit
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// CreatedAt converts the recording's millisecond timestamp to time.Time
func (r *Recording) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// TranscriptSidecarPath derives the path of the .txt file whisper writes
// next to an audio file
// Format: audio path with its extension replaced by .txt
func TranscriptSidecarPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + ".txt"
}
