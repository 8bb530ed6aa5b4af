package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/merow/meetnote/internal/models"
)

// Store tracks every recording attempt in a single JSON file under the
// application data directory. The file is loaded once at construction
// and fully rewritten on every mutation. A corrupt history file is
// replaced by an empty store rather than failing, so the recorder stays
// usable even if the history is lost.
type Store struct {
	mu            sync.Mutex
	historyPath   string
	recordingsDir string
	recordings    []models.Recording
}

// NewStore opens the recording history rooted at dataDir
func NewStore(dataDir string) (*Store, error) {
	recordingsDir := filepath.Join(dataDir, "recordings")
	if err := os.MkdirAll(recordingsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create recordings directory: %w", err)
	}

	s := &Store{
		historyPath:   filepath.Join(dataDir, "recordings.json"),
		recordingsDir: recordingsDir,
	}
	s.load()
	return s, nil
}

func (s *Store) load() {
	data, err := os.ReadFile(s.historyPath)
	if err != nil {
		s.recordings = []models.Recording{}
		return
	}

	if err := json.Unmarshal(data, &s.recordings); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load recording history: %v\n", err)
		s.recordings = []models.Recording{}
	}
}

// save rewrites the whole history file. Write failures are reported but
// not propagated: losing one flush must not take down an in-flight
// pipeline.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.recordings, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to marshal recording history: %v\n", err)
		return
	}
	if err := os.WriteFile(s.historyPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save recording history: %v\n", err)
	}
}

// AddParams holds the caller-supplied fields for a new recording
type AddParams struct {
	Title      string
	AudioPath  string
	Timestamp  int64
	TemplateID string
}

// AddRecording appends a new recording with a fresh id and pending
// status, persists, and returns the full record
func (s *Store) AddRecording(p AddParams) models.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Title == "" {
		p.Title = "Untitled Meeting"
	}
	if p.Timestamp == 0 {
		p.Timestamp = models.NowMillis()
	}
	if p.TemplateID == "" {
		p.TemplateID = "general"
	}

	rec := models.Recording{
		ID:         models.NewID(),
		Title:      p.Title,
		Timestamp:  p.Timestamp,
		Status:     models.StatusPending,
		AudioPath:  p.AudioPath,
		TemplateID: p.TemplateID,
	}

	s.recordings = append(s.recordings, rec)
	s.save()

	return rec
}

// Update describes a partial modification of a recording. Nil fields are
// left untouched; ClearError resets the error text.
type Update struct {
	Title      *string
	Status     *models.Status
	AudioPath  *string
	NotePath   *string
	TemplateID *string
	Error      *string
	ClearError bool
}

// UpdateRecording merges the update into the matching record and
// persists. Returns whether a record was found.
func (s *Store) UpdateRecording(id string, u Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.recordings {
		if s.recordings[i].ID != id {
			continue
		}

		rec := &s.recordings[i]
		if u.Title != nil {
			rec.Title = *u.Title
		}
		if u.Status != nil {
			rec.Status = *u.Status
		}
		if u.AudioPath != nil {
			rec.AudioPath = *u.AudioPath
		}
		if u.NotePath != nil {
			rec.NotePath = *u.NotePath
		}
		if u.TemplateID != nil {
			rec.TemplateID = *u.TemplateID
		}
		if u.Error != nil {
			rec.Error = *u.Error
		}
		if u.ClearError {
			rec.Error = ""
		}

		s.save()
		return true
	}

	return false
}

// GetRecording returns the recording with the given id
func (s *Store) GetRecording(id string) (models.Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.recordings {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.Recording{}, false
}

// GetAllRecordings returns all recordings sorted by timestamp, newest
// first. The ordering is a user-facing contract.
func (s *Store) GetAllRecordings() []models.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Recording, len(s.recordings))
	copy(out, s.recordings)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})

	return out
}

// GetRecordingsByStatus returns recordings in the given state
func (s *Store) GetRecordingsByStatus(status models.Status) []models.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Recording
	for _, rec := range s.recordings {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

// DeleteRecording removes the record and best-effort deletes its audio
// file, note file, and the whisper .txt sidecar. File deletion failures
// are tolerated individually; the record is removed regardless. Returns
// false only when the id does not exist.
func (s *Store) DeleteRecording(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.recordings {
		if s.recordings[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	rec := s.recordings[idx]

	removeIfExists(rec.AudioPath)
	removeIfExists(rec.NotePath)
	if rec.AudioPath != "" {
		removeIfExists(models.TranscriptSidecarPath(rec.AudioPath))
	}

	s.recordings = append(s.recordings[:idx], s.recordings[idx+1:]...)
	s.save()

	return true
}

func removeIfExists(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to delete %s: %v\n", path, err)
	}
}

// Stats aggregates recording counts by status plus the total size of
// audio files that still exist on disk
type Stats struct {
	Total      int   `json:"total"`
	Completed  int   `json:"completed"`
	Failed     int   `json:"failed"`
	Processing int   `json:"processing"`
	Pending    int   `json:"pending"`
	TotalSize  int64 `json:"total_size"`
}

// GetStats computes aggregate statistics. Missing audio files contribute
// zero bytes, not an error.
func (s *Store) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats Stats
	stats.Total = len(s.recordings)

	for _, rec := range s.recordings {
		switch rec.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusFailed:
			stats.Failed++
		case models.StatusProcessing:
			stats.Processing++
		case models.StatusPending:
			stats.Pending++
		}

		if rec.AudioPath != "" {
			if info, err := os.Stat(rec.AudioPath); err == nil {
				stats.TotalSize += info.Size()
			}
		}
	}

	return stats
}

// RecordingPath returns the permanent audio path for a recording id
func (s *Store) RecordingPath(id, ext string) string {
	return filepath.Join(s.recordingsDir, id+ext)
}

// SaveRecordingFile moves a temporary audio file into the recordings
// directory and updates the record's audio path
func (s *Store) SaveRecordingFile(tempPath, id string) (string, error) {
	target := s.RecordingPath(id, filepath.Ext(tempPath))

	if err := os.Rename(tempPath, target); err != nil {
		return "", fmt.Errorf("failed to move recording file: %w", err)
	}

	s.UpdateRecording(id, Update{AudioPath: &target})
	return target, nil
}
