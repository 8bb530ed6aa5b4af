// Package meeting orchestrates the recording lifecycle: start/stop of a
// single active session and the stop-time pipeline of transcription,
// summarization, and note writing, plus retry and template conversion
// against historical recordings.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/merow/meetnote/internal/audio"
	"github.com/merow/meetnote/internal/history"
	"github.com/merow/meetnote/internal/models"
	"github.com/merow/meetnote/internal/notes"
	"github.com/merow/meetnote/internal/summarize"
	"github.com/merow/meetnote/internal/transcribe"
)

var (
	// ErrSessionActive is returned when StartMeeting is called while a
	// session is already recording
	ErrSessionActive = errors.New("a recording session is already active")

	// ErrNoSession is returned when StopMeeting is called with no active
	// session
	ErrNoSession = errors.New("no active recording session")

	// ErrRecordingActive is returned when a retry targets the recording
	// owned by the live session
	ErrRecordingActive = errors.New("recording is still in progress")

	// ErrRecordingNotFound is returned for unknown recording ids
	ErrRecordingNotFound = errors.New("recording not found")
)

// minTranscriptLen is the content-quality gate: anything shorter is
// treated the same as a failed transcription call
const minTranscriptLen = 10

// Options tune the orchestrator's validation step
type Options struct {
	// TempDir receives in-flight audio files. Defaults to a meetnote
	// directory under the system temp dir.
	TempDir string
	// SettleDelay is how long to wait after stopping capture before
	// validating the file, so the handle can flush. Defaults to 1s.
	SettleDelay time.Duration
	// MinAudioBytes is the size below which a captured file counts as a
	// failed recording. Defaults to 1000. The threshold is arbitrary,
	// not derived from the container format.
	MinAudioBytes int64
}

// NoteTaker owns the lifecycle of at most one active recording session
// and drives the note-processing pipeline
type NoteTaker struct {
	store       *history.Store
	transcriber transcribe.Transcriber
	summarizer  summarize.Summarizer
	writer      *notes.Writer
	capture     audio.Capture
	opts        Options

	mu      sync.Mutex
	session *session
}

// session is the in-memory state of the active recording. Title,
// template, and participants are late-bound: the values at the moment
// StopMeeting runs are what get summarized and written.
type session struct {
	recordingID  string
	title        string
	templateID   string
	participants []string
	audioPath    string
}

// NewNoteTaker wires the pipeline's collaborators together
func NewNoteTaker(store *history.Store, transcriber transcribe.Transcriber, summarizer summarize.Summarizer, writer *notes.Writer, capture audio.Capture, opts Options) *NoteTaker {
	if opts.TempDir == "" {
		opts.TempDir = filepath.Join(os.TempDir(), "meetnote")
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = time.Second
	}
	if opts.MinAudioBytes == 0 {
		opts.MinAudioBytes = 1000
	}

	return &NoteTaker{
		store:       store,
		transcriber: transcriber,
		summarizer:  summarizer,
		writer:      writer,
		capture:     capture,
		opts:        opts,
	}
}

// StartResult is returned by StartMeeting
type StartResult struct {
	RecordingID string
	AudioPath   string
}

// StartMeeting creates the pending recording and begins capture.
// Exactly one session may be active; a second start is rejected.
func (n *NoteTaker) StartMeeting(title, templateID string, participants []string) (StartResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session != nil {
		return StartResult{}, ErrSessionActive
	}

	if title == "" {
		title = "Meeting"
	}
	if templateID == "" {
		templateID = "general"
	}

	if err := os.MkdirAll(n.opts.TempDir, 0755); err != nil {
		return StartResult{}, fmt.Errorf("failed to create temp directory: %w", err)
	}

	timestamp := models.NowMillis()
	audioPath := filepath.Join(n.opts.TempDir, fmt.Sprintf("meeting-%d.wav", timestamp))

	rec := n.store.AddRecording(history.AddParams{
		Title:      title,
		AudioPath:  audioPath,
		Timestamp:  timestamp,
		TemplateID: templateID,
	})

	if err := n.capture.Start(audioPath); err != nil {
		n.failRecording(rec.ID, err)
		return StartResult{}, fmt.Errorf("failed to start capture: %w", err)
	}

	n.session = &session{
		recordingID:  rec.ID,
		title:        title,
		templateID:   templateID,
		participants: participants,
		audioPath:    audioPath,
	}

	return StartResult{RecordingID: rec.ID, AudioPath: audioPath}, nil
}

// StopResult is returned by StopMeeting and RetryTranscription
type StopResult struct {
	RecordingID   string
	Transcription string
	Summary       string
	NotePath      string
}

// StopMeeting stops capture and runs the pipeline: validate the audio
// file, transcribe, summarize with the session's current title and
// template, and write the note. Any failure marks the recording failed
// with the underlying message before the error is returned. The audio
// file is kept either way so the recording can be retried or inspected.
func (n *NoteTaker) StopMeeting(ctx context.Context, observer Observer) (StopResult, error) {
	n.mu.Lock()
	sess := n.session
	n.mu.Unlock()

	if sess == nil {
		return StopResult{}, ErrNoSession
	}

	// The session is over once stop begins, success or not. Retry is
	// the path back into the pipeline.
	defer func() {
		n.mu.Lock()
		n.session = nil
		n.mu.Unlock()
	}()

	n.setStatus(sess.recordingID, models.StatusProcessing)

	observer.emit(Event{Stage: StageValidating, Step: 0, Total: 3, Message: "Finalizing recording..."})

	if err := n.capture.Stop(); err != nil {
		err = fmt.Errorf("failed to stop capture: %w", err)
		return StopResult{}, n.fail(sess.recordingID, observer, err)
	}

	// Give the file handle a moment to flush before validating
	select {
	case <-time.After(n.opts.SettleDelay):
	case <-ctx.Done():
		return StopResult{}, n.fail(sess.recordingID, observer, ctx.Err())
	}

	if err := n.validateAudio(sess.audioPath); err != nil {
		return StopResult{}, n.fail(sess.recordingID, observer, err)
	}

	// Move the finished capture into the per-user recordings directory.
	// Falling back to the temp path is fine; the path on the record is
	// authoritative.
	audioPath := sess.audioPath
	if moved, err := n.store.SaveRecordingFile(audioPath, sess.recordingID); err == nil {
		audioPath = moved
	} else {
		fmt.Fprintf(os.Stderr, "Warning: keeping recording in temp dir: %v\n", err)
	}

	// Title, template, and participants may have been edited while
	// recording; read them at the last possible moment.
	n.mu.Lock()
	title := sess.title
	templateID := sess.templateID
	participants := sess.participants
	n.mu.Unlock()

	result, err := n.process(ctx, observer, pipelineInput{
		recordingID:  sess.recordingID,
		audioPath:    audioPath,
		title:        title,
		templateID:   templateID,
		participants: participants,
	})
	if err != nil {
		return StopResult{}, err
	}
	return result, nil
}

type pipelineInput struct {
	recordingID  string
	audioPath    string
	title        string
	templateID   string
	participants []string
}

// process runs transcribe → summarize → write and records the outcome.
// Shared by StopMeeting and RetryTranscription.
func (n *NoteTaker) process(ctx context.Context, observer Observer, in pipelineInput) (StopResult, error) {
	observer.emit(Event{Stage: StageTranscribing, Step: 1, Total: 3, Message: "Transcribing audio..."})

	transcription, err := n.transcriber.Transcribe(ctx, in.audioPath)
	if err != nil {
		return StopResult{}, n.fail(in.recordingID, observer, fmt.Errorf("transcription failed: %w", err))
	}
	if len(transcription) < minTranscriptLen {
		err := errors.New("transcription failed or produced no content")
		return StopResult{}, n.fail(in.recordingID, observer, err)
	}

	observer.emit(Event{Stage: StageSummarizing, Step: 2, Total: 3, Message: "Generating summary..."})

	summary, err := n.summarizer.Summarize(ctx, transcription, in.title, in.templateID)
	if err != nil {
		return StopResult{}, n.fail(in.recordingID, observer, err)
	}

	observer.emit(Event{Stage: StageWriting, Step: 3, Total: 3, Message: "Saving notes..."})

	notePath, err := n.writer.SaveNote(summary, transcription, in.title, in.templateID, in.participants)
	if err != nil {
		return StopResult{}, n.fail(in.recordingID, observer, err)
	}

	status := models.StatusCompleted
	n.store.UpdateRecording(in.recordingID, history.Update{
		Status:     &status,
		NotePath:   &notePath,
		ClearError: true,
	})

	observer.emit(Event{Stage: StageDone, Step: 3, Total: 3, Message: "Completed"})

	return StopResult{
		RecordingID:   in.recordingID,
		Transcription: transcription,
		Summary:       summary,
		NotePath:      notePath,
	}, nil
}

// RetryTranscription re-runs the pipeline for a historical recording
// against its stored audio file, title, and template. Retry always
// redoes both transcription and summarization; there is no partial
// resume. Success clears the stored error.
func (n *NoteTaker) RetryTranscription(ctx context.Context, recordingID string, observer Observer) (StopResult, error) {
	n.mu.Lock()
	if n.session != nil && n.session.recordingID == recordingID {
		n.mu.Unlock()
		return StopResult{}, ErrRecordingActive
	}
	n.mu.Unlock()

	rec, ok := n.store.GetRecording(recordingID)
	if !ok {
		return StopResult{}, ErrRecordingNotFound
	}

	if rec.AudioPath == "" {
		return StopResult{}, errors.New("audio file not found")
	}
	if _, err := os.Stat(rec.AudioPath); err != nil {
		return StopResult{}, errors.New("audio file not found")
	}

	status := models.StatusProcessing
	n.store.UpdateRecording(recordingID, history.Update{
		Status:     &status,
		ClearError: true,
	})

	observer.emit(Event{Stage: StageValidating, Step: 0, Total: 3, Message: "Preparing to retry..."})

	return n.process(ctx, observer, pipelineInput{
		recordingID: recordingID,
		audioPath:   rec.AudioPath,
		title:       rec.Title,
		templateID:  rec.TemplateID,
	})
}

// ConvertResult is returned by ConvertNote
type ConvertResult struct {
	NotePath      string
	NewTemplateID string
	Summary       string
}

// ConvertNote re-summarizes an existing note's stored transcript under
// a different template and rewrites the file in place. It never re-runs
// transcription and never touches the recording store; the note's
// embedded transcript is the single source of truth.
func (n *NoteTaker) ConvertNote(ctx context.Context, notePath, newTemplateID string, observer Observer) (ConvertResult, error) {
	observer.emit(Event{Stage: StageValidating, Step: 1, Total: 3, Message: "Parsing existing note..."})

	parsed, err := notes.ParseNote(notePath)
	if err != nil {
		return ConvertResult{}, err
	}
	if len(parsed.Transcription) < minTranscriptLen {
		return ConvertResult{}, errors.New("no transcription found in note file, cannot convert")
	}

	observer.emit(Event{Stage: StageSummarizing, Step: 2, Total: 3, Message: "Generating new summary..."})

	summary, err := n.summarizer.Summarize(ctx, parsed.Transcription, parsed.Title, newTemplateID)
	if err != nil {
		return ConvertResult{}, err
	}

	observer.emit(Event{Stage: StageWriting, Step: 3, Total: 3, Message: "Updating note file..."})

	updatedPath, err := notes.UpdateNote(notePath, summary, newTemplateID)
	if err != nil {
		return ConvertResult{}, err
	}

	observer.emit(Event{Stage: StageDone, Step: 3, Total: 3, Message: "Completed"})

	return ConvertResult{
		NotePath:      updatedPath,
		NewTemplateID: newTemplateID,
		Summary:       summary,
	}, nil
}

// UpdateMeetingTitle changes the live session's title and propagates it
// to the store so history views see the edit mid-recording
func (n *NoteTaker) UpdateMeetingTitle(title string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session == nil {
		return
	}
	if title == "" {
		title = "Meeting"
	}
	n.session.title = title
	n.store.UpdateRecording(n.session.recordingID, history.Update{Title: &title})
}

// UpdateMeetingTemplate changes the live session's template
func (n *NoteTaker) UpdateMeetingTemplate(templateID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session == nil {
		return
	}
	if templateID == "" {
		templateID = "general"
	}
	n.session.templateID = templateID
	n.store.UpdateRecording(n.session.recordingID, history.Update{TemplateID: &templateID})
}

// UpdateMeetingParticipants changes the live session's participant list
func (n *NoteTaker) UpdateMeetingParticipants(participants []string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session == nil {
		return
	}
	n.session.participants = participants
}

// IsRecording reports whether a session is currently active
func (n *NoteTaker) IsRecording() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.session != nil
}

// ActiveRecordingID returns the live session's recording id, if any
func (n *NoteTaker) ActiveRecordingID() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.session == nil {
		return "", false
	}
	return n.session.recordingID, true
}

// validateAudio checks the captured file exists and is plausibly real
func (n *NoteTaker) validateAudio(audioPath string) error {
	info, err := os.Stat(audioPath)
	if err != nil {
		return errors.New("audio file was not created")
	}
	if info.Size() < n.opts.MinAudioBytes {
		return errors.New("audio file is too small, recording may have failed")
	}
	return nil
}

// fail durably records the failure and emits the terminal event before
// handing the error back to the caller. The error message is stored
// verbatim for user display.
func (n *NoteTaker) fail(recordingID string, observer Observer, err error) error {
	n.failRecording(recordingID, err)
	observer.emit(Event{Stage: StageFailed, Step: 0, Total: 3, Message: err.Error(), Err: err})
	return err
}

func (n *NoteTaker) failRecording(recordingID string, err error) {
	status := models.StatusFailed
	msg := err.Error()
	n.store.UpdateRecording(recordingID, history.Update{
		Status: &status,
		Error:  &msg,
	})
}

func (n *NoteTaker) setStatus(recordingID string, status models.Status) {
	n.store.UpdateRecording(recordingID, history.Update{Status: &status})
}
