package meeting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/merow/meetnote/internal/history"
	"github.com/merow/meetnote/internal/models"
	"github.com/merow/meetnote/internal/notes"
	"github.com/merow/meetnote/internal/testutil"
)

// stubCapture writes a file of the configured size on Start so the
// validation step has something to measure
type stubCapture struct {
	size      int
	startErr  error
	stopErr   error
	recording bool
}

func (c *stubCapture) Start(outputPath string) error {
	if c.startErr != nil {
		return c.startErr
	}
	if err := os.WriteFile(outputPath, make([]byte, c.size), 0644); err != nil {
		return err
	}
	c.recording = true
	return nil
}

func (c *stubCapture) Stop() error {
	c.recording = false
	return c.stopErr
}

func (c *stubCapture) IsRecording() bool {
	return c.recording
}

type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubSummarizer struct {
	err            error
	calls          int
	lastTitle      string
	lastTemplateID string
}

func (s *stubSummarizer) Summarize(ctx context.Context, transcription, meetingTitle, templateID string) (string, error) {
	s.calls++
	s.lastTitle = meetingTitle
	s.lastTemplateID = templateID
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("summary of %s under %s", meetingTitle, templateID), nil
}

type fixture struct {
	store       *history.Store
	capture     *stubCapture
	transcriber *stubTranscriber
	summarizer  *stubSummarizer
	taker       *NoteTaker
}

const goodTranscript = "alice said the launch moves to friday and bob agreed to update the roadmap"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:       testutil.NewStore(t),
		capture:     &stubCapture{size: 4096},
		transcriber: &stubTranscriber{text: goodTranscript},
		summarizer:  &stubSummarizer{},
	}
	f.taker = NewNoteTaker(
		f.store,
		f.transcriber,
		f.summarizer,
		notes.NewWriter(testutil.NewNotesRoot(t)),
		f.capture,
		Options{TempDir: t.TempDir(), SettleDelay: time.Millisecond},
	)
	return f
}

func TestStartStopHappyPath(t *testing.T) {
	f := newFixture(t)

	start, err := f.taker.StartMeeting("Standup", "standup", []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}
	if !f.taker.IsRecording() {
		t.Error("expected an active session after start")
	}

	rec, ok := f.store.GetRecording(start.RecordingID)
	if !ok {
		t.Fatal("recording not registered on start")
	}
	if rec.Status != models.StatusPending {
		t.Errorf("expected pending before stop, got %s", rec.Status)
	}

	var stages []Stage
	result, err := f.taker.StopMeeting(context.Background(), func(e Event) {
		stages = append(stages, e.Stage)
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if f.taker.IsRecording() {
		t.Error("session still active after stop")
	}
	if result.Transcription != goodTranscript {
		t.Errorf("transcription: got %q", result.Transcription)
	}
	if result.NotePath == "" {
		t.Fatal("no note path returned")
	}

	rec, _ = f.store.GetRecording(start.RecordingID)
	if rec.Status != models.StatusCompleted {
		t.Errorf("expected completed, got %s (error: %q)", rec.Status, rec.Error)
	}
	if rec.NotePath != result.NotePath {
		t.Errorf("note path not recorded: %q vs %q", rec.NotePath, result.NotePath)
	}
	if rec.Error != "" {
		t.Errorf("expected no stored error, got %q", rec.Error)
	}

	parsed, err := notes.ParseNote(result.NotePath)
	if err != nil {
		t.Fatalf("written note does not parse: %v", err)
	}
	if parsed.Title != "Standup" {
		t.Errorf("note title: got %q", parsed.Title)
	}
	if parsed.TemplateID != "standup" {
		t.Errorf("note template: got %q", parsed.TemplateID)
	}
	if len(parsed.Participants) != 2 {
		t.Errorf("note participants: got %v", parsed.Participants)
	}

	want := []Stage{StageValidating, StageTranscribing, StageSummarizing, StageWriting, StageDone}
	if len(stages) != len(want) {
		t.Fatalf("event stages: got %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, stages[i], want[i])
		}
	}
}

func TestStartMeetingRejectsSecondSession(t *testing.T) {
	f := newFixture(t)

	if _, err := f.taker.StartMeeting("First", "general", nil); err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}

	if _, err := f.taker.StartMeeting("Second", "general", nil); !errors.Is(err, ErrSessionActive) {
		t.Errorf("expected ErrSessionActive, got %v", err)
	}

	// The first session must still be intact
	if !f.taker.IsRecording() {
		t.Error("first session lost after rejected start")
	}
}

func TestStopMeetingWithoutSession(t *testing.T) {
	f := newFixture(t)

	if _, err := f.taker.StopMeeting(context.Background(), nil); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestStartMeetingDefaults(t *testing.T) {
	f := newFixture(t)

	start, err := f.taker.StartMeeting("", "", nil)
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}

	rec, _ := f.store.GetRecording(start.RecordingID)
	if rec.Title != "Meeting" {
		t.Errorf("expected default title, got %q", rec.Title)
	}
	if rec.TemplateID != "general" {
		t.Errorf("expected default template, got %q", rec.TemplateID)
	}
}

func TestStartMeetingCaptureFailure(t *testing.T) {
	f := newFixture(t)
	f.capture.startErr = errors.New("no input device")

	_, err := f.taker.StartMeeting("Doomed", "general", nil)
	if err == nil {
		t.Fatal("expected start to fail")
	}
	if f.taker.IsRecording() {
		t.Error("session left active after failed start")
	}

	// The pending record is marked failed, not dropped
	all := f.store.GetAllRecordings()
	if len(all) != 1 || all[0].Status != models.StatusFailed {
		t.Errorf("expected one failed recording, got %+v", all)
	}
}

func TestStopMeetingAudioTooSmall(t *testing.T) {
	f := newFixture(t)
	f.capture.size = 10

	start, err := f.taker.StartMeeting("Quiet", "general", nil)
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}

	_, err = f.taker.StopMeeting(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "too small") {
		t.Fatalf("expected a too-small error, got %v", err)
	}

	rec, _ := f.store.GetRecording(start.RecordingID)
	if rec.Status != models.StatusFailed {
		t.Errorf("expected failed, got %s", rec.Status)
	}
	if rec.Error == "" {
		t.Error("expected the failure message to be stored")
	}
	if f.transcriber.calls != 0 {
		t.Error("transcription ran on an invalid file")
	}
}

func TestShortTranscriptFailsPipeline(t *testing.T) {
	f := newFixture(t)
	f.transcriber.text = "uh huh" // under the content-quality gate

	start, err := f.taker.StartMeeting("Silent", "general", nil)
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}

	var failedEvent *Event
	_, err = f.taker.StopMeeting(context.Background(), func(e Event) {
		if e.Stage == StageFailed {
			ev := e
			failedEvent = &ev
		}
	})
	if err == nil || !strings.Contains(err.Error(), "transcription") {
		t.Fatalf("expected a transcription error, got %v", err)
	}

	rec, _ := f.store.GetRecording(start.RecordingID)
	if rec.Status != models.StatusFailed {
		t.Errorf("expected failed, got %s", rec.Status)
	}
	if !strings.Contains(rec.Error, "transcription") {
		t.Errorf("stored error should mention transcription: %q", rec.Error)
	}
	if f.summarizer.calls != 0 {
		t.Error("summarizer ran on a rejected transcript")
	}
	if failedEvent == nil {
		t.Error("no failed event emitted")
	} else if failedEvent.Err == nil {
		t.Error("failed event carries no error")
	}
}

func TestRetryTranscriptionRecovers(t *testing.T) {
	f := newFixture(t)
	f.transcriber.err = errors.New("whisper crashed")

	start, err := f.taker.StartMeeting("Flaky", "sales", nil)
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}
	if _, err := f.taker.StopMeeting(context.Background(), nil); err == nil {
		t.Fatal("expected the first run to fail")
	}

	rec, _ := f.store.GetRecording(start.RecordingID)
	if rec.Status != models.StatusFailed || rec.Error == "" {
		t.Fatalf("expected a stored failure, got %+v", rec)
	}

	// Whisper behaves on the second attempt
	f.transcriber.err = nil

	result, err := f.taker.RetryTranscription(context.Background(), start.RecordingID, nil)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.NotePath == "" {
		t.Error("retry produced no note")
	}

	rec, _ = f.store.GetRecording(start.RecordingID)
	if rec.Status != models.StatusCompleted {
		t.Errorf("expected completed after retry, got %s", rec.Status)
	}
	if rec.Error != "" {
		t.Errorf("expected the stored error cleared, got %q", rec.Error)
	}

	// Retry re-runs both steps with the stored title and template
	if f.transcriber.calls != 2 {
		t.Errorf("expected 2 transcription attempts, got %d", f.transcriber.calls)
	}
	if f.summarizer.lastTitle != "Flaky" || f.summarizer.lastTemplateID != "sales" {
		t.Errorf("retry used %q/%q, want stored title and template", f.summarizer.lastTitle, f.summarizer.lastTemplateID)
	}
}

func TestRetryTranscriptionErrors(t *testing.T) {
	t.Run("unknown recording", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.taker.RetryTranscription(context.Background(), "no-such-id", nil); !errors.Is(err, ErrRecordingNotFound) {
			t.Errorf("expected ErrRecordingNotFound, got %v", err)
		}
	})

	t.Run("recording still active", func(t *testing.T) {
		f := newFixture(t)
		start, err := f.taker.StartMeeting("Live", "general", nil)
		if err != nil {
			t.Fatalf("failed to start meeting: %v", err)
		}
		if _, err := f.taker.RetryTranscription(context.Background(), start.RecordingID, nil); !errors.Is(err, ErrRecordingActive) {
			t.Errorf("expected ErrRecordingActive, got %v", err)
		}
	})

	t.Run("missing audio file", func(t *testing.T) {
		f := newFixture(t)
		rec := f.store.AddRecording(history.AddParams{
			Title:     "Orphan",
			AudioPath: "/tmp/gone-meetnote.wav",
		})
		_, err := f.taker.RetryTranscription(context.Background(), rec.ID, nil)
		if err == nil || !strings.Contains(err.Error(), "audio file not found") {
			t.Errorf("expected an audio-not-found error, got %v", err)
		}
	})
}

func TestLateBoundSessionEdits(t *testing.T) {
	f := newFixture(t)

	start, err := f.taker.StartMeeting("Working Title", "general", nil)
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}

	// Edits made while recording win over the values at start
	f.taker.UpdateMeetingTitle("Q3 Pricing Review")
	f.taker.UpdateMeetingTemplate("sales")
	f.taker.UpdateMeetingParticipants([]string{"carol"})

	// Title and template edits are visible in history immediately
	rec, _ := f.store.GetRecording(start.RecordingID)
	if rec.Title != "Q3 Pricing Review" || rec.TemplateID != "sales" {
		t.Errorf("live edit not propagated to store: %+v", rec)
	}

	result, err := f.taker.StopMeeting(context.Background(), nil)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if f.summarizer.lastTitle != "Q3 Pricing Review" || f.summarizer.lastTemplateID != "sales" {
		t.Errorf("summarizer saw %q/%q, want the edited values", f.summarizer.lastTitle, f.summarizer.lastTemplateID)
	}

	parsed, err := notes.ParseNote(result.NotePath)
	if err != nil {
		t.Fatalf("written note does not parse: %v", err)
	}
	if parsed.Title != "Q3 Pricing Review" {
		t.Errorf("note title: got %q", parsed.Title)
	}
	if parsed.TemplateID != "sales" {
		t.Errorf("note template: got %q", parsed.TemplateID)
	}
	if len(parsed.Participants) != 1 || parsed.Participants[0] != "carol" {
		t.Errorf("note participants: got %v", parsed.Participants)
	}
}

func TestUpdateMeetingTitleWithoutSession(t *testing.T) {
	f := newFixture(t)

	// Must be a no-op, not a panic
	f.taker.UpdateMeetingTitle("Nobody Home")
	f.taker.UpdateMeetingTemplate("sales")
	f.taker.UpdateMeetingParticipants([]string{"dave"})

	if len(f.store.GetAllRecordings()) != 0 {
		t.Error("edits without a session created records")
	}
}

func TestConvertNoteNeverRetranscribes(t *testing.T) {
	f := newFixture(t)

	// A finished note from an earlier run
	start, err := f.taker.StartMeeting("Kickoff", "general", nil)
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}
	stopResult, err := f.taker.StopMeeting(context.Background(), nil)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	transcriberCalls := f.transcriber.calls
	summarizerCalls := f.summarizer.calls

	result, err := f.taker.ConvertNote(context.Background(), stopResult.NotePath, "planning", nil)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if result.NewTemplateID != "planning" {
		t.Errorf("result template: got %q", result.NewTemplateID)
	}

	if f.transcriber.calls != transcriberCalls {
		t.Error("conversion re-ran transcription")
	}
	if f.summarizer.calls != summarizerCalls+1 {
		t.Errorf("expected exactly one extra summarize call, got %d", f.summarizer.calls-summarizerCalls)
	}

	parsed, err := notes.ParseNote(result.NotePath)
	if err != nil {
		t.Fatalf("converted note does not parse: %v", err)
	}
	if parsed.TemplateID != "planning" {
		t.Errorf("note template after conversion: got %q", parsed.TemplateID)
	}
	if parsed.Transcription != goodTranscript {
		t.Errorf("transcript changed during conversion: %q", parsed.Transcription)
	}

	// Conversion works off the note file alone; history is untouched
	rec, _ := f.store.GetRecording(start.RecordingID)
	if rec.TemplateID != "general" {
		t.Errorf("conversion modified the recording store: %+v", rec)
	}
}

func TestConvertNoteWithoutTranscript(t *testing.T) {
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "note.md")
	content := "---\ntitle: Thin\n---\n\n<details>\nshort\n</details>\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}

	_, err := f.taker.ConvertNote(context.Background(), path, "sales", nil)
	if err == nil || !strings.Contains(err.Error(), "cannot convert") {
		t.Errorf("expected a cannot-convert error, got %v", err)
	}
	if f.summarizer.calls != 0 {
		t.Error("summarizer ran without a usable transcript")
	}
}

func TestActiveRecordingID(t *testing.T) {
	f := newFixture(t)

	if _, ok := f.taker.ActiveRecordingID(); ok {
		t.Error("expected no active recording before start")
	}

	start, err := f.taker.StartMeeting("Tracked", "general", nil)
	if err != nil {
		t.Fatalf("failed to start meeting: %v", err)
	}

	id, ok := f.taker.ActiveRecordingID()
	if !ok || id != start.RecordingID {
		t.Errorf("active id: got %q/%v, want %q", id, ok, start.RecordingID)
	}
}
