// Package notes owns the on-disk note format: rendering a summary and
// transcript into a markdown file with YAML-style frontmatter, and
// parsing such a file back into structured fields for template
// conversion.
package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/merow/meetnote/internal/templates"
)

// Sentinel errors surfaced to the UI layer. A missing notes root is a
// configuration problem, not a pipeline failure.
var (
	ErrNotesRootMissing = errors.New("notes folder not found")
	ErrNoFrontmatter    = errors.New("no frontmatter block found in note")
	ErrNoTranscription  = errors.New("no transcription found in note file")
)

// wordsPerMinute drives the duration estimate in the frontmatter. It is
// an approximation from word count, not a measured duration.
const wordsPerMinute = 150

// Writer renders and parses meeting notes under a fixed root directory
type Writer struct {
	root string
}

// NewWriter creates a note writer rooted at the configured notes path
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Root returns the notes root directory
func (w *Writer) Root() string {
	return w.root
}

// SaveNote renders a note and writes it under the template's
// subdirectory. The notes root must already exist: auto-creating it
// would hide a missing configuration, and "not configured" has to stay
// distinguishable from "configured but empty".
func (w *Writer) SaveNote(summary, transcription, title, templateID string, participants []string) (string, error) {
	if w.root == "" {
		return "", fmt.Errorf("%w: notes path is not configured", ErrNotesRootMissing)
	}
	if _, err := os.Stat(w.root); err != nil {
		return "", fmt.Errorf("%w at: %s", ErrNotesRootMissing, w.root)
	}

	tmpl := templates.Get(templateID)
	dir := filepath.Join(w.root, sanitizeTitle(tmpl.Name))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create notes directory: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s - %s.md", sanitizeTitle(title), now.Format("January 2, 2006 15.04"))
	path := filepath.Join(dir, filename)

	content := FormatNote(summary, transcription, title, templateID, participants, now)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write note: %w", err)
	}

	return path, nil
}

// FormatNote renders the full markdown note for the given moment
func FormatNote(summary, transcription, title, templateID string, participants []string, now time.Time) string {
	return renderNote(noteFields{
		Title:         title,
		Date:          now.Format("January 2, 2006"),
		Time:          now.Format("15:04"),
		TemplateID:    templateID,
		Participants:  participants,
		Summary:       summary,
		Transcription: transcription,
	})
}

type noteFields struct {
	Title         string
	Date          string
	Time          string
	TemplateID    string
	Participants  []string
	Summary       string
	Transcription string
}

func renderNote(f noteFields) string {
	tmpl := templates.Get(f.TemplateID)

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", f.Title)
	fmt.Fprintf(&b, "date: %s\n", f.Date)
	fmt.Fprintf(&b, "time: %s\n", f.Time)
	fmt.Fprintf(&b, "template: %s\n", tmpl.Name)
	fmt.Fprintf(&b, "meeting_type: %s\n", tmpl.ID)
	fmt.Fprintf(&b, "duration: %s\n", estimateDuration(f.Transcription))
	fmt.Fprintf(&b, "participants: [%s]\n", strings.Join(f.Participants, ", "))
	b.WriteString("tags: [meeting, notes, auto-generated]\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", f.Title)
	fmt.Fprintf(&b, "**Date:** %s  \n", f.Date)
	fmt.Fprintf(&b, "**Time:** %s  \n", f.Time)
	fmt.Fprintf(&b, "**Template:** %s %s  \n", tmpl.Icon, tmpl.Name)
	if len(f.Participants) > 0 {
		fmt.Fprintf(&b, "**Participants:** %s  \n", strings.Join(f.Participants, ", "))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString(f.Summary)
	b.WriteString("\n\n---\n\n")

	b.WriteString("## Full Transcription\n\n")
	b.WriteString("<details>\n")
	b.WriteString("<summary>Click to expand full transcription</summary>\n\n")
	b.WriteString("```\n")
	b.WriteString(f.Transcription)
	b.WriteString("\n```\n\n")
	b.WriteString("</details>\n\n")

	b.WriteString("---\n\n")
	b.WriteString("*Note: This meeting summary was automatically generated using AI transcription and summarization.*\n")

	return b.String()
}

// estimateDuration derives a rough meeting length from transcript word
// count at ~150 words per minute
func estimateDuration(transcription string) string {
	words := len(strings.Fields(transcription))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("~%d min", minutes)
}

var sanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9-_ ]`)

func sanitizeTitle(title string) string {
	clean := sanitizeRe.ReplaceAllString(title, "")
	clean = strings.Join(strings.Fields(clean), " ")
	if clean == "" {
		clean = "Meeting"
	}
	return clean
}

// ParsedNote holds the fields recovered from an existing note file
type ParsedNote struct {
	Title         string
	Transcription string
	Summary       string
	TemplateID    string
	Participants  []string
	Frontmatter   map[string]string
}

// frontmatterAliases lists the accepted frontmatter key names for each
// logical field, in priority order. Older notes used template_id before
// it was renamed to meeting_type; adding another legacy name later is a
// one-line change here.
var frontmatterAliases = map[string][]string{
	"template": {"meeting_type", "template_id"},
	"title":    {"title"},
}

func resolveField(fm map[string]string, field string) string {
	for _, key := range frontmatterAliases[field] {
		if v, ok := fm[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// ParseNote reads a note file back into structured fields. It fails if
// the frontmatter block or the collapsible transcription section cannot
// be found: conversion cannot proceed without a transcript.
func ParseNote(notePath string) (*ParsedNote, error) {
	data, err := os.ReadFile(notePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read note: %w", err)
	}
	content := string(data)

	fm, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedNote{
		Frontmatter:  fm,
		Title:        resolveField(fm, "title"),
		TemplateID:   resolveField(fm, "template"),
		Participants: parseBracketList(fm["participants"]),
	}
	if parsed.TemplateID == "" {
		parsed.TemplateID = templates.DefaultID
	}
	if parsed.Title == "" {
		parsed.Title = firstHeading(body)
	}

	parsed.Summary = extractSummary(body)

	transcription, err := extractTranscription(body)
	if err != nil {
		return nil, err
	}
	parsed.Transcription = transcription

	return parsed, nil
}

// splitFrontmatter separates the leading --- delimited block from the
// note body and parses its key: value lines
func splitFrontmatter(content string) (map[string]string, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, "", ErrNoFrontmatter
	}

	fm := make(map[string]string)
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
		key, value, found := strings.Cut(lines[i], ":")
		if !found {
			continue
		}
		fm[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if end == -1 {
		return nil, "", ErrNoFrontmatter
	}

	return fm, strings.Join(lines[end+1:], "\n"), nil
}

// parseBracketList parses a frontmatter value like "[alice, bob]"
func parseBracketList(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	if value == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// extractSummary returns the text of the ## Summary section, up to the
// next horizontal rule or section heading
func extractSummary(body string) string {
	_, rest, found := strings.Cut(body, "## Summary")
	if !found {
		return ""
	}

	for _, stop := range []string{"\n---", "\n## "} {
		if idx := strings.Index(rest, stop); idx != -1 {
			rest = rest[:idx]
		}
	}

	return strings.TrimSpace(rest)
}

// extractTranscription pulls the transcript out of the collapsible
// section. The text may sit in a fenced code block or as plain text
// after the <summary> line; both embeddings occur in existing notes.
func extractTranscription(body string) (string, error) {
	_, rest, found := strings.Cut(body, "<details>")
	if !found {
		return "", ErrNoTranscription
	}

	inner, _, found := strings.Cut(rest, "</details>")
	if !found {
		inner = rest
	}

	// Drop the <summary> toggle line
	if idx := strings.Index(inner, "</summary>"); idx != -1 {
		inner = inner[idx+len("</summary>"):]
	}

	// Fenced code block wins when present
	if start := strings.Index(inner, "```"); start != -1 {
		fenced := inner[start+3:]
		// Skip an optional language tag on the fence line
		if nl := strings.Index(fenced, "\n"); nl != -1 {
			fenced = fenced[nl+1:]
		}
		if end := strings.Index(fenced, "```"); end != -1 {
			fenced = fenced[:end]
		}
		if text := strings.TrimSpace(fenced); text != "" {
			return text, nil
		}
	}

	if text := strings.TrimSpace(inner); text != "" {
		return text, nil
	}

	return "", ErrNoTranscription
}

// UpdateNote re-renders an existing note with a new summary and
// template, overwriting the file in place. The original modification
// timestamp is restored so a conversion does not bump the note's
// apparent recency in a file browser.
func UpdateNote(notePath, newSummary, newTemplateID string) (string, error) {
	info, err := os.Stat(notePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat note: %w", err)
	}
	modTime := info.ModTime()

	parsed, err := ParseNote(notePath)
	if err != nil {
		return "", err
	}

	content := renderNote(noteFields{
		Title:         parsed.Title,
		Date:          parsed.Frontmatter["date"],
		Time:          parsed.Frontmatter["time"],
		TemplateID:    newTemplateID,
		Participants:  parsed.Participants,
		Summary:       newSummary,
		Transcription: parsed.Transcription,
	})

	if err := os.WriteFile(notePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to update note: %w", err)
	}

	if err := os.Chtimes(notePath, time.Now(), modTime); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to preserve note timestamp: %v\n", err)
	}

	return notePath, nil
}

// NoteFile is a note found under the notes root
type NoteFile struct {
	Name    string
	Path    string
	ModTime time.Time
}

// ListNotes walks the notes root and returns every markdown note,
// newest first. A missing root yields an empty list.
func (w *Writer) ListNotes() ([]NoteFile, error) {
	if _, err := os.Stat(w.root); err != nil {
		return nil, nil
	}

	var files []NoteFile
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, NoteFile{
			Name:    d.Name(),
			Path:    path,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}
