// Package testutil provides shared fixtures for pipeline tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/merow/meetnote/internal/history"
)

// NewNotesRoot creates a temporary, existing notes root directory
func NewNotesRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "notes")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create notes root: %v", err)
	}
	return root
}

// NewStore creates a recording store backed by a temporary data dir
func NewStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

// WriteFileOfSize writes a file of exactly size bytes
func WriteFileOfSize(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// StubWhisper installs a fake whisper executable on PATH that writes
// the given transcript into the expected .txt sidecar. Returns the
// executable's directory.
func StubWhisper(t *testing.T, transcript string) string {
	t.Helper()

	dir := t.TempDir()
	script := "#!/bin/sh\nout=\"${1%.*}.txt\"\nprintf '%s' \"$STUB_TRANSCRIPT\" > \"$out\"\n"

	path := filepath.Join(dir, "whisper")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to install stub whisper: %v", err)
	}

	t.Setenv("STUB_TRANSCRIPT", transcript)
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	return dir
}
