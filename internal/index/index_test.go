package index

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := New(filepath.Join(t.TempDir(), "embeddings"))
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	return ix
}

func TestPutGetRoundTrip(t *testing.T) {
	ix := newTestIndex(t)
	notePath := "/notes/Sales Call/Kickoff.md"
	vec := []float64{0.1, -0.5, 3.14159, 0, 42.0}

	if ix.Has(notePath) {
		t.Error("Has reported a vector before Put")
	}

	if err := ix.Put(notePath, vec); err != nil {
		t.Fatalf("failed to store vector: %v", err)
	}

	if !ix.Has(notePath) {
		t.Error("Has did not report the stored vector")
	}

	got, err := ix.Get(notePath)
	if err != nil {
		t.Fatalf("failed to load vector: %v", err)
	}
	if len(got) != len(vec) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], vec[i])
		}
	}
}

func TestVectorPathIsStable(t *testing.T) {
	ix := newTestIndex(t)

	a := ix.VectorPath("/notes/a.md")
	if a != ix.VectorPath("/notes/a.md") {
		t.Error("vector path not deterministic")
	}
	if a == ix.VectorPath("/notes/b.md") {
		t.Error("different notes mapped to the same vector file")
	}
}

func TestRemove(t *testing.T) {
	ix := newTestIndex(t)
	notePath := "/notes/gone.md"

	if err := ix.Put(notePath, []float64{1, 2, 3}); err != nil {
		t.Fatalf("failed to store vector: %v", err)
	}

	ix.Remove(notePath)
	if ix.Has(notePath) {
		t.Error("vector still present after remove")
	}

	// Removing again must not panic
	ix.Remove(notePath)
}

func TestGetRejectsTruncatedFile(t *testing.T) {
	ix := newTestIndex(t)
	notePath := "/notes/torn.md"

	if err := os.WriteFile(ix.VectorPath(notePath), []byte("abc"), 0644); err != nil {
		t.Fatalf("failed to write corrupt vector: %v", err)
	}

	if _, err := ix.Get(notePath); err == nil {
		t.Error("expected an error for a non-multiple-of-8 file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vec     []float64
		wantErr bool
	}{
		{"valid vector", []float64{0.1, -0.5, 2.0}, false},
		{"empty vector", []float64{}, true},
		{"nil vector", nil, true},
		{"contains NaN", []float64{0.1, math.NaN(), 0.3}, true},
		{"contains +Inf", []float64{0.1, math.Inf(1)}, true},
		{"contains -Inf", []float64{math.Inf(-1), 0.2}, true},
		{"zeros are fine", []float64{0, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.vec)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.vec, err, tt.wantErr)
			}
		})
	}
}
