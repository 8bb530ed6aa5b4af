package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer server.Close()

	if !IsAvailable(server.URL) {
		t.Error("expected a running server to be available")
	}

	server.Close()
	if IsAvailable(server.URL) {
		t.Error("expected a closed server to be unavailable")
	}
}

func TestCheckModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "nomic-embed-text:latest"},
				{"name": "llama3.2:latest"},
			},
		})
	}))
	defer server.Close()

	tests := []struct {
		name    string
		model   string
		wantErr bool
	}{
		{"exact tag suffix match", "nomic-embed-text", false},
		{"full tagged name", "llama3.2:latest", false},
		{"missing model", "mistral", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(server.URL, tt.model)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}
			err = client.CheckModel(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "ollama pull") {
				t.Errorf("expected the pull hint in the error, got %v", err)
			}
		})
	}
}

func TestGenerateEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model":      "nomic-embed-text",
			"embeddings": [][]float32{{0.5, -0.25, 0.125}},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	vec, err := client.GenerateEmbedding(context.Background(), "meeting about pricing")
	if err != nil {
		t.Fatalf("embedding failed: %v", err)
	}
	want := []float64{0.5, -0.25, 0.125}
	if len(vec) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, vec[i], want[i])
		}
	}
}

func TestGenerateEmbeddingRejectsEmptyText(t *testing.T) {
	client, err := NewClient(DefaultURL, "")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if client.Model() != DefaultEmbeddingModel {
		t.Errorf("expected default model, got %q", client.Model())
	}

	if _, err := client.GenerateEmbedding(context.Background(), ""); err == nil {
		t.Error("expected an error for empty text")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient("://not-a-url", "m"); err == nil {
		t.Error("expected an error for an unparseable url")
	}
}
