// Package summarize provides the LLM summarization port of the pipeline.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/merow/meetnote/internal/templates"
)

// Summarizer turns a transcript into template-shaped summary text
type Summarizer interface {
	Summarize(ctx context.Context, transcription, meetingTitle, templateID string) (string, error)
}

// Llama calls a local LLM generate endpoint (Ollama-compatible). The
// endpoint URL and model are configuration, not discovery.
type Llama struct {
	apiURL string
	model  string
	client *http.Client
}

// NewLlama creates a summarizer against the given generate endpoint
func NewLlama(apiURL, model string) *Llama {
	return &Llama{
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Model returns the model being used
func (l *Llama) Model() string {
	return l.model
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// generateResponse tolerates both reply shapes: Ollama's "response" and
// llama.cpp-style "text"
type generateResponse struct {
	Response string `json:"response"`
	Text     string `json:"text"`
}

// Summarize builds the template prompt and runs one generate call. No
// retries here: a failed call is a pipeline failure and the caller
// decides what to do with it.
func (l *Llama) Summarize(ctx context.Context, transcription, meetingTitle, templateID string) (string, error) {
	tmpl := templates.Get(templateID)
	prompt := templates.BuildPrompt(tmpl, transcription, meetingTitle)

	body, err := json.Marshal(generateRequest{
		Model:  l.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.7,
			TopP:        0.9,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return "", fmt.Errorf("cannot connect to LLM API at %s - is Ollama running? (ollama serve): %w", l.apiURL, err)
		}
		return "", fmt.Errorf("summarization request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read summarization response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return "", fmt.Errorf("failed to parse LLM response: %w", err)
	}

	summary := gen.Response
	if summary == "" {
		summary = gen.Text
	}
	if summary == "" {
		return "", fmt.Errorf("unexpected response format from LLM API")
	}

	return strings.TrimSpace(summary), nil
}
