package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetNotesPath returns the root directory for generated notes
func GetNotesPath() string {
	return viper.GetString("notes.path")
}

// GetLlamaAPIURL returns the local LLM generate endpoint
func GetLlamaAPIURL() string {
	return viper.GetString("llama.api_url")
}

// GetLlamaModel returns the summarization model name
func GetLlamaModel() string {
	return viper.GetString("llama.model")
}

// GetWhisperModel returns the whisper model name
func GetWhisperModel() string {
	return viper.GetString("whisper.model")
}

// GetWhisperBinary returns the whisper executable name or path
func GetWhisperBinary() string {
	return viper.GetString("whisper.binary")
}

// GetSampleRate returns the capture sample rate in Hz
func GetSampleRate() int {
	return viper.GetInt("audio.sample_rate")
}

// GetChannels returns the capture channel count
func GetChannels() int {
	return viper.GetInt("audio.channels")
}

// GetMinAudioBytes returns the minimum byte size below which a captured
// audio file is treated as a failed recording
func GetMinAudioBytes() int64 {
	return viper.GetInt64("audio.min_bytes")
}

// GetSettleDelayMillis returns how long to wait after stopping capture
// before validating the audio file
func GetSettleDelayMillis() int {
	return viper.GetInt("audio.settle_ms")
}

// GetEmbeddingsEnabled returns whether note embeddings are generated
func GetEmbeddingsEnabled() bool {
	return viper.GetBool("embeddings.enabled")
}

// GetEmbeddingModel returns the embedding model name
func GetEmbeddingModel() string {
	return viper.GetString("embeddings.model")
}

// GetOllamaURL returns the Ollama API endpoint
func GetOllamaURL() string {
	return viper.GetString("embeddings.ollama_url")
}

// GetKeywordWeight returns the keyword weight for hybrid search
func GetKeywordWeight() float64 {
	return viper.GetFloat64("search.keyword_weight")
}

// GetSemanticWeight returns the semantic weight for hybrid search
func GetSemanticWeight() float64 {
	return viper.GetFloat64("search.semantic_weight")
}

// DataDir returns the per-user application data directory, creating it
// if needed
func DataDir() (string, error) {
	if dir := viper.GetString("data.dir"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".meetnote")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
