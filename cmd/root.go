package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "meetnote",
	Short: "Local-first meeting recorder and note taker",
	Long: `meetnote records meetings from the microphone and turns them into
markdown notes:
  - capture with ffmpeg
  - transcribe with a local Whisper install
  - summarize with a local LLM (Ollama-compatible endpoint)
  - write template-shaped notes with frontmatter into your notes folder

Every recording attempt is tracked in a durable history that survives
restarts, so failed attempts can be retried and finished notes can be
converted between templates without re-transcribing.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/meetnote/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "meetnote")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("notes.path", "")
	viper.SetDefault("llama.api_url", "http://localhost:11434/api/generate")
	viper.SetDefault("llama.model", "llama3.2")
	viper.SetDefault("whisper.model", "base")
	viper.SetDefault("whisper.binary", "whisper")
	viper.SetDefault("audio.sample_rate", 16000)
	viper.SetDefault("audio.channels", 1)
	viper.SetDefault("audio.min_bytes", 1000)
	viper.SetDefault("audio.settle_ms", 1000)
	viper.SetDefault("embeddings.enabled", true)
	viper.SetDefault("embeddings.model", "nomic-embed-text")
	viper.SetDefault("embeddings.ollama_url", "http://localhost:11434")
	viper.SetDefault("search.keyword_weight", 0.3)
	viper.SetDefault("search.semantic_weight", 0.7)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
