package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/merow/meetnote/internal/config"
	"github.com/merow/meetnote/internal/index"
	"github.com/merow/meetnote/internal/notes"
	"github.com/merow/meetnote/internal/ollama"
	"github.com/spf13/cobra"
)

var searchTemplate string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search meeting notes using hybrid keyword and semantic search",
	Long: `Search through note titles, summaries, transcripts, and participants.

Combines keyword matching with semantic similarity when note embeddings
are available and Ollama is running.

Example:
  meetnote search "pricing objections"
  meetnote search --template sales "renewal"

Search modes:
  - Keyword only: when embeddings are unavailable or Ollama is not running
  - Hybrid: keyword (30%) + semantic (70%) when a note has an embedding`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchTemplate, "template", "", "Filter by template id")
}

type searchResult struct {
	Path          string
	Parsed        *notes.ParsedNote
	Score         float64
	KeywordScore  int
	SemanticScore float64
	UsedSemantic  bool
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	queryWords := strings.Fields(strings.ToLower(query))

	writer := notes.NewWriter(config.GetNotesPath())
	files, err := writer.ListNotes()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("No notes found")
		return nil
	}

	var queryEmbedding []float64
	var ix *index.Index
	useSemanticSearch := false

	if config.GetEmbeddingsEnabled() && ollama.IsAvailable(config.GetOllamaURL()) {
		client, err := ollama.NewClient(config.GetOllamaURL(), config.GetEmbeddingModel())
		if err == nil {
			queryEmbedding, err = client.GenerateEmbedding(context.Background(), query)
			if err == nil {
				if ix, err = openIndex(); err == nil {
					useSemanticSearch = true
					fmt.Println("Using hybrid search (keyword + semantic)")
				}
			}
		}
	}

	if !useSemanticSearch {
		fmt.Println("Using keyword search only")
	}

	keywordWeight := config.GetKeywordWeight()
	semanticWeight := config.GetSemanticWeight()

	var results []searchResult
	for _, file := range files {
		parsed, err := notes.ParseNote(file.Path)
		if err != nil {
			// Not every .md under the notes root is one of ours
			continue
		}

		if searchTemplate != "" && parsed.TemplateID != searchTemplate {
			continue
		}

		keywordScore := calculateRelevance(queryWords, parsed)

		var semanticScore float64
		usedSemantic := false

		if useSemanticSearch && ix.Has(file.Path) {
			noteEmbedding, err := ix.Get(file.Path)
			if err == nil {
				similarity, err := index.CosineSimilarity(queryEmbedding, noteEmbedding)
				if err == nil {
					// Map similarity from [-1, 1] to [0, 100]
					semanticScore = (similarity + 1) * 50
					usedSemantic = true
				}
			}
		}

		var finalScore float64
		if usedSemantic {
			normalizedKeyword := float64(keywordScore) / 2.0
			if normalizedKeyword > 100 {
				normalizedKeyword = 100
			}
			finalScore = keywordWeight*normalizedKeyword + semanticWeight*semanticScore
		} else {
			finalScore = float64(keywordScore)
		}

		if finalScore > 0 || keywordScore > 0 {
			results = append(results, searchResult{
				Path:          file.Path,
				Parsed:        parsed,
				Score:         finalScore,
				KeywordScore:  keywordScore,
				SemanticScore: semanticScore,
				UsedSemantic:  usedSemantic,
			})
		}
	}

	if len(results) == 0 {
		fmt.Println("No notes match the search query")
		return nil
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	fmt.Printf("\nFound %d matching note(s):\n\n", len(results))
	for i, r := range results {
		scoreDisplay := fmt.Sprintf("%.1f", r.Score)
		if r.UsedSemantic {
			scoreDisplay += fmt.Sprintf(" (keyword: %d, semantic: %.1f%%)", r.KeywordScore, r.SemanticScore)
		} else {
			scoreDisplay += " (keyword only)"
		}

		fmt.Printf("%d. %s [score: %s]\n", i+1, r.Parsed.Title, scoreDisplay)
		fmt.Printf("   Note:     %s\n", r.Path)
		fmt.Printf("   Template: %s\n", r.Parsed.TemplateID)
		if date := r.Parsed.Frontmatter["date"]; date != "" {
			fmt.Printf("   Date:     %s\n", date)
		}
		if len(r.Parsed.Participants) > 0 {
			fmt.Printf("   With:     %s\n", strings.Join(r.Parsed.Participants, ", "))
		}

		if r.Parsed.Summary != "" {
			summary := r.Parsed.Summary
			if len(summary) > 80 {
				summary = summary[:80] + "..."
			}
			fmt.Printf("   Summary:  %s\n", strings.ReplaceAll(summary, "\n", " "))
		}
		fmt.Println()
	}

	return nil
}

func calculateRelevance(queryWords []string, parsed *notes.ParsedNote) int {
	score := 0
	searchableText := strings.ToLower(fmt.Sprintf("%s %s %s %v",
		parsed.Title,
		parsed.Summary,
		parsed.Transcription,
		parsed.Participants,
	))

	for _, word := range queryWords {
		count := strings.Count(searchableText, word)
		score += count * 10

		// Bonus points for matches in the title
		if strings.Contains(strings.ToLower(parsed.Title), word) {
			score += 50
		}

		// Bonus points for participant matches
		for _, p := range parsed.Participants {
			if strings.Contains(strings.ToLower(p), word) {
				score += 30
			}
		}
	}

	return score
}
