package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsight/docsight/internal/parser"
	"github.com/docsight/docsight/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input-dir> <output-file>",
	Short: "Rank a document collection's sections for a persona and job",
	Long: "Analyze every supported document in the input directory against a " +
		"persona and job-to-be-done, writing a single ranked JSON result. The " +
		"persona and document list come from a collection config JSON in the " +
		"input directory unless overridden by flags.",
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

var (
	analyzePersona string
	analyzeJob     string
	analyzeTopK    int
	analyzeMaxDoc  int
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzePersona, "persona", "", "Persona description (overrides collection config)")
	analyzeCmd.Flags().StringVar(&analyzeJob, "job", "", "Job-to-be-done description (overrides collection config)")
	analyzeCmd.Flags().IntVar(&analyzeTopK, "top-k", 0, "Number of sections to select (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeMaxDoc, "max-per-document", 0, "Diversity ceiling per document (default from config)")

	rootCmd.AddCommand(analyzeCmd)
}

// collectionConfig is the optional JSON file naming the documents to analyze
// and the persona they are analyzed for.
type collectionConfig struct {
	Documents   []string `json:"documents"`
	Persona     string   `json:"persona"`
	JobToBeDone string   `json:"job_to_be_done"`
}

func runAnalyze(_ *cobra.Command, args []string) error {
	inputDir, outputFile := args[0], args[1]

	cfg, err := loadCollectionConfig(inputDir)
	if err != nil {
		return err
	}
	if analyzePersona != "" {
		cfg.Persona = analyzePersona
	}
	if analyzeJob != "" {
		cfg.JobToBeDone = analyzeJob
	}

	opts := pipeline.DefaultOptions()
	if analyzeTopK > 0 {
		opts.Select.TopK = analyzeTopK
	}
	if analyzeMaxDoc > 0 {
		opts.Select.MaxPerDocument = analyzeMaxDoc
	}

	var files []pipeline.InputFile
	for _, name := range cfg.Documents {
		data, err := os.ReadFile(filepath.Join(inputDir, name))
		if err != nil {
			// Missing documents are skipped, not fatal.
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", name, err)
			continue
		}
		files = append(files, pipeline.InputFile{Name: name, Data: data})
	}

	start := time.Now()
	result := pipeline.RunAnalysis(context.Background(), files, cfg.Persona, cfg.JobToBeDone, opts, pipeline.Hooks{
		Document: func(name string, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", name, err)
			}
		},
	})

	if err := writeJSON(outputFile, result); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Analysis completed in %.2fs\n", time.Since(start).Seconds())
	fmt.Fprintf(os.Stdout, "Selected %d relevant sections\n", len(result.ExtractedSections))
	return nil
}

// loadCollectionConfig reads the first JSON file in the input directory as the
// collection config. Without one, every supported document in the directory is
// analyzed under a neutral analyst persona.
func loadCollectionConfig(inputDir string) (collectionConfig, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return collectionConfig{}, fmt.Errorf("failed to read input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(inputDir, name))
		if err != nil {
			return collectionConfig{}, fmt.Errorf("failed to read config %s: %w", name, err)
		}
		var cfg collectionConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return collectionConfig{}, fmt.Errorf("invalid config %s: %w", name, err)
		}
		return cfg, nil
	}

	// No config file: analyze everything supported in the directory.
	cfg := collectionConfig{
		Persona:     "Research Analyst",
		JobToBeDone: "Analyze and summarize key information",
	}
	for _, name := range names {
		if parser.IsSupportedExtension(name) {
			cfg.Documents = append(cfg.Documents, name)
		}
	}
	return cfg, nil
}
