package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsight/docsight/internal/outline"
	"github.com/docsight/docsight/internal/parser"
	"github.com/docsight/docsight/internal/pipeline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <input-dir> <output-dir>",
	Short: "Extract title and heading outline from each document in a directory",
	Long: "Extract the title and H1/H2/H3 heading outline from every supported " +
		"document in the input directory, writing one <name>.json per document. " +
		"A document that fails to parse produces an empty outline record instead " +
		"of aborting the batch.",
	Args: cobra.ExactArgs(2),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(_ *cobra.Command, args []string) error {
	inputDir, outputDir := args[0], args[1]

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := pipeline.DefaultOptions()
	processed := 0
	for _, entry := range entries {
		if entry.IsDir() || !parser.IsSupportedExtension(entry.Name()) {
			continue
		}

		result := pipeline.OutlineResult{Outline: []outline.Entry{}}
		data, err := os.ReadFile(filepath.Join(inputDir, entry.Name()))
		if err == nil {
			var ds *pipeline.DocumentStructure
			ds, err = pipeline.ExtractStructure(entry.Name(), data, opts.Policy)
			if err == nil {
				result.Title = ds.Outline.Title
				result.Outline = ds.Outline.Entries()
			}
		}
		if err != nil {
			// Per-document failures produce an empty record, never abort.
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", entry.Name(), err)
		}

		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		outPath := filepath.Join(outputDir, stem+".json")
		if err := writeJSON(outPath, result); err != nil {
			return err
		}
		processed++
	}

	fmt.Fprintf(os.Stdout, "Processed %d documents into %s\n", processed, outputDir)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
