// Package main provides the docsight command line interface for offline
// document structure extraction and persona-driven collection analysis.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docsight",
	Short: "Document structure extraction and persona-driven relevance analysis",
	Long: "Docsight extracts titles and heading outlines from documents and ranks " +
		"the sections of a document collection by relevance to a persona and its " +
		"job to be done.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
