// Package main provides the entry point for the Rufus CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for Rufus.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rufus",
		Short: "Intelligent web crawler for RAG pipelines",
		Long: `Rufus crawls websites guided by plain-English instructions.

It plans a crawl strategy from your instructions, follows the links most
likely to matter, scores each page for relevance, and synthesizes the
accepted content into documents ready for a RAG pipeline.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
