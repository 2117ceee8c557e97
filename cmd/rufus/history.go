package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Risho92/rufus/internal/config"
	"github.com/Risho92/rufus/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists past crawl sessions stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "Show past crawl sessions",
		Long: `History lists crawl sessions recorded in the local database.

Without arguments it shows the most recent sessions: when they ran, where
they started, how many pages were visited and kept, and where the output
went. With a session ID it shows that session in detail, including the
planned strategy and the synthesized documents.

Examples:
  # List the 20 most recent sessions
  rufus history

  # List the 5 most recent sessions
  rufus history --limit 5

  # Show one session in detail
  rufus history 4f8a2c1e-...

  # Output as JSON
  rufus history --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of sessions to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return showSession(cmd, db, args[0], asJSON)
	}
	return listSessions(cmd, db, limit, asJSON)
}

// listSessions prints the recent session table.
func listSessions(cmd *cobra.Command, db *database.SessionDB, limit int, asJSON bool) error {
	summaries, err := db.ListSessions(commandContext(cmd), limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet. Run 'rufus crawl' first.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSESSION\tSTART URL\tVISITED\tKEPT\tDOCS\tSTATUS")
	for _, s := range summaries {
		status := "ok"
		if s.ErrorMessage != "" {
			status = "error: " + s.ErrorMessage
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			shortID(s.ID), s.StartURL,
			s.VisitedCount, s.PageCount, s.DocumentCount, status,
		)
	}
	return w.Flush()
}

// showSession prints one stored session in detail.
func showSession(cmd *cobra.Command, db *database.SessionDB, id string, asJSON bool) error {
	session, err := db.GetSession(commandContext(cmd), id)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return errors.New("session not found: " + id)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(session)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session:      %s\n", session.ID)
	fmt.Fprintf(out, "Start URL:    %s\n", session.StartURL)
	if session.Instructions != "" {
		fmt.Fprintf(out, "Instructions: %s\n", session.Instructions)
	}
	fmt.Fprintf(out, "Started:      %s\n", session.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Visited:      %d pages, %d kept\n", session.VisitedCount, len(session.Results))
	if session.Strategy != nil {
		fmt.Fprintf(out, "Keywords:     %v\n", session.Strategy.Keywords)
	}
	if session.OutputPath != "" {
		fmt.Fprintf(out, "Output:       %s\n", session.OutputPath)
	}
	if session.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:        %s\n", session.ErrorMessage)
	}

	if len(session.Documents) > 0 {
		fmt.Fprintln(out, "\nDocuments:")
		for _, d := range session.Documents {
			fmt.Fprintf(out, "  [%s] %s (%d sources)\n", d.Type, d.Title, len(d.Metadata.SourceURLs))
		}
	}
	return nil
}

// commandContext returns the command's context. A command that was never
// executed carries no context; database/sql blocks on a nil one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// shortID abbreviates a session UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
