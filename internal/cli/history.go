package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/updatesynth/internal/store"
)

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Component string           `json:"component"`
	Artifacts []store.Artifact `json:"artifacts"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <db> <component>",
		Short: "List recorded updaters of a component",
		Long: `List every distinct updater recorded for a component, oldest first.

A new row appears only when a synth run produced an updater that differs
from every one recorded before.

Example:
  updatesynth history ./artifacts.db Counter
  updatesynth history ./artifacts.db Counter --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runHistory(opts *RootOptions, dbPath, component string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	// Opening would create an empty database
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("opening database: %v", err))
	}
	defer st.Close()

	artifacts, err := st.ReadArtifacts(cmd.Context(), component)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
	}
	formatter.VerboseLog("Read %d artifact(s) for %s", len(artifacts), component)

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Component: component, Artifacts: artifacts})
	}

	if len(artifacts) == 0 {
		fmt.Fprintf(formatter.Writer, "No artifacts recorded for %s\n", component)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%s: %d artifact(s)\n\n", component, len(artifacts))
	for _, a := range artifacts {
		fmt.Fprintf(formatter.Writer, "  [%d] %-5s %s  build %s\n", a.Seq, a.Category, shortHash(a.Hash), a.BuildID)
		fmt.Fprintf(formatter.Writer, "      %s\n", a.Code)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
