// Package cli implements the restorable command line interface.
//
// The journal's ledger is in-memory and scoped to one process, so the
// CLI is built around the script command: it runs a whole playbook of
// tagged statements and restores inside a single process, where
// restoring recorded tags is meaningful. There is deliberately no
// one-shot "exec then exit" write command.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Logger returns the diagnostic logger for a command run: stderr with
// timestamps when verbose, a no-op logger otherwise.
func (o *RootOptions) Logger() zerolog.Logger {
	if !o.Verbose {
		return zerolog.Nop()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// NewRootCommand creates the root command for the restorable CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "restorable",
		Short: "Tagged, undoable writes against a SQLite database",
		Long:  "Runs playbooks of tagged write statements against a SQLite database,\nrecording an inverse for every write so tags can be restored later in the run.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewScriptCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
