package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaa110/restorable/sqlparse"
)

// ClassifyResult holds the classification of one statement.
type ClassifyResult struct {
	Kind  string `json:"kind"`
	Table string `json:"table,omitempty"`
	Where string `json:"where,omitempty"`
}

// NewClassifyCommand creates the classify command, a debugging aid for
// checking how a raw statement will be captured by the journal.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <statement>",
		Short: "Show how a raw SQL statement is classified",
		Long: `Classify a raw SQL statement into kind, target table and where-predicate,
exactly as the journal's default classifier would before capturing its
pre-mutation state.

Examples:
  restorable classify "DELETE FROM items WHERE id = ?"
  restorable classify "UPDATE items SET title = 'b' WHERE id = 1" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := sqlparse.New().Classify(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "classification failed", err)
			}

			result := ClassifyResult{
				Kind:  stmt.Kind.String(),
				Table: stmt.Table,
				Where: stmt.Where,
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "kind: %s\n", result.Kind)
			if result.Table != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "table: %s\n", result.Table)
			}
			if result.Where != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "where: %s\n", result.Where)
			}
			return nil
		},
	}

	return cmd
}
