package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaa110/restorable"
)

// ScriptOptions holds flags for the script command.
type ScriptOptions struct {
	*RootOptions
	Database string // overrides the playbook's database path
}

// StepResult holds the outcome of one playbook step.
type StepResult struct {
	Step     int    `json:"step"`
	Kind     string `json:"kind"` // "exec" | "restore"
	Tag      string `json:"tag,omitempty"`
	Affected int64  `json:"affected"`
	Restored int    `json:"restored"`
}

// ScriptResult holds the overall playbook outcome.
type ScriptResult struct {
	Database      string       `json:"database"`
	Steps         []StepResult `json:"steps"`
	RemainingTags []string     `json:"remaining_tags"`
}

// NewScriptCommand creates the script command.
func NewScriptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScriptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "script <playbook.yaml>",
		Short: "Run a playbook of tagged statements and restores",
		Long: `Run a YAML playbook of tagged write statements and restores against a
SQLite database. Each write records its inverse under the step's tag;
restore steps replay and consume those inverses. The playbook is
validated against a schema before anything executes.

Exit codes:
  0 - Playbook completed
  1 - A step failed against the database
  2 - Command error (playbook invalid, database not found, etc.)

Examples:
  restorable script ./demo.yaml
  restorable script ./demo.yaml --db ./other.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides playbook)")

	return cmd
}

func runScript(opts *ScriptOptions, cmd *cobra.Command, path string) error {
	ctx := context.Background()

	pb, err := LoadPlaybook(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load playbook", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = pb.Database
	}
	if dbPath == "" {
		return WrapExitError(ExitCommandError, "no database given: set --db or the playbook's database field", nil)
	}

	db, err := restorable.Open(dbPath, restorable.WithLogger(opts.Logger()))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer db.Close()

	result := ScriptResult{
		Database: dbPath,
		Steps:    make([]StepResult, 0, len(pb.Steps)),
	}

	for i, step := range pb.Steps {
		stepResult, err := runStep(ctx, db, i+1, step)
		result.Steps = append(result.Steps, stepResult)
		if err != nil {
			outputScript(opts, cmd, result)
			return WrapExitError(ExitFailure, fmt.Sprintf("step %d failed", i+1), err)
		}
	}

	result.RemainingTags = db.Tags()
	return outputScript(opts, cmd, result)
}

// runStep executes one playbook step against the journal.
func runStep(ctx context.Context, db *restorable.DB, n int, step PlaybookStep) (StepResult, error) {
	switch {
	case step.Exec != nil:
		tag := step.Exec.Tag
		if tag == "" {
			tag = restorable.NewTag()
		}
		res := StepResult{Step: n, Kind: "exec", Tag: tag}
		sqlResult, err := db.Exec(ctx, tag, step.Exec.Statement, step.Exec.Args...)
		if err != nil {
			return res, err
		}
		if affected, err := sqlResult.RowsAffected(); err == nil {
			res.Affected = affected
		}
		return res, nil

	case step.Restore != nil:
		res := StepResult{Step: n, Kind: "restore"}
		var err error
		if step.Restore.All {
			res.Restored, err = db.RestoreAll(ctx)
		} else {
			res.Restored, err = db.RestoreTags(ctx, step.Restore.Tags)
		}
		return res, err

	default:
		// Unreachable after schema validation.
		return StepResult{Step: n}, fmt.Errorf("step %d: neither exec nor restore", n)
	}
}

func outputScript(opts *ScriptOptions, cmd *cobra.Command, result ScriptResult) error {
	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		return writeJSON(out, result)
	}

	fmt.Fprintf(out, "Database: %s\n", result.Database)
	for _, step := range result.Steps {
		switch step.Kind {
		case "exec":
			fmt.Fprintf(out, "  step %d: exec tag=%s affected=%d\n", step.Step, step.Tag, step.Affected)
		case "restore":
			fmt.Fprintf(out, "  step %d: restore steps=%d\n", step.Step, step.Restored)
		}
	}
	fmt.Fprintf(out, "Remaining tags: %d\n", len(result.RemainingTags))
	return nil
}
