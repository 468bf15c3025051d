package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaa110/restorable"
)

// seedDatabase creates items(id, title) with one row and returns the
// database path.
func seedDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := restorable.Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Handle().Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, title TEXT)`)
	require.NoError(t, err)
	_, err = db.Handle().Exec(`INSERT INTO items (id, title) VALUES (1, 'a')`)
	require.NoError(t, err)

	return path
}

// countItems reopens the database read-only and counts items rows.
func countItems(t *testing.T, path string) int {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	return count
}

func TestScriptCommand_DeleteThenRestore(t *testing.T) {
	dbPath := seedDatabase(t)
	playbook := writePlaybook(t, fmt.Sprintf(`
database: %s
steps:
  - exec:
      tag: del
      statement: "DELETE FROM items WHERE id = ?"
      args: [1]
  - restore:
      tags: [del]
`, dbPath))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"script", playbook})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "restore steps=1")

	// The delete was undone inside the run.
	assert.Equal(t, 1, countItems(t, dbPath))
}

func TestScriptCommand_JSONOutput(t *testing.T) {
	dbPath := seedDatabase(t)
	playbook := writePlaybook(t, fmt.Sprintf(`
database: %s
steps:
  - exec:
      statement: "UPDATE items SET title = 'b' WHERE id = 1"
  - restore:
      all: true
`, dbPath))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--format", "json", "script", playbook})

	require.NoError(t, cmd.Execute())

	var result ScriptResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.Len(t, result.Steps, 2)
	assert.Equal(t, "exec", result.Steps[0].Kind)
	assert.NotEmpty(t, result.Steps[0].Tag, "untagged exec steps get a generated tag")
	assert.Equal(t, 1, result.Steps[1].Restored)
	assert.Empty(t, result.RemainingTags)
}

func TestScriptCommand_InvalidPlaybookExitsWithCommandError(t *testing.T) {
	playbook := writePlaybook(t, `
steps:
  - exec:
      tag: broken
`)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"script", playbook})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestScriptCommand_MissingDatabaseFails(t *testing.T) {
	playbook := writePlaybook(t, `
steps:
  - exec:
      statement: "DELETE FROM items"
`)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"script", playbook})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestClassifyCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--format", "json", "classify", "DELETE FROM items WHERE id = 1"})

	require.NoError(t, cmd.Execute())

	var result ClassifyResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "delete", result.Kind)
	assert.Equal(t, "items", result.Table)
	assert.Equal(t, "id = 1", result.Where)
}

func TestClassifyCommand_UnclassifiableFails(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"classify", "UPDATE SET title = 'b'"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
