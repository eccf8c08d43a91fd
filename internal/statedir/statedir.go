// Package statedir provides constants and helpers for the .todoflow
// directory layout.
package statedir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the todoflow state directory.
	Dir = ".todoflow"

	// JournalFile is the SQLite action journal (inside .todoflow).
	JournalFile = "journal.db"

	// SnapshotFile is the default export/import snapshot (inside .todoflow).
	SnapshotFile = "todos.json"

	// SchemaFile is the written-out snapshot schema (inside .todoflow).
	SchemaFile = "todo.schema.json"

	// ConfigFile is the project config file name.
	ConfigFile = "todoflow.toml"
)

// JournalPath returns the journal path within a state directory.
func JournalPath(stateDir string) string {
	return filepath.Join(dirOrDefault(stateDir), JournalFile)
}

// SnapshotPath returns the snapshot path within a state directory.
func SnapshotPath(stateDir string) string {
	return filepath.Join(dirOrDefault(stateDir), SnapshotFile)
}

// SchemaPath returns the schema path within a state directory.
func SchemaPath(stateDir string) string {
	return filepath.Join(dirOrDefault(stateDir), SchemaFile)
}

// ConfigPath returns the config path within a state directory.
func ConfigPath(stateDir string) string {
	return filepath.Join(dirOrDefault(stateDir), ConfigFile)
}

// DirPath returns the .todoflow directory inside workDir.
func DirPath(workDir string) string {
	if workDir == "" || workDir == "." {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

// Ensure creates the state directory if needed.
func Ensure(stateDir string) error {
	if err := os.MkdirAll(dirOrDefault(stateDir), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return nil
}

func dirOrDefault(stateDir string) string {
	if stateDir == "" {
		return Dir
	}
	return stateDir
}
