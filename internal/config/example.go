package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todoflow configuration file
# Values can be overridden by TODOFLOW_* environment variables or CLI flags

# State directory (relative to project root)
state_dir = ".todoflow"

# Action journal; defaults to <state_dir>/journal.db
# journal_file = ".todoflow/journal.db"

# Default snapshot for export/import; defaults to <state_dir>/todos.json
# snapshot_file = ".todoflow/todos.json"

# Snapshot schema written by "todoflow schema"; defaults to <state_dir>/todo.schema.json
# schema_file = ".todoflow/todo.schema.json"

# Session log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todoflow"

# Visibility filter for a fresh journal: SHOW_ALL, SHOW_ACTIVE, SHOW_COMPLETED
default_filter = "SHOW_ALL"

# Reject adds whose id is already in use
enforce_unique_ids = true

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
