package config

import "flag"

// flagFields maps flag names to the config field they set.
var flagFields = map[string]string{
	"state-dir":          "state_dir",
	"journal":            "journal_file",
	"snapshot":           "snapshot_file",
	"schema":             "schema_file",
	"log-dir":            "log_dir",
	"filter":             "default_filter",
	"enforce-unique-ids": "enforce_unique_ids",
	"log-level":          "log_level",
	"log-format":         "log_format",
	"log-timestamps":     "log_timestamps",
	"log-caller":         "log_caller",
}

// parseFlags defines the global flags on fs, parses args and records the
// source of every flag that was set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todoflow", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "State directory")
	fs.StringVar(&cfg.JournalFile, "journal", cfg.JournalFile, "Path to the action journal (default <state-dir>/journal.db)")
	fs.StringVar(&cfg.SnapshotFile, "snapshot", cfg.SnapshotFile, "Default snapshot path for export/import")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to the snapshot schema file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Session log directory")
	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Visibility filter for a fresh journal")
	fs.BoolVar(&cfg.EnforceUniqueIDs, "enforce-unique-ids", cfg.EnforceUniqueIDs, "Reject adds that reuse an existing id")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
