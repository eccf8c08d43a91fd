package config

import (
	"fmt"
	"os"
	"strings"
)

// envBinding maps one TODOFLOW_* variable onto a config field.
type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, v string) error
}

func envBindings() []envBinding {
	str := func(dst func(*Config) *string) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			*dst(cfg) = v
			return nil
		}
	}
	boolean := func(dst func(*Config) *bool) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			*dst(cfg) = b
			return nil
		}
	}

	return []envBinding{
		{"TODOFLOW_STATE_DIR", "state_dir", str(func(c *Config) *string { return &c.StateDir })},
		{"TODOFLOW_JOURNAL", "journal_file", str(func(c *Config) *string { return &c.JournalFile })},
		{"TODOFLOW_SNAPSHOT", "snapshot_file", str(func(c *Config) *string { return &c.SnapshotFile })},
		{"TODOFLOW_SCHEMA", "schema_file", str(func(c *Config) *string { return &c.SchemaFile })},
		{"TODOFLOW_LOG_DIR", "log_dir", str(func(c *Config) *string { return &c.LogDir })},
		{"TODOFLOW_DEFAULT_FILTER", "default_filter", str(func(c *Config) *string { return &c.DefaultFilter })},
		{"TODOFLOW_ENFORCE_UNIQUE_IDS", "enforce_unique_ids", boolean(func(c *Config) *bool { return &c.EnforceUniqueIDs })},
		{"TODOFLOW_LOG_LEVEL", "log_level", str(func(c *Config) *string { return &c.LogLevel })},
		{"TODOFLOW_LOG_FORMAT", "log_format", str(func(c *Config) *string { return &c.LogFormat })},
		{"TODOFLOW_LOG_TIMESTAMPS", "log_timestamps", boolean(func(c *Config) *bool { return &c.LogTimestamps })},
		{"TODOFLOW_LOG_CALLER", "log_caller", boolean(func(c *Config) *bool { return &c.LogCaller })},
	}
}

// EnvVars returns the names of the environment variables Load reads.
func EnvVars() []string {
	bindings := envBindings()
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		names = append(names, b.name)
	}
	return names
}

// loadFromEnv overrides config from environment variables. Empty
// variables are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	for _, b := range envBindings() {
		v := strings.TrimSpace(os.Getenv(b.name))
		if v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
	return nil
}

// parseBool accepts 1/0, true/false, yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
