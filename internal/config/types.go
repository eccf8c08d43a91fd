package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultStateDir         = ".todoflow"
	DefaultLogDir           = "~/.todoflow"
	DefaultFilter           = "SHOW_ALL"
	DefaultEnforceUniqueIDs = true
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config holds the full configuration for todoflow.
type Config struct {
	// Paths. Empty journal/snapshot/schema paths are derived from StateDir.
	StateDir     string `toml:"state_dir"`
	JournalFile  string `toml:"journal_file"`
	SnapshotFile string `toml:"snapshot_file"`
	SchemaFile   string `toml:"schema_file"`
	LogDir       string `toml:"log_dir"`

	// Behavior
	DefaultFilter    string `toml:"default_filter"`
	EnforceUniqueIDs bool   `toml:"enforce_unique_ids"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// ProjectRoot is computed, never read from a file.
	ProjectRoot string `toml:"-"`
}

// configFields returns the configurable field names in display order.
func configFields() []string {
	return []string{
		"state_dir",
		"journal_file",
		"snapshot_file",
		"schema_file",
		"log_dir",
		"default_filter",
		"enforce_unique_ids",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the current value of a field by its TOML key.
func (c *Config) Value(field string) any {
	switch field {
	case "state_dir":
		return c.StateDir
	case "journal_file":
		return c.JournalFile
	case "snapshot_file":
		return c.SnapshotFile
	case "schema_file":
		return c.SchemaFile
	case "log_dir":
		return c.LogDir
	case "default_filter":
		return c.DefaultFilter
	case "enforce_unique_ids":
		return c.EnforceUniqueIDs
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return c.LogTimestamps
	case "log_caller":
		return c.LogCaller
	}
	return nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StateDir = DefaultStateDir
	cfg.LogDir = DefaultLogDir
	cfg.DefaultFilter = DefaultFilter
	cfg.EnforceUniqueIDs = DefaultEnforceUniqueIDs
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
