// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todoflow/todoflow.toml or OS-specific config directory)
// 3. Project config file (todoflow.toml, .todoflow.toml or .todoflow/todoflow.toml)
// 4. Environment variables (TODOFLOW_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.todoflow/todoflow.toml (preferred)
// - Windows: %APPDATA%\todoflow\todoflow.toml
// - macOS: ~/Library/Application Support/todoflow/todoflow.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todoflow/todoflow.toml or ~/.config/todoflow/todoflow.toml
package config
