package todo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todoflow/internal/utils"
)

// SchemaVersion is the snapshot format version written by Save.
const SchemaVersion = 1

const embeddedSchemaURL = "https://github.com/nibzard/todoflow/todo.schema.json"

//go:embed todo.schema.json
var schemaJSON string

// SchemaJSON returns the embedded snapshot schema.
func SchemaJSON() string {
	return schemaJSON
}

// WriteSchema writes the embedded schema to path.
func WriteSchema(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create schema dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}
	return nil
}

// File is a snapshot of the application state.
type File struct {
	SchemaVersion int        `json:"schema_version"`
	ExportedAt    *time.Time `json:"exported_at,omitempty"`
	State         State      `json:"state"`
}

// NewFile wraps s in a snapshot stamped with the current time.
func NewFile(s State) *File {
	now := time.Now().UTC()
	todos := s.Todos
	if todos == nil {
		todos = []Todo{}
	}
	return &File{
		SchemaVersion: SchemaVersion,
		ExportedAt:    &now,
		State:         State{Todos: todos, VisibilityFilter: s.VisibilityFilter},
	}
}

// ValidationError is a validation failure at a JSON path.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath overrides the embedded schema with a file on disk.
	SchemaPath string
	// Strict turns warnings into a failed result.
	Strict bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Load reads and parses a snapshot from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	return &f, nil
}

// Save writes the snapshot to path with 2-space indentation.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Validate checks the snapshot against the JSON Schema and then runs the
// semantic checks the schema cannot express (unique ids).
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schemaResult := validateWithSchema(f, opts.SchemaPath)
	result.UsedSchema = schemaResult.UsedSchema
	result.Warnings = append(result.Warnings, schemaResult.Warnings...)
	if schemaResult.UsedSchema {
		if !schemaResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, schemaResult.Errors...)
		}
	} else {
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		f.validateMinimal(result)
	}

	f.validateIDs(result)

	if opts.Strict && len(result.Warnings) > 0 {
		result.Valid = false
	}
	return result
}

// validateMinimal performs structural checks without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != SchemaVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, f.SchemaVersion),
		})
	}

	if !f.State.VisibilityFilter.Valid() {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "state.visibility_filter",
			Err:  fmt.Errorf("%w: %q", ErrUnknownFilter, f.State.VisibilityFilter),
		})
	}

	if f.State.Todos == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "state.todos",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	for i, t := range f.State.Todos {
		path := fmt.Sprintf("state.todos[%d]", i)
		if t.ID < 0 {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("must be >= 0, got %d", t.ID),
			})
		}
		if strings.TrimSpace(t.Text) == "" {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".text",
				Err:  fmt.Errorf("missing required field"),
			})
		}
	}
}

// validateIDs reports every todo whose id was already used earlier.
func (f *File) validateIDs(result *ValidationResult) {
	seen := make(map[int]int, len(f.State.Todos))
	for i, t := range f.State.Todos {
		if first, ok := seen[t.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("state.todos[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d (first used at state.todos[%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
}

// compileSchema compiles the schema at schemaPath, or the embedded one
// when schemaPath is empty.
func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(embeddedSchemaURL, strings.NewReader(schemaJSON)); err != nil {
			return nil, err
		}
		return compiler.Compile(embeddedSchemaURL)
	}
	return compiler.Compile(schemaPath)
}

func validateWithSchema(f *File, schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:      true,
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		UsedSchema: false,
	}

	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
			return result
		}
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
			}
			return result
		}
		schemaPath = absPath
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema: %v", err))
		return result
	}

	result.UsedSchema = true

	// Validate the JSON form, not the Go struct.
	fileData, err := json.Marshal(f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal snapshot for validation: %w", err),
		})
		return result
	}

	var fileObj interface{}
	if err := json.Unmarshal(fileData, &fileObj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal snapshot for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(fileObj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
