// Package app wires the store, the action journal and logging into the
// operations the CLI and TUI call.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todoflow/internal/config"
	"github.com/nibzard/todoflow/internal/journal"
	"github.com/nibzard/todoflow/internal/logging"
	"github.com/nibzard/todoflow/internal/statedir"
	"github.com/nibzard/todoflow/internal/store"
	"github.com/nibzard/todoflow/internal/todo"
)

var (
	// ErrEmptyText is returned when adding a todo with blank text.
	ErrEmptyText = errors.New("todo text is empty")
	// ErrDuplicateID is returned when an add would reuse an id.
	ErrDuplicateID = errors.New("duplicate todo id")
	// ErrTodoNotFound is returned when toggling an id that does not exist.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrInvalidSnapshot is returned by Import for a snapshot that fails validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Option configures Open.
type Option func(*options)

type options struct {
	logger       *log.Logger
	logOutput    io.Writer
	noSessionLog bool
	middleware   []store.Middleware[todo.State, todo.Action]
}

// WithLogger sets the console logger. By default one is built from the
// config and writes to stderr.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLogOutput sets where the default console logger writes.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithoutSessionLog disables the per-session JSONL log.
func WithoutSessionLog() Option {
	return func(o *options) { o.noSessionLog = true }
}

// WithMiddleware adds store middleware after the logging middleware.
func WithMiddleware(mw ...store.Middleware[todo.State, todo.Action]) Option {
	return func(o *options) { o.middleware = append(o.middleware, mw...) }
}

// App is an opened todo list.
type App struct {
	cfg     *config.Config
	logger  *log.Logger
	journal *journal.Journal
	run     *logging.RunLogger
	store   *todo.Store
	ids     *todo.IDGenerator
}

// Open opens the journal named by cfg, replays it and returns a ready App.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLoggerFromConfig(o.logOutput, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	}

	if err := statedir.Ensure(cfg.StateDir); err != nil {
		return nil, err
	}

	j, err := journal.Open(ctx, cfg.JournalFile)
	if err != nil {
		return nil, err
	}

	// Fold the journal into the starting state so replayed actions are
	// not reported as new activity.
	initial := todo.State{Todos: []todo.Todo{}, VisibilityFilter: todo.VisibilityFilter(cfg.DefaultFilter)}
	replayed := 0
	err = j.Replay(ctx, func(_ journal.Entry, a todo.Action) error {
		initial = todo.Reduce(&initial, a)
		replayed++
		return nil
	})
	if err != nil {
		j.Close()
		return nil, err
	}
	// Todos are never removed, so the largest id seen bounds every id used.
	ids := todo.NewIDGenerator(initial.MaxID() + 1)

	var run *logging.RunLogger
	if !o.noSessionLog {
		run, err = logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			logger.Warn("session log disabled", "err", err)
			run = nil
		}
	}

	mw := append([]store.Middleware[todo.State, todo.Action]{logging.Middleware(logger, run)}, o.middleware...)
	s := todo.NewStore(
		store.WithPreloadedState[todo.State, todo.Action](initial),
		store.WithMiddleware(mw...),
	)

	a := &App{
		cfg:     cfg,
		logger:  logger,
		journal: j,
		run:     run,
		store:   s,
		ids:     ids,
	}

	if err := run.Record(logging.Event{
		Type:    logging.EventSessionStart,
		Content: j.SessionID(),
		Todos:   len(initial.Todos),
		Filter:  string(initial.VisibilityFilter),
	}); err != nil {
		logger.Warn("session log write failed", "err", err)
	}
	logger.Debug("opened journal", "path", j.Path(), "replayed", replayed, "next_id", ids.Peek(), "session", j.SessionID())

	return a, nil
}

// Store returns the underlying store.
func (a *App) Store() *todo.Store {
	return a.store
}

// State returns the current state.
func (a *App) State() todo.State {
	return a.store.GetState()
}

// Config returns the configuration the App was opened with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// SessionLogPath returns the session log path, or "" when disabled.
func (a *App) SessionLogPath() string {
	if a.run == nil {
		return ""
	}
	return a.run.LogPath
}

// Dispatch journals action and then applies it to the store. An AddTodo
// whose id is already in use is rejected when unique ids are enforced.
// Rejected actions are recorded as errors in the session log.
func (a *App) Dispatch(ctx context.Context, action todo.Action) error {
	if err := a.dispatch(ctx, action); err != nil {
		ev := logging.Event{Type: logging.EventError, Content: err.Error()}
		if action != nil {
			ev.Action = action.Type()
		}
		if recErr := a.run.Record(ev); recErr != nil {
			a.logger.Warn("session log write failed", "err", recErr)
		}
		return err
	}
	return nil
}

func (a *App) dispatch(ctx context.Context, action todo.Action) error {
	if action == nil {
		return fmt.Errorf("%w: nil action", todo.ErrUnknownAction)
	}
	if add, ok := action.(todo.AddTodo); ok {
		if a.cfg.EnforceUniqueIDs && a.State().HasID(add.ID) {
			return fmt.Errorf("%w: %d", ErrDuplicateID, add.ID)
		}
		a.ids.Observe(add.ID)
	}

	if _, err := a.journal.Append(ctx, action); err != nil {
		return err
	}
	a.store.Dispatch(action)
	return nil
}

// AddTodo adds a todo with a fresh id.
func (a *App) AddTodo(ctx context.Context, text string) (todo.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return todo.Todo{}, ErrEmptyText
	}

	action := todo.AddTodo{ID: a.ids.Next(), Text: text}
	if err := a.Dispatch(ctx, action); err != nil {
		return todo.Todo{}, err
	}
	return todo.Todo{ID: action.ID, Text: action.Text}, nil
}

// ToggleTodo flips the completed flag of the todo with id.
func (a *App) ToggleTodo(ctx context.Context, id int) error {
	if !a.State().HasID(id) {
		return fmt.Errorf("%w: %d", ErrTodoNotFound, id)
	}
	return a.Dispatch(ctx, todo.ToggleTodo{ID: id})
}

// SetFilter changes the visibility filter.
func (a *App) SetFilter(ctx context.Context, f todo.VisibilityFilter) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", todo.ErrUnknownFilter, f)
	}
	return a.Dispatch(ctx, todo.SetVisibilityFilter{Filter: f})
}

// Find ranks the todos against query. limit <= 0 means no limit.
func (a *App) Find(query string, limit int) []todo.Match {
	return todo.Find(a.State().Todos, query, limit)
}

// Export writes the current state as a snapshot to path.
func (a *App) Export(path string) error {
	if err := todo.NewFile(a.State()).Save(path); err != nil {
		return err
	}
	a.logger.Info("exported snapshot", "path", path)
	return nil
}

// Import validates the snapshot at path and replays it as actions: one
// AddTodo per todo, a ToggleTodo for each completed one and a final
// SetVisibilityFilter. Todos whose id is already taken always get a fresh
// id, so the replayed toggles only touch imported todos. It returns the
// number of todos added.
func (a *App) Import(ctx context.Context, path string) (int, error) {
	f, err := todo.Load(path)
	if err != nil {
		return 0, err
	}

	result := f.Validate(todo.ValidationOptions{})
	if !result.Valid {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(result.Errors...))
	}
	for _, w := range result.Warnings {
		a.logger.Warn("snapshot", "warning", w)
	}

	added := 0
	for _, t := range f.State.Todos {
		id := t.ID
		if a.State().HasID(id) {
			id = a.ids.Next()
		}
		if err := a.Dispatch(ctx, todo.AddTodo{ID: id, Text: t.Text}); err != nil {
			return added, err
		}
		added++
		if t.Completed {
			if err := a.Dispatch(ctx, todo.ToggleTodo{ID: id}); err != nil {
				return added, err
			}
		}
	}

	if err := a.Dispatch(ctx, todo.SetVisibilityFilter{Filter: f.State.VisibilityFilter}); err != nil {
		return added, err
	}
	a.logger.Info("imported snapshot", "path", path, "todos", added)
	return added, nil
}

// Close ends the session and releases the journal.
func (a *App) Close() error {
	s := a.State()
	if err := a.run.Record(logging.Event{
		Type:   logging.EventSessionEnd,
		Todos:  len(s.Todos),
		Filter: string(s.VisibilityFilter),
	}); err != nil {
		a.logger.Warn("session log write failed", "err", err)
	}

	return errors.Join(a.run.Close(), a.journal.Close())
}
