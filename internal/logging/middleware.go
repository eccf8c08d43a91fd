package logging

import (
	"github.com/charmbracelet/log"

	"github.com/nibzard/todoflow/internal/store"
	"github.com/nibzard/todoflow/internal/todo"
)

// Middleware logs every dispatched action at debug level and records it
// in the session log. Either logger may be nil. A nil action is passed on
// to the reducer, which leaves the state unchanged, and is not logged.
func Middleware(logger *log.Logger, run *RunLogger) store.Middleware[todo.State, todo.Action] {
	return func(getState func() todo.State, next store.DispatchFunc[todo.Action]) store.DispatchFunc[todo.Action] {
		return func(a todo.Action) {
			next(a)
			if a == nil {
				return
			}

			s := getState()
			if logger != nil {
				logger.Debug("dispatch", "type", string(a.Type()), "todos", len(s.Todos), "filter", string(s.VisibilityFilter))
			}
			if run == nil {
				return
			}

			ev := Event{
				Type:   EventAction,
				Action: a.Type(),
				Todos:  len(s.Todos),
				Filter: string(s.VisibilityFilter),
			}
			if payload, err := todo.MarshalAction(a); err == nil {
				ev.Payload = payload
			}
			if err := run.Record(ev); err != nil && logger != nil {
				logger.Warn("session log write failed", "err", err)
			}
		}
	}
}
