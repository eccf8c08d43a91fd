package logging

import (
	"github.com/charmbracelet/log"

	"github.com/nibzard/todoflow/internal/store"
	"github.com/nibzard/todoflow/internal/todo"
)

func storeOption(logger *log.Logger, run *RunLogger) store.Option[todo.State, todo.Action] {
	return store.WithMiddleware(Middleware(logger, run))
}
