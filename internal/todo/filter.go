package todo

// FilterTodos returns the todos visible under filter, in their original
// order. The result is always a new slice. An unrecognized filter shows
// everything, like SHOW_ALL.
func FilterTodos(todos []Todo, filter VisibilityFilter) []Todo {
	out := make([]Todo, 0, len(todos))
	switch filter {
	case ShowCompleted:
		for _, t := range todos {
			if t.Completed {
				out = append(out, t)
			}
		}
	case ShowActive:
		for _, t := range todos {
			if !t.Completed {
				out = append(out, t)
			}
		}
	default:
		out = append(out, todos...)
	}
	return out
}

// VisibleTodos applies the state's own filter to its todos.
func VisibleTodos(s State) []Todo {
	return FilterTodos(s.Todos, s.VisibilityFilter)
}

// Counts returns the number of active and completed todos.
func Counts(todos []Todo) (active, completed int) {
	for _, t := range todos {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}
