package todo

import "github.com/nibzard/todoflow/internal/store"

// Store is the store type used throughout the application.
type Store = store.Store[State, Action]

// Reduce is the root reducer. Each State field is owned by its own reducer.
var Reduce = store.Combine(
	store.Field(func(s *State) *[]Todo { return &s.Todos }, ReduceTodos),
	store.Field(func(s *State) *VisibilityFilter { return &s.VisibilityFilter }, ReduceVisibilityFilter),
)

// NewStore creates a store initialized with the default state.
func NewStore(opts ...store.Option[State, Action]) *Store {
	return store.New(Reduce, Action(Init{}), opts...)
}

// ReduceTodo reduces a single todo. A nil t with ADD_TODO creates a new
// todo; TOGGLE_TODO only affects the todo whose id matches.
func ReduceTodo(t *Todo, a Action) Todo {
	switch act := a.(type) {
	case AddTodo:
		return Todo{ID: act.ID, Text: act.Text, Completed: false}
	case ToggleTodo:
		if t == nil {
			return Todo{}
		}
		if t.ID != act.ID {
			return *t
		}
		next := *t
		next.Completed = !t.Completed
		return next
	}
	if t == nil {
		return Todo{}
	}
	return *t
}

// ReduceTodos reduces the todo sequence. The returned slice never shares
// a backing array with state when the sequence changes.
func ReduceTodos(state *[]Todo, a Action) []Todo {
	var todos []Todo
	if state == nil {
		todos = []Todo{}
	} else {
		todos = *state
	}

	switch a.(type) {
	case AddTodo:
		next := make([]Todo, len(todos), len(todos)+1)
		copy(next, todos)
		return append(next, ReduceTodo(nil, a))
	case ToggleTodo:
		next := make([]Todo, len(todos))
		for i := range todos {
			next[i] = ReduceTodo(&todos[i], a)
		}
		return next
	default:
		return todos
	}
}

// ReduceVisibilityFilter reduces the visibility filter. The new filter is
// taken as is, without checking it against the enum.
func ReduceVisibilityFilter(state *VisibilityFilter, a Action) VisibilityFilter {
	current := ShowAll
	if state != nil {
		current = *state
	}

	switch act := a.(type) {
	case SetVisibilityFilter:
		return act.Filter
	default:
		return current
	}
}
