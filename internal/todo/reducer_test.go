package todo

import (
	"reflect"
	"testing"
)

type unknownAction struct{}

func (unknownAction) Type() ActionType { return "SOMETHING_ELSE" }

func sampleState() State {
	return State{
		Todos: []Todo{
			{ID: 0, Text: "Buy milk", Completed: false},
			{ID: 1, Text: "Walk dog", Completed: true},
			{ID: 2, Text: "Write report", Completed: false},
		},
		VisibilityFilter: ShowActive,
	}
}

func TestReduceDefaults(t *testing.T) {
	got := Reduce(nil, Init{})
	if got.Todos == nil || len(got.Todos) != 0 {
		t.Errorf("Todos: got %#v, want empty non-nil slice", got.Todos)
	}
	if got.VisibilityFilter != ShowAll {
		t.Errorf("VisibilityFilter: got %q, want %q", got.VisibilityFilter, ShowAll)
	}
}

func TestReduceUnknownActionIsIdentity(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{"foreign type", unknownAction{}},
		{"init", Init{}},
		{"pointer variant", &AddTodo{ID: 9, Text: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			got := Reduce(&s, tt.action)
			if !reflect.DeepEqual(got, s) {
				t.Errorf("Reduce: got %+v, want %+v", got, s)
			}
		})
	}
}

func TestReduceAddTodo(t *testing.T) {
	s := sampleState()
	before := sampleState()

	got := Reduce(&s, AddTodo{ID: 7, Text: "Call mom"})

	if len(got.Todos) != len(s.Todos)+1 {
		t.Fatalf("len: got %d, want %d", len(got.Todos), len(s.Todos)+1)
	}
	want := Todo{ID: 7, Text: "Call mom", Completed: false}
	if last := got.Todos[len(got.Todos)-1]; last != want {
		t.Errorf("last: got %+v, want %+v", last, want)
	}
	if !reflect.DeepEqual(got.Todos[:len(s.Todos)], s.Todos) {
		t.Errorf("preceding todos changed: got %+v", got.Todos[:len(s.Todos)])
	}
	if got.VisibilityFilter != s.VisibilityFilter {
		t.Errorf("VisibilityFilter: got %q, want %q", got.VisibilityFilter, s.VisibilityFilter)
	}
	if !reflect.DeepEqual(s, before) {
		t.Errorf("input state mutated: %+v", s)
	}
}

func TestReduceAddTodoDoesNotAlias(t *testing.T) {
	base := make([]Todo, 1, 4)
	base[0] = Todo{ID: 0, Text: "a"}
	s := State{Todos: base, VisibilityFilter: ShowAll}

	first := Reduce(&s, AddTodo{ID: 1, Text: "b"})
	second := Reduce(&s, AddTodo{ID: 2, Text: "c"})

	if first.Todos[1].Text != "b" {
		t.Errorf("first result overwritten: got %+v", first.Todos)
	}
	if second.Todos[1].Text != "c" {
		t.Errorf("second result: got %+v", second.Todos)
	}
}

func TestReduceAddTodoAllowsDuplicateIDs(t *testing.T) {
	s := sampleState()
	got := Reduce(&s, AddTodo{ID: 0, Text: "dup"})
	if len(got.Todos) != 4 {
		t.Fatalf("len: got %d, want 4", len(got.Todos))
	}
	if got.Todos[3].ID != 0 {
		t.Errorf("ID: got %d, want 0", got.Todos[3].ID)
	}
}

func TestReduceToggleTodo(t *testing.T) {
	s := sampleState()
	got := Reduce(&s, ToggleTodo{ID: 1})

	for i := range s.Todos {
		want := s.Todos[i]
		if want.ID == 1 {
			want.Completed = !want.Completed
		}
		if got.Todos[i] != want {
			t.Errorf("todos[%d]: got %+v, want %+v", i, got.Todos[i], want)
		}
	}
	if s.Todos[1].Completed != true {
		t.Errorf("input state mutated")
	}
}

func TestReduceToggleIsInvolution(t *testing.T) {
	s := sampleState()
	once := Reduce(&s, ToggleTodo{ID: 2})
	twice := Reduce(&once, ToggleTodo{ID: 2})
	if !reflect.DeepEqual(twice, s) {
		t.Errorf("toggle twice: got %+v, want %+v", twice, s)
	}
}

func TestReduceToggleMissingID(t *testing.T) {
	s := sampleState()
	got := Reduce(&s, ToggleTodo{ID: 42})
	if !reflect.DeepEqual(got, s) {
		t.Errorf("toggle missing id: got %+v, want %+v", got, s)
	}
}

func TestReduceSetVisibilityFilter(t *testing.T) {
	tests := []VisibilityFilter{ShowAll, ShowActive, ShowCompleted, "SHOW_SOMETHING"}
	for _, f := range tests {
		t.Run(string(f), func(t *testing.T) {
			s := sampleState()
			got := Reduce(&s, SetVisibilityFilter{Filter: f})
			if got.VisibilityFilter != f {
				t.Errorf("VisibilityFilter: got %q, want %q", got.VisibilityFilter, f)
			}
			if !reflect.DeepEqual(got.Todos, s.Todos) {
				t.Errorf("Todos changed: got %+v", got.Todos)
			}
		})
	}
}

func TestReduceTodoSubReducer(t *testing.T) {
	created := ReduceTodo(nil, AddTodo{ID: 3, Text: "x"})
	if created != (Todo{ID: 3, Text: "x"}) {
		t.Errorf("create: got %+v", created)
	}

	other := Todo{ID: 4, Text: "y"}
	if got := ReduceTodo(&other, ToggleTodo{ID: 3}); got != other {
		t.Errorf("non-matching toggle: got %+v, want %+v", got, other)
	}
	if got := ReduceTodo(&other, unknownAction{}); got != other {
		t.Errorf("unknown action: got %+v, want %+v", got, other)
	}
}

func TestReduceVisibilityFilterDefault(t *testing.T) {
	if got := ReduceVisibilityFilter(nil, unknownAction{}); got != ShowAll {
		t.Errorf("default: got %q, want %q", got, ShowAll)
	}
	f := ShowCompleted
	if got := ReduceVisibilityFilter(&f, AddTodo{ID: 1, Text: "x"}); got != ShowCompleted {
		t.Errorf("unrelated action: got %q, want %q", got, ShowCompleted)
	}
}

func TestStoreScenario(t *testing.T) {
	s := NewStore()

	initial := s.GetState()
	if len(initial.Todos) != 0 || initial.VisibilityFilter != ShowAll {
		t.Fatalf("initial state: got %+v", initial)
	}

	s.Dispatch(AddTodo{ID: 0, Text: "Buy milk"})
	want := State{
		Todos:            []Todo{{ID: 0, Text: "Buy milk", Completed: false}},
		VisibilityFilter: ShowAll,
	}
	if got := s.GetState(); !reflect.DeepEqual(got, want) {
		t.Fatalf("after add: got %+v, want %+v", got, want)
	}

	s.Dispatch(ToggleTodo{ID: 0})
	if !s.GetState().Todos[0].Completed {
		t.Fatalf("after toggle: todo not completed")
	}

	s.Dispatch(SetVisibilityFilter{Filter: ShowActive})
	state := s.GetState()
	if got := FilterTodos(state.Todos, state.VisibilityFilter); len(got) != 0 {
		t.Errorf("visible todos: got %+v, want none", got)
	}
}

func TestStoreSubscriberFanOut(t *testing.T) {
	s := NewStore()

	var calls []string
	unsubFirst := s.Subscribe(func() { calls = append(calls, "first") })
	s.Subscribe(func() { calls = append(calls, "second") })

	s.Dispatch(AddTodo{ID: 0, Text: "a"})
	if want := []string{"first", "second"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls: got %v, want %v", calls, want)
	}

	unsubFirst()
	calls = nil
	s.Dispatch(ToggleTodo{ID: 0})
	if want := []string{"second"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("calls after unsubscribe: got %v, want %v", calls, want)
	}
}
