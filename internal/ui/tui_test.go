package ui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todoflow/internal/todo"
)

// fakeController drives a bare store without a journal.
type fakeController struct {
	store *todo.Store
	ids   *todo.IDGenerator
}

func newFakeController() *fakeController {
	return &fakeController{store: todo.NewStore(), ids: todo.NewIDGenerator(0)}
}

func (f *fakeController) Store() *todo.Store { return f.store }

func (f *fakeController) State() todo.State { return f.store.GetState() }

func (f *fakeController) SetFilter(_ context.Context, v todo.VisibilityFilter) error {
	f.store.Dispatch(todo.SetVisibilityFilter{Filter: v})
	return nil
}

func (f *fakeController) AddTodo(_ context.Context, text string) (todo.Todo, error) {
	a := todo.AddTodo{ID: f.ids.Next(), Text: text}
	f.store.Dispatch(a)
	return todo.Todo{ID: a.ID, Text: a.Text}, nil
}

func (f *fakeController) ToggleTodo(_ context.Context, id int) error {
	if !f.State().HasID(id) {
		return fmt.Errorf("todo not found: %d", id)
	}
	f.store.Dispatch(todo.ToggleTodo{ID: id})
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *tuiModel, text string) {
	for _, r := range text {
		send(m, runes(string(r)))
	}
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestAddTodosFromInput(t *testing.T) {
	ctrl := newFakeController()
	m := newTUIModel(context.Background(), ctrl)
	defer m.close()

	typeText(m, "Buy milk")
	typeText(m, "Walk dog")

	if got := len(m.state.Todos); got != 2 {
		t.Fatalf("todos: got %d, want 2", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	view := m.View()
	for _, want := range []string{"Buy milk", "Walk dog", "2 active, 0 completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBlankInputIsIgnored(t *testing.T) {
	ctrl := newFakeController()
	m := newTUIModel(context.Background(), ctrl)
	defer m.close()

	typeText(m, "   ")
	if len(ctrl.State().Todos) != 0 {
		t.Errorf("blank input added a todo")
	}
}

func TestToggleAndFilterFromList(t *testing.T) {
	ctrl := newFakeController()
	m := newTUIModel(context.Background(), ctrl)
	defer m.close()

	typeText(m, "one")
	typeText(m, "two")
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusList {
		t.Fatalf("focus: got %v, want list", m.focus)
	}

	send(m, runes("j"), tea.KeyMsg{Type: tea.KeySpace})
	if !ctrl.State().Todos[1].Completed {
		t.Fatalf("second todo not toggled: %+v", ctrl.State().Todos)
	}

	send(m, runes("2"))
	if m.state.VisibilityFilter != todo.ShowActive {
		t.Errorf("filter: got %q", m.state.VisibilityFilter)
	}
	if m.cursor != 0 {
		t.Errorf("cursor not clamped: %d", m.cursor)
	}
	view := m.View()
	if strings.Contains(view, "two") || !strings.Contains(view, "one") {
		t.Errorf("active view:\n%s", view)
	}

	send(m, runes("c"))
	if m.state.VisibilityFilter != todo.ShowCompleted {
		t.Errorf("filter: got %q", m.state.VisibilityFilter)
	}
	send(m, runes("x"))
	if ctrl.State().Todos[1].Completed {
		t.Errorf("x should toggle the completed todo back")
	}

	send(m, runes("a"))
	if m.state.VisibilityFilter != todo.ShowAll {
		t.Errorf("filter: got %q", m.state.VisibilityFilter)
	}
}

func TestStateCacheFollowsExternalDispatch(t *testing.T) {
	ctrl := newFakeController()
	m := newTUIModel(context.Background(), ctrl)

	ctrl.store.Dispatch(todo.AddTodo{ID: 9, Text: "from elsewhere"})
	if len(m.state.Todos) != 1 {
		t.Fatalf("cache not refreshed: %+v", m.state)
	}

	m.close()
	if ctrl.store.Len() != 0 {
		t.Errorf("close should unsubscribe, %d listeners left", ctrl.store.Len())
	}
	ctrl.store.Dispatch(todo.AddTodo{ID: 10, Text: "after close"})
	if len(m.state.Todos) != 1 {
		t.Errorf("closed model still updated")
	}
}

func TestQuitAndHelp(t *testing.T) {
	ctrl := newFakeController()
	m := newTUIModel(context.Background(), ctrl)
	defer m.close()

	// q types into the input while it has focus.
	send(m, runes("q"))
	if m.input.Value() != "q" {
		t.Errorf("input: got %q", m.input.Value())
	}

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	send(m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Errorf("help not shown")
	}
	send(m, runes("?"))
	if m.showHelp {
		t.Errorf("help not hidden")
	}

	cmd := send(m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}

	cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("ctrl+c should quit")
	}
}

func TestFooterLinks(t *testing.T) {
	var b strings.Builder
	writeFooter(&b, todo.ShowActive)
	out := b.String()
	for _, label := range []string{"All", "Active", "Completed"} {
		if !strings.Contains(out, label) {
			t.Errorf("footer missing %q: %s", label, out)
		}
	}
}

func TestToggleErrorIsShown(t *testing.T) {
	ctrl := newFakeController()
	m := newTUIModel(context.Background(), ctrl)
	defer m.close()

	typeText(m, "one")
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	// A stale cache can point at an id the store no longer knows.
	m.state = todo.State{Todos: []todo.Todo{{ID: 42, Text: "ghost"}}, VisibilityFilter: todo.ShowAll}
	send(m, runes("x"))
	if m.err == nil || !strings.Contains(m.View(), "Error:") {
		t.Errorf("expected error in view, got %v", m.err)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Errorf("buffer is not a TTY")
	}
}

func TestRunTUIRequiresTTY(t *testing.T) {
	if IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	if err := RunTUI(context.Background(), newFakeController()); err == nil {
		t.Errorf("expected error without a TTY")
	}
}
