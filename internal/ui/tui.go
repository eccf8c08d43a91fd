// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/todoflow/internal/todo"
)

// Controller is what the TUI drives. *app.App implements it.
type Controller interface {
	Store() *todo.Store
	State() todo.State
	AddTodo(ctx context.Context, text string) (todo.Todo, error)
	ToggleTodo(ctx context.Context, id int) error
	SetFilter(ctx context.Context, f todo.VisibilityFilter) error
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	altScreen bool
	output    io.Writer
	input     io.Reader
}

// WithAltScreen toggles the alternate screen buffer. On by default.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// WithIO replaces stdin and stdout. The TTY check is skipped.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
	}
}

// RunTUI runs the interactive todo list until the user quits or ctx is
// done.
func RunTUI(ctx context.Context, ctrl Controller, opts ...TUIOption) error {
	c := &tuiConfig{altScreen: true}
	for _, opt := range opts {
		opt(c)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.output == nil {
		if !IsTTY(os.Stdout) {
			return fmt.Errorf("tui requires a TTY")
		}
	} else {
		programOpts = append(programOpts, tea.WithInput(c.input), tea.WithOutput(c.output))
	}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	m := newTUIModel(ctx, ctrl)
	defer m.close()

	_, err := tea.NewProgram(m, programOpts...).Run()
	return err
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

type tuiModel struct {
	ctx         context.Context
	ctrl        Controller
	keys        keyMap
	input       textinput.Model
	state       todo.State
	cursor      int
	focus       focusArea
	showHelp    bool
	err         error
	unsubscribe func()
}

func newTUIModel(ctx context.Context, ctrl Controller) *tuiModel {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.Prompt = "> "
	input.CharLimit = 256
	input.Focus()

	m := &tuiModel{
		ctx:   ctx,
		ctrl:  ctrl,
		keys:  defaultKeyMap(),
		input: input,
		state: ctrl.State(),
		focus: focusInput,
	}
	// Dispatches happen inside Update, so the listener runs on the
	// program goroutine and only refreshes the cached state.
	m.unsubscribe = ctrl.Store().Subscribe(func() {
		m.state = ctrl.State()
	})
	return m
}

func (m *tuiModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.focus == focusInput {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if key.Matches(keyMsg, m.keys.Focus) {
		m.switchFocus()
		return m, nil
	}

	if m.focus == focusInput {
		return m.updateInput(keyMsg)
	}
	return m.updateList(keyMsg)
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		_, m.err = m.ctrl.AddTodo(m.ctx, text)
		if m.err == nil {
			m.input.Reset()
		}
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Blur):
		m.switchFocus()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		visible := m.visible()
		if m.cursor < len(visible) {
			m.err = m.ctrl.ToggleTodo(m.ctx, visible[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.ShowAll):
		m.err = m.ctrl.SetFilter(m.ctx, todo.ShowAll)
	case key.Matches(msg, m.keys.ShowActive):
		m.err = m.ctrl.SetFilter(m.ctx, todo.ShowActive)
	case key.Matches(msg, m.keys.ShowDone):
		m.err = m.ctrl.SetFilter(m.ctx, todo.ShowCompleted)
	}
	m.clampCursor()
	return m, nil
}

func (m *tuiModel) switchFocus() {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m *tuiModel) visible() []todo.Todo {
	return todo.VisibleTodos(m.state)
}

func (m *tuiModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b, m.keys)
		return b.String()
	}

	b.WriteString(m.input.View() + "\n\n")
	writeList(&b, m.visible(), m.cursor, m.focus == focusList)
	writeCounts(&b, m.state.Todos)
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	writeFooter(&b, m.state.VisibilityFilter)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("todos") + "\n\n")
}

func writeList(b *strings.Builder, todos []todo.Todo, cursor int, listFocused bool) {
	if len(todos) == 0 {
		b.WriteString(mutedStyle.Render("  Nothing to show.") + "\n\n")
		return
	}
	for i, t := range todos {
		marker := "  "
		if listFocused && i == cursor {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(marker + formatTodo(t) + "\n")
	}
	b.WriteString("\n")
}

func formatTodo(t todo.Todo) string {
	if t.Completed {
		return "[x] " + completedStyle.Render(t.Text)
	}
	return "[ ] " + t.Text
}

func writeCounts(b *strings.Builder, todos []todo.Todo) {
	active, completed := todo.Counts(todos)
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d active, %d completed", active, completed)) + "\n\n")
}

// writeFooter renders the filter links. The current filter is plain text;
// the others are styled as links.
func writeFooter(b *strings.Builder, current todo.VisibilityFilter) {
	b.WriteString("Show: ")
	for i, f := range todo.Filters() {
		if i > 0 {
			b.WriteString(", ")
		}
		if f == current {
			b.WriteString(activeStyle.Render(f.Label()))
			continue
		}
		b.WriteString(linkStyle.Render(f.Label()))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab switch focus | ? help | q quit") + "\n")
}

func writeHelp(b *strings.Builder, keys keyMap) {
	b.WriteString("Keyboard Shortcuts\n\n")
	for _, binding := range keys.helpBindings() {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
	}
	b.WriteString("\nPress ? to go back\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
