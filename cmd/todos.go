package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/todoflow/internal/app"
	"github.com/nibzard/todoflow/internal/todo"
)

const defaultFindLimit = 5

// addCommand adds one todo. All remaining arguments form its text.
func (c *cli) addCommand(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: todoflow add <text>")
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.AddTodo(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Added %d: %s\n", t.ID, t.Text)
	return nil
}

// toggleCommand flips the completed flag of each id given.
func (c *cli) toggleCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: todoflow toggle <id>...")
	}
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Check every id first so a bad one leaves the list untouched.
	s := a.State()
	for _, id := range ids {
		if !s.HasID(id) {
			return fmt.Errorf("%w: %d", app.ErrTodoNotFound, id)
		}
	}

	for _, id := range ids {
		if err := a.ToggleTodo(ctx, id); err != nil {
			return err
		}
		t := a.State().GetTodo(id)
		fmt.Fprintf(c.stdout, "%s %d: %s\n", checkbox(t.Completed), t.ID, t.Text)
	}
	return nil
}

// filterCommand prints the filter, or sets it when a name is given.
func (c *cli) filterCommand(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	var next todo.VisibilityFilter
	if len(args) == 1 {
		f, err := todo.ParseVisibilityFilter(args[0])
		if err != nil {
			return err
		}
		next = f
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if next != "" {
		if err := a.SetFilter(ctx, next); err != nil {
			return err
		}
	}
	f := a.State().VisibilityFilter
	fmt.Fprintf(c.stdout, "Filter: %s (%s)\n", f.Label(), f)
	return nil
}

// lsCommand lists the visible todos in list order.
func (c *cli) lsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todoflow ls", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	all := fs.Bool("all", false, "Ignore the visibility filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.State()
	todos := todo.VisibleTodos(s)
	if *all {
		todos = todo.FilterTodos(s.Todos, todo.ShowAll)
	}
	printTodoList(c.stdout, todos)

	active, completed := todo.Counts(s.Todos)
	fmt.Fprintf(c.stdout, "\n%d active, %d completed (filter: %s)\n", active, completed, s.VisibilityFilter.Label())
	return nil
}

// findCommand ranks todos against a query.
func (c *cli) findCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todoflow find", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	limit := fs.Int("n", defaultFindLimit, "Maximum number of results (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: todoflow find [-n N] <text>")
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	matches := a.Find(query, *limit)
	if len(matches) == 0 {
		fmt.Fprintln(c.stdout, "No todos.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(c.stdout, "%s %d: %s (distance %d)\n", checkbox(m.Todo.Completed), m.Todo.ID, m.Todo.Text, m.Distance)
	}
	return nil
}

// exportCommand writes the current state as a snapshot.
func (c *cli) exportCommand(ctx context.Context, args []string) error {
	path, err := c.snapshotArg(args)
	if err != nil {
		return err
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Export(path); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Exported %d todos to %s\n", len(a.State().Todos), path)
	return nil
}

// importCommand replays a snapshot into the journal.
func (c *cli) importCommand(ctx context.Context, args []string) error {
	path, err := c.snapshotArg(args)
	if err != nil {
		return err
	}

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Import(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Imported %d todos from %s\n", n, path)
	return nil
}

// schemaCommand writes the snapshot JSON schema.
func (c *cli) schemaCommand(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	path := c.cfg.SchemaFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" {
		_, err := io.WriteString(c.stdout, todo.SchemaJSON())
		return err
	}
	if err := todo.WriteSchema(path); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Wrote schema to %s\n", path)
	return nil
}

// snapshotArg returns the optional file argument or the configured snapshot.
func (c *cli) snapshotArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return c.cfg.SnapshotFile, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("unexpected arguments: %v", args[1:])
	}
}

func printTodoList(w io.Writer, todos []todo.Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos.")
		return
	}
	for _, t := range todos {
		fmt.Fprintf(w, "%s %d: %s\n", checkbox(t.Completed), t.ID, t.Text)
	}
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
