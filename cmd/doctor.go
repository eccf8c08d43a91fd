package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/nibzard/todoflow/internal/config"
	"github.com/nibzard/todoflow/internal/journal"
	"github.com/nibzard/todoflow/internal/todo"
)

// doctorCommand checks the state directory, the journal and the snapshot.
func (c *cli) doctorCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todoflow doctor", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := c.stdout
	fmt.Fprintln(w, "todoflow doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintf(w, "State directory: %s\n", c.cfg.StateDir)
	if info, err := os.Stat(c.cfg.StateDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first write)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Journal: %s\n", c.cfg.JournalFile)
	if !c.checkJournal(ctx, w, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Snapshot: %s\n", c.cfg.SnapshotFile)
	if !c.checkSnapshot(w) {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log directory: %s\n", c.cfg.LogDir)
	if _, err := os.Stat(c.cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first session)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func (c *cli) checkJournal(ctx context.Context, w io.Writer, verbose bool) bool {
	path := c.cfg.JournalFile
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first write)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	version, dirty, err := journal.SchemaVersion(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Schema: %v\n", err)
		return false
	}
	if dirty {
		fmt.Fprintf(w, "  ❌ Schema version %d is dirty\n", version)
		return false
	}
	fmt.Fprintf(w, "  ✅ Schema version %d\n", version)

	j, err := journal.Open(ctx, path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Open: %v\n", err)
		return false
	}
	defer j.Close()

	// Replay from an empty state so the check does not depend on config.
	state := todo.State{Todos: []todo.Todo{}, VisibilityFilter: todo.ShowAll}
	actions := 0
	err = j.Replay(ctx, func(_ journal.Entry, a todo.Action) error {
		state = todo.Reduce(&state, a)
		actions++
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "  ❌ Replay: %v\n", err)
		return false
	}
	active, completed := todo.Counts(state.Todos)
	fmt.Fprintf(w, "  ✅ %d actions, %d todos (%d active, %d completed)\n", actions, len(state.Todos), active, completed)

	ok := true
	result := todo.NewFile(state).Validate(todo.ValidationOptions{})
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Replayed state is invalid:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		ok = false
	}

	sessions, err := j.Sessions(ctx)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Sessions: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  Sessions: %d\n", len(sessions))
	if verbose && len(sessions) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, s := range sessions {
			fmt.Fprintf(tw, "    %s\t%d actions\t%s\t%s\n", s.ID, s.Actions,
				s.StartedAt.Local().Format(time.DateTime), s.EndedAt.Local().Format(time.DateTime))
		}
		tw.Flush()
	}
	return ok
}

func (c *cli) checkSnapshot(w io.Writer) bool {
	path := c.cfg.SnapshotFile
	f, err := todo.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (written by export)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}

	result := f.Validate(todo.ValidationOptions{SchemaPath: c.schemaPathIfPresent()})
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warn)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (%d todos)\n", len(f.State.Todos))
	return true
}

// schemaPathIfPresent returns the configured schema file if it exists,
// otherwise "" so validation uses the embedded schema.
func (c *cli) schemaPathIfPresent() string {
	if info, err := os.Stat(c.cfg.SchemaFile); err == nil && !info.IsDir() {
		return c.cfg.SchemaFile
	}
	return ""
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("todoflow config", flag.ContinueOnError)
	fs.SetOutput(w)
	example := fs.Bool("example", false, "Print an example todoflow.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "Config files: (none)")
	} else {
		fmt.Fprintln(w, "Config files:")
		for _, path := range cws.Files {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
	fmt.Fprintf(w, "Project root: %s\n", cws.Config.ProjectRoot)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, field := range config.Fields() {
		fmt.Fprintf(tw, "%s\t%v\t%s\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return tw.Flush()
}
