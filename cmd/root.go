// Package cmd implements the CLI command structure for todoflow.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/todoflow/internal/app"
	"github.com/nibzard/todoflow/internal/config"
	"github.com/nibzard/todoflow/internal/logging"
	"github.com/nibzard/todoflow/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todoflow CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todoflow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	// No subcommand opens the TUI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	c := &cli{cfg: cfg, stdout: stdout, stderr: stderr}

	switch subcommand {
	case "tui":
		return c.tuiCommand(ctx, remainingArgs)
	case "add":
		return c.addCommand(ctx, remainingArgs)
	case "toggle":
		return c.toggleCommand(ctx, remainingArgs)
	case "filter":
		return c.filterCommand(ctx, remainingArgs)
	case "ls":
		return c.lsCommand(ctx, remainingArgs)
	case "find":
		return c.findCommand(ctx, remainingArgs)
	case "export":
		return c.exportCommand(ctx, remainingArgs)
	case "import":
		return c.importCommand(ctx, remainingArgs)
	case "schema":
		return c.schemaCommand(remainingArgs)
	case "doctor":
		return c.doctorCommand(ctx, remainingArgs)
	case "config":
		return configCommand(cws, stdout, remainingArgs)
	case "tail":
		return c.tailCommand(ctx, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// cli carries what every subcommand needs.
type cli struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

// openApp opens the journal with console logging on stderr.
func (c *cli) openApp(ctx context.Context) (*app.App, error) {
	return app.Open(ctx, c.cfg, app.WithLogOutput(c.stderr))
}

// tuiCommand launches the interactive list.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todoflow tui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	noAlt := fs.Bool("no-alt-screen", false, "Render inline instead of using the alternate screen")
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

	return ui.RunTUI(ctx, a, ui.WithAltScreen(!*noAlt))
}

// tailCommand prints the latest session log.
func (c *cli) tailCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todoflow tail", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(c.cfg.LogDir, c.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(c.stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(c.stderr, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(c.stderr, "(Ctrl+C to stop)")
	}

	return logging.TailLog(ctx, c.stdout, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todoflow version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todoflow - A journaled todo list with a unidirectional store")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todoflow [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui             Launch terminal UI (default command)")
	fmt.Fprintln(w, "  add <text>      Add a todo")
	fmt.Fprintln(w, "  toggle <id>     Toggle a todo between active and completed")
	fmt.Fprintln(w, "  filter [name]   Show or set the visibility filter (all|active|completed)")
	fmt.Fprintln(w, "  ls              List todos under the current filter")
	fmt.Fprintln(w, "  find <text>     Search todos, closest first")
	fmt.Fprintln(w, "  export [file]   Write a JSON snapshot (default: <state_dir>/todos.json)")
	fmt.Fprintln(w, "  import [file]   Replay a JSON snapshot into the journal")
	fmt.Fprintln(w, "  schema [file]   Write the snapshot JSON schema (- for stdout)")
	fmt.Fprintln(w, "  doctor          Check the journal, config and snapshot")
	fmt.Fprintln(w, "  config          Show the effective configuration")
	fmt.Fprintln(w, "  tail            Tail the latest session log")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -all    Ignore the visibility filter")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Find Options:")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Maximum number of results (default 5, 0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example todoflow.toml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s\n", strings.Join(config.EnvVars(), ", "))
}
