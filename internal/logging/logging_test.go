package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todoflow/internal/todo"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("decode line %q: %v", sc.Text(), err)
		}
		events = append(events, ev)
	}
	return events
}

func TestNewRunLogger(t *testing.T) {
	t.Run("creates nested log directory and file", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "logs", "nested")
		run, err := NewRunLogger(base, t.TempDir())
		if err != nil {
			t.Fatalf("NewRunLogger: %v", err)
		}
		defer run.Close()

		if !strings.HasPrefix(run.Dir, base) {
			t.Errorf("Dir %q not under %q", run.Dir, base)
		}
		if filepath.Ext(run.LogPath) != ".jsonl" {
			t.Errorf("LogPath: got %q", run.LogPath)
		}
		if _, err := os.Stat(run.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		if _, err := NewRunLogger("", t.TempDir()); err == nil {
			t.Fatal("expected error for empty base dir")
		}
	})

	t.Run("sessions in the same second get distinct files", func(t *testing.T) {
		base, work := t.TempDir(), t.TempDir()
		a, err := NewRunLogger(base, work)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()
		b, err := NewRunLogger(base, work)
		if err != nil {
			t.Fatal(err)
		}
		defer b.Close()
		if a.LogPath == b.LogPath {
			t.Errorf("run loggers share %q", a.LogPath)
		}
	})
}

func TestRunLoggerRecord(t *testing.T) {
	run, err := NewRunLogger(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := run.Record(Event{Type: EventSessionStart, Content: "hello"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := run.Record(Event{Type: EventAction, Action: todo.ActionAddTodo, Todos: 1}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := run.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := readEvents(t, run.LogPath)
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[0].Type != EventSessionStart || events[0].Timestamp.IsZero() {
		t.Errorf("first event: %+v", events[0])
	}
	if events[1].Action != todo.ActionAddTodo || events[1].Todos != 1 {
		t.Errorf("second event: %+v", events[1])
	}

	if err := run.Record(Event{Type: EventError}); err == nil {
		t.Errorf("Record after Close should fail")
	}
	if err := run.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestRunLoggerNil(t *testing.T) {
	var run *RunLogger
	if err := run.Record(Event{Type: EventAction}); err != nil {
		t.Errorf("nil Record: %v", err)
	}
	if err := run.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	run, err := NewRunLogger(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})

	s := todo.NewStore(storeOption(logger, run))
	s.Dispatch(todo.AddTodo{ID: 0, Text: "Buy milk"})
	s.Dispatch(todo.ToggleTodo{ID: 0})
	if err := run.Close(); err != nil {
		t.Fatal(err)
	}

	events := readEvents(t, run.LogPath)
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[0].Action != todo.ActionAddTodo || events[0].Todos != 1 || events[0].Filter != "SHOW_ALL" {
		t.Errorf("first event: %+v", events[0])
	}
	a, err := todo.UnmarshalAction(events[0].Payload)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if a != (todo.AddTodo{ID: 0, Text: "Buy milk"}) {
		t.Errorf("payload action: got %#v", a)
	}

	out := buf.String()
	if strings.Count(out, "msg=dispatch") != 2 {
		t.Errorf("console output:\n%s", out)
	}
	if !strings.Contains(out, "type=TOGGLE_TODO") {
		t.Errorf("console output missing toggle:\n%s", out)
	}
}

func TestMiddlewareNilLoggers(t *testing.T) {
	s := todo.NewStore(storeOption(nil, nil))
	s.Dispatch(todo.AddTodo{ID: 0, Text: "x"})
	if len(s.GetState().Todos) != 1 {
		t.Errorf("dispatch did not reach the reducer")
	}
}

func TestMiddlewareNilAction(t *testing.T) {
	run, err := NewRunLogger(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})

	s := todo.NewStore(storeOption(logger, run))
	before := s.GetState()
	s.Dispatch(nil)
	if got := s.GetState(); !reflect.DeepEqual(got, before) {
		t.Errorf("nil action changed state: got %+v, want %+v", got, before)
	}
	if err := run.Close(); err != nil {
		t.Fatal(err)
	}
	if events := readEvents(t, run.LogPath); len(events) != 0 {
		t.Errorf("nil action was recorded: %+v", events)
	}
	if buf.Len() != 0 {
		t.Errorf("nil action was logged: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerFromConfig(&buf, "warn", "json", false, false)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %s", out)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("json output %q: %v", out, err)
	}
	if rec["msg"] != "shown" || rec["k"] != "v" {
		t.Errorf("record: %v", rec)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", "simple"},
		{"Hello World", "Hello_World"},
		{"many   spaces", "many_spaces"},
		{"special@chars!", "special_chars"},
		{"", "project"},
		{"___", "project"},
		{"test.-_project", "test.-_project"},
		{"test/directory", "test_directory"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestProjectSlug(t *testing.T) {
	slug := projectSlug("/home/user/my project")
	if !strings.HasPrefix(slug, "my_project-") || len(slug) != len("my_project-")+8 {
		t.Errorf("projectSlug: got %q", slug)
	}
	if projectSlug("/a/x") == projectSlug("/b/x") {
		t.Errorf("different roots should hash differently")
	}
}

func TestFindLogRuns(t *testing.T) {
	dir := t.TempDir()
	files := []string{"20240101-000000-1-aaaaaa.jsonl", "20240102-000000-1-bbbbbb.jsonl", "notes.txt"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i-10) * time.Minute)
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.jsonl"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := FindLogRuns(dir)
	if err != nil {
		t.Fatalf("FindLogRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d, want 2", len(runs))
	}
	if runs[0].RunID != "20240102-000000-1-bbbbbb" {
		t.Errorf("newest first: got %q", runs[0].RunID)
	}

	latest, err := FindLatestLog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if latest != runs[0].Path {
		t.Errorf("FindLatestLog: got %q, want %q", latest, runs[0].Path)
	}

	missing, err := FindLatestLog(filepath.Join(dir, "nope"))
	if err != nil || missing != "" {
		t.Errorf("missing dir: got %q, %v", missing, err)
	}
}

func TestFindLogDirMatchesRunLogger(t *testing.T) {
	base, work := t.TempDir(), t.TempDir()
	run, err := NewRunLogger(base, work)
	if err != nil {
		t.Fatal(err)
	}
	defer run.Close()

	dir, err := FindLogDir(base, work)
	if err != nil {
		t.Fatal(err)
	}
	if dir != run.Dir {
		t.Errorf("FindLogDir: got %q, want %q", dir, run.Dir)
	}
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\nfour\n"},
		{2, "three\nfour\n"},
		{1, "four\n"},
		{10, "one\ntwo\nthree\nfour\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
			t.Fatalf("TailLog(n=%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(n=%d) = %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "missing"), 1, false); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestTailSeekLongFile(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString(strings.Repeat("x", 10))
		b.WriteByte('\n')
	}
	b.WriteString("last line without newline")
	path := filepath.Join(t.TempDir(), "long.jsonl")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := TailLog(context.Background(), &buf, path, 2, false); err != nil {
		t.Fatal(err)
	}
	if want := "xxxxxxxxxx\nlast line without newline"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestTailLogFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	if err := os.WriteFile(path, []byte("first\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- TailLog(ctx, out, path, 0, true) }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "second\n") {
		if time.Now().After(deadline) {
			t.Fatalf("follow output: %q", out.String())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("TailLog: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("TailLog did not stop after cancel")
	}
	if got := out.String(); got != "first\nsecond\n" {
		t.Errorf("output: got %q", got)
	}
}
