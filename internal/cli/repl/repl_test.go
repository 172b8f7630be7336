package repl

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/dictcore/internal/cli/output"
	"github.com/yndnr/dictcore/internal/telemetry/metric"
	"github.com/yndnr/dictcore/pkg/cmap"
)

// session runs input through a new REPL and returns everything it printed
// with prompts removed.
func session(t *testing.T, input string, opts ...Option) (string, *REPL) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{
		WithInput(strings.NewReader(input)),
		WithOutput(&out),
		WithMetrics(metric.NewRegistry()),
	}, opts...)
	r := New(opts...)
	t.Cleanup(r.Close)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return stripPrompts(out.String()), r
}

func stripPrompts(s string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		for strings.HasPrefix(line, "dict[") {
			i := strings.Index(line, "]> ")
			if i < 0 {
				break
			}
			line = line[i+3:]
		}
		if line != "\n" {
			b.WriteString(line)
		}
	}
	return b.String()
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""},
		{"last line without newline", "set a 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session(t, tt.input)
		})
	}
}

func TestREPL_Run_Prompts(t *testing.T) {
	var out bytes.Buffer
	r := New(WithInput(strings.NewReader("\n\n\nexit\n")), WithOutput(&out))
	defer r.Close()
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "dict[default]> "); n != 4 {
		t.Errorf("prompts = %d, want 4", n)
	}
}

func TestREPL_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(WithInput(strings.NewReader("set a 1\n")), WithOutput(&bytes.Buffer{}))
	defer r.Close()
	if err := r.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestREPL_BasicCommands(t *testing.T) {
	out, _ := session(t, strings.Join([]string{
		"set a 1",
		`set 'b c' "x"`,
		"set 2 2.5",
		"get a",
		"get 'b c'",
		"get 2",
		"has a",
		"has zz",
		"len",
		"setdefault a 9",
		"setdefault n None",
		"pop n",
		"pop zz 0",
		"del 'b c'",
		"repr",
		"popitem",
		"repr",
	}, "\n")+"\n")

	want := strings.Join([]string{
		"1",
		"'x'",
		"2.5",
		"True",
		"False",
		"3",
		"1",
		"None",
		"None",
		"0",
		"{'a': 1, 2: 2.5}",
		"(2, 2.5)",
		"{'a': 1}",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestREPL_Errors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"get zz", "DC-DICT-4040"},
		{"popitem", "DC-DICT-4041"},
		{"frobnicate", `unknown command "frobnicate"`},
		{"set a", "usage: set KEY VALUE"},
		{"set 'a 1", "unterminated"},
		{"set @default 1", "DC-DICT-4000"},
		{"use nowhere", `no dict named "nowhere"`},
		{"drop default", "cannot drop the current dict"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out, _ := session(t, tt.line+"\n")
			if !strings.HasPrefix(out, "error: ") || !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want error mentioning %q", out, tt.want)
			}
		})
	}
}

func TestREPL_Listings(t *testing.T) {
	out, _ := session(t, "set a 1\nset b 2\nset a 3\nkeys\nvalues\nitems\nreversed\n")

	want := "VALUE\n'a'\n'b'\n" +
		"VALUE\n3\n2\n" +
		"KEY  VALUE\n'a'  3\n'b'  2\n" +
		"KEY  VALUE\n'b'  2\n'a'  3\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestREPL_JSONListings(t *testing.T) {
	out, _ := session(t, "items\nset a 1\nitems\n",
		WithFormatter(&output.JSONFormatter{Compact: true}))

	want := "[]\n" + `[{"key":"'a'","value":"1"}]` + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestREPL_SelfReference(t *testing.T) {
	out, _ := session(t, "set a 1\nset me @default\nrepr\nkeys\n")
	want := "{'a': 1, 'me': {...}}\nVALUE\n'a'\n'me'\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestREPL_MultipleDicts(t *testing.T) {
	dicts := cmap.New[metric.Source]()
	out, r := session(t, strings.Join([]string{
		"set a 1",
		"copy backup",
		"eq backup",
		"set a 2",
		"eq backup",
		"new other",
		"set child @backup",
		"repr",
		"update default",
		"len",
		"use default",
		"drop backup",
		"dicts",
	}, "\n")+"\n", WithRegistry(dicts))

	want := strings.Join([]string{
		"True",
		"False",
		"{'child': {'a': 1}}",
		"2",
		"NAME     CURRENT  LEN  CAPACITY",
		"default  true     1    8",
		"other    false    2    8",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
	if r.current != "default" {
		t.Errorf("current = %q, want default", r.current)
	}
	if dicts.Has("backup") || dicts.Count() != 2 {
		t.Errorf("registry = %v, want [default other]", dicts.Keys())
	}

	r.Close()
	if dicts.Count() != 0 {
		t.Errorf("registry after Close() = %v, want empty", dicts.Keys())
	}
}

func TestREPL_NewUnnamed(t *testing.T) {
	_, r := session(t, "new\n")
	if r.current == DefaultDict || len(r.current) != 26 {
		t.Errorf("current = %q, want a generated name", r.current)
	}
	if strings.ToLower(r.current) != r.current {
		t.Errorf("current = %q, want lower case", r.current)
	}
}

func TestREPL_Stats(t *testing.T) {
	out, _ := session(t, "set a 1\nstats\n", WithFormatter(&output.YAMLFormatter{}))
	for _, want := range []string{"len: 1\n", "capacity: 8\n", "version: 1\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output = %q, missing %q", out, want)
		}
	}
}

func TestREPL_Help(t *testing.T) {
	out, _ := session(t, "help\nhelp set\nhelp nope\n")
	if !strings.Contains(out, "setdefault KEY VALUE") || !strings.Contains(out, "Leave the shell.") {
		t.Errorf("help output = %q", out)
	}
	if !strings.Contains(out, "set KEY VALUE\n  Set KEY to VALUE.\n") {
		t.Errorf("help set output = %q", out)
	}
	if !strings.Contains(out, `error: unknown command "nope"`) {
		t.Errorf("help nope output = %q", out)
	}
}

func TestREPL_Metrics(t *testing.T) {
	reg := metric.NewRegistry()
	session(t, "set a 1\nset b 2\nget zz\nhelp\n", WithMetrics(reg))

	if got := testutil.ToFloat64(reg.OpsTotal.WithLabelValues("set")); got != 2 {
		t.Errorf("set ops = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.OpErrors.WithLabelValues("get", "DC-DICT-4040")); got != 1 {
		t.Errorf("get errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.OpsTotal.WithLabelValues("help")); got != 0 {
		t.Errorf("help ops = %v, want 0", got)
	}
}

func TestREPL_History(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")
	session(t, "set a 1\nlen\nexit\n", WithHistory(NewHistory(file)))

	h := NewHistory(file)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 3 || h.Get(0) != "exit" || h.Get(2) != "set a 1" {
		t.Errorf("saved history = %v", h.entries)
	}
}

func TestREPL_Complete(t *testing.T) {
	_, r := session(t, "new zebra\n")
	if got := r.Complete("use z"); len(got) != 1 || got[0] != "use zebra" {
		t.Errorf("Complete() = %v", got)
	}
}
