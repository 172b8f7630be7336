package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/dictcore/internal/cli/output"
	"github.com/yndnr/dictcore/internal/telemetry/logger"
	"github.com/yndnr/dictcore/internal/telemetry/metric"
	"github.com/yndnr/dictcore/internal/workload"
	"github.com/yndnr/dictcore/pkg/cmap"
	"github.com/yndnr/dictcore/pkg/mapping"
)

// DefaultDict is the name of the dictionary a session starts with.
const DefaultDict = "default"

var errExit = errors.New("exit")

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	formatter output.Formatter
	metrics   *metric.Registry
	dictOpts  []mapping.Option

	// dicts holds *workload.Locked values by name.
	dicts   *cmap.Map[metric.Source]
	owned   []string
	current string
	ctx     context.Context
}

// Option configures a REPL.
type Option func(*REPL)

// WithInput sets the input reader.
func WithInput(r io.Reader) Option {
	return func(s *REPL) { s.input = r }
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(s *REPL) { s.output = w }
}

// WithHistory sets the command history.
func WithHistory(h *History) Option {
	return func(s *REPL) { s.history = h }
}

// WithFormatter sets the formatter for tabular results.
func WithFormatter(f output.Formatter) Option {
	return func(s *REPL) { s.formatter = f }
}

// WithRegistry shares the dictionary registry, typically with a
// metric.Collector.
func WithRegistry(dicts *cmap.Map[metric.Source]) Option {
	return func(s *REPL) { s.dicts = dicts }
}

// WithMetrics records commands into reg instead of the global registry.
func WithMetrics(reg *metric.Registry) Option {
	return func(s *REPL) { s.metrics = reg }
}

// WithDictOptions sets the options for dictionaries the session creates.
func WithDictOptions(opts ...mapping.Option) Option {
	return func(s *REPL) { s.dictOpts = opts }
}

// New creates a new REPL instance.
func New(opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		history:   NewHistory(""),
		formatter: &output.TableFormatter{},
		metrics:   metric.Global(),
		dicts:     cmap.New[metric.Source](),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.completer = NewCompleter(r.names)
	return r
}

// Complete returns completion suggestions for a partial line.
func (r *REPL) Complete(line string) []string {
	return r.completer.Complete(line)
}

// Run starts the REPL loop. It returns on exit, end of input or when ctx
// is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	if logger.RunIDFromContext(ctx) == "" {
		ctx = logger.WithRunID(ctx, ulid.Make().String())
	}
	r.ctx = ctx
	log := logger.L(ctx)

	if r.current == "" {
		if err := r.create(DefaultDict); err != nil {
			return err
		}
	}
	if err := r.history.Load(); err != nil {
		log.Warn("failed to load history", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			log.Warn("failed to save history", "error", err)
		}
	}()
	log.Debug("repl started")

	reader := bufio.NewReader(r.input)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(r.output, "dict[%s]> ", r.current)

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.output)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if err := r.execute(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
	}
}

// Close closes the dictionaries the session created and removes them from
// the registry.
func (r *REPL) Close() {
	for _, name := range r.owned {
		if src, ok := r.dicts.Pop(name); ok {
			src.(*workload.Locked).Close()
		}
	}
	r.owned = nil
	r.current = ""
}

// execute runs one command line.
func (r *REPL) execute(line string) error {
	tokens, err := tokenize(line)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	name, args := tokens[0], tokens[1:]
	if name == "exit" || name == "quit" {
		return errExit
	}

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("usage: %s", cmd.usage)
	}

	logger.L(logger.WithDictName(r.ctx, r.current)).Debug("repl command", "cmd", name, "args", len(args))
	if !cmd.op {
		return cmd.run(r, args)
	}
	start := time.Now()
	err = cmd.run(r, args)
	r.metrics.ObserveOp(name, start, err)
	return err
}

// names lists the registered dictionaries.
func (r *REPL) names() []string {
	return r.dicts.Keys()
}

// create registers a new empty dictionary and makes it current.
func (r *REPL) create(name string) error {
	if name == "" {
		name = strings.ToLower(ulid.Make().String())
	}
	l := workload.NewLocked(mapping.New(r.dictOpts...))
	if !r.dicts.SetIfAbsent(name, l) {
		l.Close()
		return fmt.Errorf("dict %q already exists", name)
	}
	r.owned = append(r.owned, name)
	r.current = name
	return nil
}

// lookup returns the named dictionary.
func (r *REPL) lookup(name string) (*workload.Locked, error) {
	src, ok := r.dicts.Get(name)
	if !ok {
		return nil, fmt.Errorf("no dict named %q", name)
	}
	l, ok := src.(*workload.Locked)
	if !ok {
		return nil, fmt.Errorf("%q is not a session dict", name)
	}
	return l, nil
}

// do runs fn on the current dictionary.
func (r *REPL) do(fn func(d *mapping.Dict) error) error {
	l, err := r.lookup(r.current)
	if err != nil {
		return err
	}
	return l.Do(fn)
}

// value parses a token, resolving @name references.
func (r *REPL) value(tok string) (any, error) {
	v, err := parseValue(tok)
	if err != nil {
		return nil, err
	}
	if name, ok := v.(ref); ok {
		l, err := r.lookup(string(name))
		if err != nil {
			return nil, err
		}
		return l.Unwrap(), nil
	}
	return v, nil
}

// values parses every token.
func (r *REPL) values(toks []string) ([]any, error) {
	out := make([]any, len(toks))
	for i, tok := range toks {
		v, err := r.value(tok)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// println writes the printable form of v.
func (r *REPL) println(v any) error {
	s, err := mapping.Repr(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.output, s)
	return err
}
