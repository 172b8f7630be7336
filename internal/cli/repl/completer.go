package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
	names    func() []string
}

// NewCompleter creates a Completer. names lists the registered
// dictionaries and may be nil.
func NewCompleter(names func() []string) *Completer {
	cmds := make([]string, 0, len(commands))
	for name := range commands {
		cmds = append(cmds, name)
	}
	cmds = append(cmds, "exit", "quit")
	sort.Strings(cmds)
	return &Completer{commands: cmds, names: names}
}

// Complete returns completion suggestions for a partial line. The first
// word completes to a command; the argument of use and drop completes to
// a dictionary name.
func (c *Completer) Complete(line string) []string {
	cmd, arg, hasArg := strings.Cut(line, " ")
	if !hasArg {
		return matching(c.commands, cmd, "")
	}
	if (cmd == "use" || cmd == "drop") && c.names != nil {
		names := c.names()
		sort.Strings(names)
		return matching(names, arg, cmd+" ")
	}
	return nil
}

func matching(candidates []string, prefix, lead string) []string {
	var out []string
	for _, s := range candidates {
		if strings.HasPrefix(s, prefix) {
			out = append(out, lead+s)
		}
	}
	return out
}
