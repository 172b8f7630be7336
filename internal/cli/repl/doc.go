// Package repl provides the interactive dictionary shell of dictcore-cli.
//
// The shell keeps any number of named dictionaries and operates on the
// current one:
//
//	dict[default]> set a 1
//	dict[default]> set 'b c' 2.5
//	dict[default]> items
//	dict[default]> new other
//	dict[other]> set parent @default
//
// Arguments are parsed as literals: integers, floats, True, False, None,
// quoted strings and @name references to other dictionaries. Anything
// else is a bare string.
//
// Dictionaries are registered by name in a shared registry so the metrics
// collector can report on them while the shell runs.
package repl
