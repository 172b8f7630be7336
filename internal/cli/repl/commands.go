package repl

import (
	"fmt"
	"sort"

	"github.com/yndnr/dictcore/pkg/dict"
	"github.com/yndnr/dictcore/pkg/mapping"
)

// command is one shell command. op marks commands that touch the current
// dictionary and are recorded in metrics.
type command struct {
	usage   string
	help    string
	minArgs int
	maxArgs int
	op      bool
	run     func(r *REPL, args []string) error
}

// item is one row of an items listing.
type item struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// dictInfo is one row of the dicts listing.
type dictInfo struct {
	Name     string `json:"name" yaml:"name"`
	Current  bool   `json:"current" yaml:"current"`
	Len      int    `json:"len" yaml:"len"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"set":        {"set KEY VALUE", "Set KEY to VALUE.", 2, 2, true, cmdSet},
		"get":        {"get KEY", "Print the value of KEY.", 1, 1, true, cmdGet},
		"del":        {"del KEY", "Remove KEY.", 1, 1, true, cmdDel},
		"pop":        {"pop KEY [DEFAULT]", "Remove KEY and print its value.", 1, 2, true, cmdPop},
		"popitem":    {"popitem", "Remove and print the most recent item.", 0, 0, true, cmdPopItem},
		"setdefault": {"setdefault KEY VALUE", "Print KEY's value, setting it to VALUE if absent.", 2, 2, true, cmdSetDefault},
		"has":        {"has KEY", "Print whether KEY is present.", 1, 1, true, cmdHas},
		"len":        {"len", "Print the number of items.", 0, 0, true, cmdLen},
		"keys":       {"keys", "List keys in insertion order.", 0, 0, true, listView(dict.KeysKind, false)},
		"values":     {"values", "List values in insertion order.", 0, 0, true, listView(dict.ValuesKind, false)},
		"items":      {"items", "List items in insertion order.", 0, 0, true, listView(dict.ItemsKind, false)},
		"reversed":   {"reversed", "List items newest first.", 0, 0, true, listView(dict.ItemsKind, true)},
		"clear":      {"clear", "Remove every item.", 0, 0, true, cmdClear},
		"repr":       {"repr", "Print the dict.", 0, 0, true, cmdRepr},
		"update":     {"update NAME", "Merge dict NAME into the current dict.", 1, 1, true, cmdUpdate},
		"eq":         {"eq NAME", "Print whether dict NAME equals the current dict.", 1, 1, true, cmdEq},
		"stats":      {"stats", "Show table statistics.", 0, 0, false, cmdStats},
		"copy":       {"copy NAME", "Copy the current dict to a new dict NAME.", 1, 1, false, cmdCopy},
		"new":        {"new [NAME]", "Create a dict and switch to it.", 0, 1, false, cmdNew},
		"use":        {"use NAME", "Switch to dict NAME.", 1, 1, false, cmdUse},
		"drop":       {"drop NAME", "Close and forget dict NAME.", 1, 1, false, cmdDrop},
		"dicts":      {"dicts", "List dicts.", 0, 0, false, cmdDicts},
		"help":       {"help [COMMAND]", "Show help.", 0, 1, false, cmdHelp},
	}
}

func cmdSet(r *REPL, args []string) error {
	vals, err := r.values(args)
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		return d.SetItem(vals[0], vals[1])
	})
}

func cmdGet(r *REPL, args []string) error {
	key, err := r.value(args[0])
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		v, err := d.GetItem(key)
		if err != nil {
			return err
		}
		return r.println(v)
	})
}

func cmdDel(r *REPL, args []string) error {
	key, err := r.value(args[0])
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		return d.DelItem(key)
	})
}

func cmdPop(r *REPL, args []string) error {
	vals, err := r.values(args)
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		v, err := d.Pop(vals[0], vals[1:]...)
		if err != nil {
			return err
		}
		return r.println(v)
	})
}

func cmdPopItem(r *REPL, _ []string) error {
	return r.do(func(d *mapping.Dict) error {
		p, err := d.PopItem()
		if err != nil {
			return err
		}
		return r.println(p)
	})
}

func cmdSetDefault(r *REPL, args []string) error {
	vals, err := r.values(args)
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		v, err := d.SetDefault(vals[0], vals[1])
		if err != nil {
			return err
		}
		return r.println(v)
	})
}

func cmdHas(r *REPL, args []string) error {
	key, err := r.value(args[0])
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		ok, err := d.Contains(key)
		if err != nil {
			return err
		}
		return r.println(ok)
	})
}

func cmdLen(r *REPL, _ []string) error {
	return r.do(func(d *mapping.Dict) error {
		return r.println(d.Len())
	})
}

// listView renders a view of the current dict through the formatter.
func listView(kind dict.ViewKind, reversed bool) func(*REPL, []string) error {
	return func(r *REPL, _ []string) error {
		return r.do(func(d *mapping.Dict) error {
			var v mapping.View
			switch kind {
			case dict.KeysKind:
				v = d.Keys()
			case dict.ValuesKind:
				v = d.Values()
			default:
				v = d.Items()
			}
			var it *dict.ViewIterator
			if reversed {
				it = v.Reversed()
			} else {
				it = v.Iter()
			}
			defer it.Close()

			rows := []item{}
			plain := []string{}
			for it.Next() {
				if kind != dict.ItemsKind {
					s, err := mapping.Repr(it.Item())
					if err != nil {
						return err
					}
					plain = append(plain, s)
					continue
				}
				p := it.Item().(dict.Pair)
				k, err := mapping.Repr(p.Key)
				if err != nil {
					return err
				}
				val, err := mapping.Repr(p.Value)
				if err != nil {
					return err
				}
				rows = append(rows, item{Key: k, Value: val})
			}
			if err := it.Err(); err != nil {
				return err
			}
			if kind == dict.ItemsKind {
				return r.formatter.Format(r.output, rows)
			}
			return r.formatter.Format(r.output, plain)
		})
	}
}

func cmdClear(r *REPL, _ []string) error {
	return r.do(func(d *mapping.Dict) error {
		d.Clear()
		return nil
	})
}

func cmdRepr(r *REPL, _ []string) error {
	return r.do(func(d *mapping.Dict) error {
		return r.println(d)
	})
}

func cmdUpdate(r *REPL, args []string) error {
	other, err := r.lookup(args[0])
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		return d.UpdateFrom(other.Unwrap())
	})
}

func cmdEq(r *REPL, args []string) error {
	other, err := r.lookup(args[0])
	if err != nil {
		return err
	}
	return r.do(func(d *mapping.Dict) error {
		eq, err := d.Equal(other.Unwrap())
		if err != nil {
			return err
		}
		return r.println(eq)
	})
}

func cmdStats(r *REPL, _ []string) error {
	l, err := r.lookup(r.current)
	if err != nil {
		return err
	}
	return r.formatter.Format(r.output, l.Stats())
}

func cmdCopy(r *REPL, args []string) error {
	src, err := r.lookup(r.current)
	if err != nil {
		return err
	}
	name := args[0]
	if r.dicts.Has(name) {
		return fmt.Errorf("dict %q already exists", name)
	}
	cur := r.current
	if err := r.create(name); err != nil {
		return err
	}
	r.current = cur
	dst, err := r.lookup(name)
	if err != nil {
		return err
	}
	return dst.Do(func(d *mapping.Dict) error {
		return d.UpdateFrom(src.Unwrap())
	})
}

func cmdNew(r *REPL, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return r.create(name)
}

func cmdUse(r *REPL, args []string) error {
	if _, err := r.lookup(args[0]); err != nil {
		return err
	}
	r.current = args[0]
	return nil
}

func cmdDrop(r *REPL, args []string) error {
	name := args[0]
	if name == r.current {
		return fmt.Errorf("cannot drop the current dict %q", name)
	}
	l, err := r.lookup(name)
	if err != nil {
		return err
	}
	r.dicts.Delete(name)
	for i, n := range r.owned {
		if n == name {
			r.owned = append(r.owned[:i], r.owned[i+1:]...)
			break
		}
	}
	l.Close()
	return nil
}

func cmdDicts(r *REPL, _ []string) error {
	rows := []dictInfo{}
	for _, name := range r.names() {
		l, err := r.lookup(name)
		if err != nil {
			continue
		}
		s := l.Stats()
		rows = append(rows, dictInfo{Name: name, Current: name == r.current, Len: s.Len, Capacity: s.Capacity})
	}
	return r.formatter.Format(r.output, rows)
}

func cmdHelp(r *REPL, args []string) error {
	if len(args) == 1 {
		cmd, ok := commands[args[0]]
		if !ok {
			return fmt.Errorf("unknown command %q", args[0])
		}
		_, err := fmt.Fprintf(r.output, "%s\n  %s\n", cmd.usage, cmd.help)
		return err
	}
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(r.output, "  %-22s %s\n", cmd.usage, cmd.help)
	}
	_, err := fmt.Fprintf(r.output, "  %-22s %s\n", "exit", "Leave the shell.")
	return err
}
