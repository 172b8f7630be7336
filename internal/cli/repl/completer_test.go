package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter(func() []string { return []string{"default", "other", "dup"} })

	tests := []struct {
		name string
		line string
		want []string
	}{
		{"command prefix", "se", []string{"set", "setdefault"}},
		{"exact command", "items", []string{"items"}},
		{"exit", "ex", []string{"exit"}},
		{"no match", "zzz", nil},
		{"dict name", "use d", []string{"use default", "use dup"}},
		{"drop name", "drop o", []string{"drop other"}},
		{"other argument", "get d", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Complete(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestCompleter_AllCommands(t *testing.T) {
	c := NewCompleter(nil)
	all := c.Complete("")
	if len(all) != len(commands)+2 {
		t.Errorf("Complete(\"\") returned %d commands, want %d", len(all), len(commands)+2)
	}
	if got := c.Complete("use x"); got != nil {
		t.Errorf("Complete() without names = %v, want nil", got)
	}
}
