package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory("")
	if h.maxSize != DefaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, DefaultHistorySize)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_Add(t *testing.T) {
	h := NewHistory("")
	h.Add("set a 1")
	h.Add("set a 1")
	h.Add("get a")
	h.Add("set a 1")

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (consecutive repeat dropped)", h.Len())
	}
}

func TestHistory_Add_MaxSize(t *testing.T) {
	h := &History{maxSize: 3}
	for _, cmd := range []string{"cmd1", "cmd2", "cmd3", "cmd4"} {
		h.Add(cmd)
	}

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if h.entries[0] != "cmd2" {
		t.Errorf("entries[0] = %q, want cmd2", h.entries[0])
	}
}

func TestHistory_Get(t *testing.T) {
	h := NewHistory("")
	h.Add("first")
	h.Add("second")
	h.Add("third")

	tests := []struct {
		index int
		want  string
	}{
		{0, "third"},
		{1, "second"},
		{2, "first"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(file)
	h.Add("set a 1")
	h.Add("get a")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("history file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("history file mode = %o, want 600", perm)
	}

	h2 := NewHistory(file)
	if err := h2.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h2.Len() != 2 || h2.Get(0) != "get a" || h2.Get(1) != "set a 1" {
		t.Errorf("loaded %v", h2.entries)
	}
}

func TestHistory_Load_TrimsToMaxSize(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(file, []byte("a\nb\n\nc\nd\n"), 0600); err != nil {
		t.Fatal(err)
	}

	h := &History{maxSize: 2, file: file}
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Join(h.entries, ",") != "c,d" {
		t.Errorf("entries = %v, want [c d]", h.entries)
	}
}

func TestHistory_NoFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() of a missing file error = %v", err)
	}

	mem := NewHistory("")
	mem.Add("x")
	if err := mem.Save(); err != nil {
		t.Errorf("Save() without a file error = %v", err)
	}
	if err := mem.Load(); err != nil {
		t.Errorf("Load() without a file error = %v", err)
	}
}

func TestDefaultHistoryFile(t *testing.T) {
	file := DefaultHistoryFile()
	if filepath.Base(file) != "history" || filepath.Base(filepath.Dir(file)) != ".dictcore" {
		t.Errorf("DefaultHistoryFile() = %q", file)
	}
}
