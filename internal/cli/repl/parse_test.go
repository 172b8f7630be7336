package repl

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"set a 1", []string{"set", "a", "1"}, false},
		{"  set\ta   1 ", []string{"set", "a", "1"}, false},
		{`set 'a b' "c d"`, []string{"set", "'a b'", `"c d"`}, false},
		{`set 'it\'s' 1`, []string{"set", `'it\'s'`, "1"}, false},
		{"set 'open", nil, true},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := tokenize(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("tokenize(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		tok  string
		want any
	}{
		{"1", 1},
		{"-7", -7},
		{"2.5", 2.5},
		{"True", true},
		{"false", false},
		{"None", nil},
		{"'1'", "1"},
		{`"a b"`, "a b"},
		{`'it\'s'`, "it's"},
		{`'a\nb'`, "a\nb"},
		{"@other", ref("other")},
		{"@", "@"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			got, err := parseValue(tt.tok)
			if err != nil {
				t.Fatalf("parseValue(%q) error = %v", tt.tok, err)
			}
			if got != tt.want {
				t.Errorf("parseValue(%q) = %#v, want %#v", tt.tok, got, tt.want)
			}
		})
	}
}
