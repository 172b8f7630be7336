package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name     string        `json:"name" yaml:"name"`
	Count    int           `json:"count" yaml:"count"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Detail   string        `json:"detail" yaml:"detail" table:"wide"`
	Secret   string        `json:"-" yaml:"-" table:"-"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatTable, "*output.TableFormatter"},
		{FormatJSON, "*output.JSONFormatter"},
		{FormatYAML, "*output.YAMLFormatter"},
		{"unknown", "*output.TableFormatter"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format, false)
			if got := typeName(f); got != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}

	if tf := NewFormatter(FormatTable, true).(*TableFormatter); !tf.Wide {
		t.Error("NewFormatter() did not pass wide to the table formatter")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TableFormatter:
		return "*output.TableFormatter"
	case *JSONFormatter:
		return "*output.JSONFormatter"
	case *YAMLFormatter:
		return "*output.YAMLFormatter"
	}
	return "unknown"
}

func TestJSONFormatter_Format(t *testing.T) {
	data := sample{Name: "bench", Count: 3}

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"name\": \"bench\"") {
		t.Errorf("Format() = %q, want indented output", buf.String())
	}
	if strings.Contains(buf.String(), "Secret") {
		t.Error("Format() should honour json:\"-\"")
	}

	buf.Reset()
	if err := (&JSONFormatter{Compact: true}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact Format() = %q, want one line", buf.String())
	}

	buf.Reset()
	_ = (&JSONFormatter{}).Format(&buf, nil)
	if strings.TrimSpace(buf.String()) != "null" {
		t.Errorf("Format(nil) = %q, want null", buf.String())
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	data := sample{Name: "bench", Count: 3, Duration: 1500 * time.Millisecond}

	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"name: bench\n", "count: 3\n", "duration: 1.5s\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() = %q, missing %q", out, want)
		}
	}
	if strings.Contains(out, "secret") {
		t.Error("Format() should honour yaml:\"-\"")
	}
}

func TestYAMLFormatter_Nested(t *testing.T) {
	data := map[string]any{"log": map[string]string{"level": "info"}}

	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "log:\n  level: info\n" {
		t.Errorf("Format() = %q", buf.String())
	}
}
