package logger

import (
	"log/slog"
	"strconv"
)

// DefaultMaxValueLen is the clip length used when Config leaves it unset.
// Dictionary keys and reprs typed into the REPL can be arbitrarily large.
const DefaultMaxValueLen = 256

// clipAttr shortens oversized string values, descending into groups.
func clipAttr(a slog.Attr, maxLen int) slog.Attr {
	if maxLen < 0 {
		return a
	}
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if c := Clip(s, maxLen); c != s {
			return slog.String(a.Key, c)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			clipped[i] = clipAttr(attr, maxLen)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	}
	return a
}

// Clip returns s cut to maxLen runes, with a suffix noting how many were
// dropped.
func Clip(s string, maxLen int) string {
	if maxLen < 0 || len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "...(" + strconv.Itoa(len(runes)-maxLen) + " more)"
}
