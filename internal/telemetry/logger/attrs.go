package logger

import (
	"log/slog"

	"github.com/yndnr/dictcore/pkg/dict"
)

// StatsAttr groups table statistics under key.
func StatsAttr(key string, s dict.Stats) slog.Attr {
	return slog.Group(key,
		slog.Int("len", s.Len),
		slog.Int("capacity", s.Capacity),
		slog.Int("log_len", s.LogLen),
		slog.Uint64("version", s.Version),
		slog.Uint64("resizes", s.Resizes),
		slog.Uint64("restarts", s.Restarts),
	)
}
