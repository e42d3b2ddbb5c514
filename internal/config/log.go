package config

import "log/slog"

// LogLevel maps the verbosity flags to a level. The flags are checked in
// order, so vv wins over q. The default is Warn.
func LogLevel(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
