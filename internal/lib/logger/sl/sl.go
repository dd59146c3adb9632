package sl

import "log/slog"

// Err renders err under the "error" key.  A nil error renders as an empty
// string so callers can log unconditionally.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
