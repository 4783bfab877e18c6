// Package sl holds small slog attribute helpers shared across the service.
package sl

import "log/slog"

// Err wraps an error into an "error" attribute.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.String("error", err.Error())
}
