// Package errnormalize turns heterogeneous error values into one
// canonical shape: code, message, trace_id and details.
// It understands native Go errors, HTTP client status errors,
// already-canonical errors, decoded JSON objects and plain strings,
// and never fails: every input yields a well-formed *Error.
package errnormalize

import (
	"fmt"
	"log/slog"
)

// Error is the canonical error shape shared by every consumer.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	TraceID string   `json:"trace_id"`
	Details []string `json:"details"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// LogValue implements slog.LogValuer for structured logging.
func (e *Error) LogValue() slog.Value {
	if e == nil {
		return slog.GroupValue()
	}
	attrs := []slog.Attr{
		slog.Int("code", e.Code),
		slog.String("message", e.Message),
		slog.String("trace_id", e.TraceID),
	}
	if len(e.Details) > 0 {
		attrs = append(attrs, slog.Any("details", e.Details))
	}
	return slog.GroupValue(attrs...)
}

// newDefault returns the starting point every normalization overwrites.
func newDefault(traceID string) *Error {
	return &Error{
		Message: DefaultMessage,
		TraceID: traceID,
		Details: []string{},
	}
}
