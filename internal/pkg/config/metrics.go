package config

import "log/slog"

// FallbackRecorder counts configuration fields that fell back to their default.
type FallbackRecorder interface {
	RecordConfigFallback(field string)
}

// Fallbacks accumulates the warnings of a series of loads.
type Fallbacks struct {
	fields   []string
	warnings []string
}

// Collect unwraps r, remembering its warning under field when a fallback was applied.
func Collect[T any](f *Fallbacks, field string, r LoadResult[T]) T {
	if r.FallbackApplied {
		f.fields = append(f.fields, field)
		f.warnings = append(f.warnings, r.Warning)
	}
	return r.Value
}

// Fields returns the fields that fell back, in load order.
func (f *Fallbacks) Fields() []string {
	return f.fields
}

// Warnings returns the fallback warnings, in load order.
func (f *Fallbacks) Warnings() []string {
	return f.warnings
}

// Report logs every warning and counts it on rec when rec is not nil.
func (f *Fallbacks) Report(logger *slog.Logger, rec FallbackRecorder) {
	for i, field := range f.fields {
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", f.warnings[i]))
		if rec != nil {
			rec.RecordConfigFallback(field)
		}
	}
}
