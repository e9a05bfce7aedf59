package models

// Source names the path that produced a result.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
	SourceManual   Source = "manual"
)

// Outcome carries a result together with where it came from. Err is the
// failure that caused a fallback and is nil for remote results.
type Outcome[T any] struct {
	Data   T
	Source Source
	Err    error
}

// Remote wraps a result produced by the backend.
func Remote[T any](data T) Outcome[T] {
	return Outcome[T]{Data: data, Source: SourceRemote}
}

// Fallback wraps a locally computed result and the error that forced it.
func Fallback[T any](data T, err error) Outcome[T] {
	return Outcome[T]{Data: data, Source: SourceFallback, Err: err}
}

// IsFallback reports whether the result was computed locally.
func (o Outcome[T]) IsFallback() bool {
	return o.Source == SourceFallback
}

// Warning returns a user-facing note for fallback results, or "".
func (o Outcome[T]) Warning() string {
	if !o.IsFallback() {
		return ""
	}
	if o.Err == nil {
		return "Using locally calculated results."
	}
	return "Advisory service unavailable (" + o.Err.Error() + "); using locally calculated results."
}
