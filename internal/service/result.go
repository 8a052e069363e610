package service

// Source tells callers whether adapter data is authoritative
type Source string

const (
	// SourceLive means the upstream answered; an empty payload is a real empty result
	SourceLive Source = "live"
	// SourceFallback means the upstream failed and static or cached data was served
	SourceFallback Source = "fallback"
)

// Result is what every adapter returns instead of an error
type Result[T any] struct {
	Data   T
	Source Source
	Reason string
}

// Live wraps an upstream payload
func Live[T any](data T) Result[T] {
	return Result[T]{Data: data, Source: SourceLive}
}

// Fallback wraps substitute data together with why the live call was skipped or failed
func Fallback[T any](data T, reason string) Result[T] {
	return Result[T]{Data: data, Source: SourceFallback, Reason: reason}
}

// IsFallback reports whether r holds substitute data
func (r Result[T]) IsFallback() bool {
	return r.Source == SourceFallback
}
