package entity

// Lookup is the explicit outcome of a single-source query: a value that was
// found, confirmed absence, or a failure. A found zero is not the same as a miss.
type Lookup[T any] struct {
	Value T
	OK    bool
	Err   error
}

// Found wraps a usable value.
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v, OK: true}
}

// Absent signals that the source answered but had nothing usable.
func Absent[T any]() Lookup[T] {
	return Lookup[T]{Err: ErrAbsent}
}

// Failed signals that the source could not be queried.
func Failed[T any](err error) Lookup[T] {
	if err == nil {
		err = ErrAbsent
	}
	return Lookup[T]{Err: err}
}

// Kind classifies the outcome.
func (l Lookup[T]) Kind() FailureKind {
	if l.OK {
		return FailureNone
	}
	return KindOf(l.Err)
}

// Or returns the value when found, def otherwise.
func (l Lookup[T]) Or(def T) T {
	if l.OK {
		return l.Value
	}
	return def
}
