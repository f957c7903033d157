package option

// Option represents an optional value.
// It either contains a value or it does not.
//
// This type is modeled after github.com/sagikazarmark/go-option.Option.
type Option[T any] struct {
	value    T
	hasValue bool
}

// Some returns an Option containing a value.
func Some[T any](value T) Option[T] {
	return Option[T]{
		value:    value,
		hasValue: true,
	}
}

// None returns an Option containing no value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// HasValue returns true if the Option contains a value.
func (o Option[T]) HasValue() bool {
	return o.hasValue
}

// Value returns the value (or its default) stored in the Option.
func (o Option[T]) Value() T {
	return o.value
}
