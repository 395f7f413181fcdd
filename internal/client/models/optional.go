package models

// Optional is a tagged wrapper for partial-update parameters. It
// distinguishes three states a plain pointer cannot:
//
//   - omitted:        the field is not part of the update at all
//   - explicit null:  the field is cleared on the server
//   - value:          the field is set to a concrete value
//
// The zero Optional is "omitted".
type Optional[T any] struct {
	set  bool
	null bool
	val  T
}

// Some returns an Optional carrying a concrete value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, val: v}
}

// Null returns an Optional that explicitly clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// None returns an omitted Optional. Equivalent to the zero value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet reports whether the field takes part in the update
// (either as a value or as an explicit null).
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports whether the field is an explicit null.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Value returns the carried value and whether one is present.
func (o Optional[T]) Value() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.val, true
}

// Put writes the field into a JSON payload map under key: a value when one
// is carried, nil for an explicit null, nothing when omitted.
func (o Optional[T]) Put(payload map[string]any, key string) {
	if !o.set {
		return
	}
	if o.null {
		payload[key] = nil
		return
	}
	payload[key] = o.val
}
