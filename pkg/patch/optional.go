// Package patch provides sparse-update cells for shallow merges of node data.
package patch

// Optional represents a field that may or may not be present in a patch.
// Distinguishes between:
//   - Not set (absent from the patch) - zero value, set=false
//   - Set to nil (clear the field) - value=nil, set=true
//   - Set to a value - value=&T, set=true
type Optional[T any] struct {
	value *T
	set   bool
}

// NewOptional creates an Optional carrying a value.
func NewOptional[T any](val T) Optional[T] {
	return Optional[T]{value: &val, set: true}
}

// NewOptionalPtr creates an Optional from a pointer.
// A nil pointer yields an explicitly unset Optional.
func NewOptionalPtr[T any](val *T) Optional[T] {
	if val == nil {
		return Unset[T]()
	}
	return Optional[T]{value: val, set: true}
}

// Unset creates an explicitly cleared Optional.
func Unset[T any]() Optional[T] {
	return Optional[T]{value: nil, set: true}
}

// NotSet creates an absent Optional. This is the zero value of Optional[T],
// provided as a named constructor for clarity.
func NotSet[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet returns true if this field was explicitly set (even if to nil).
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Value returns the pointer value (nil when cleared or absent).
func (o Optional[T]) Value() *T {
	return o.value
}

// IsUnset returns true if the field was set but carries no value.
func (o Optional[T]) IsUnset() bool {
	return o.set && o.value == nil
}

// HasValue returns true if set and non-nil.
func (o Optional[T]) HasValue() bool {
	return o.set && o.value != nil
}

// Get returns the carried value, or the zero value when absent or cleared.
func (o Optional[T]) Get() (T, bool) {
	if o.value == nil {
		var zero T
		return zero, false
	}
	return *o.value, true
}
