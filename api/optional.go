package api

import "encoding/json"

// Opt wraps a patch field so that "omitted" and "explicitly provided"
// survive JSON decoding. Decoding any value, including null, marks the
// field as set; a field that never appears in the payload stays unset and
// the store leaves the column untouched.
type Opt[T any] struct {
	value T
	set   bool
}

// Set returns an Opt holding v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// IsSet reports whether the field was provided.
func (o Opt[T]) IsSet() bool { return o.set }

// Get returns the value and whether it was provided.
func (o Opt[T]) Get() (T, bool) { return o.value, o.set }

// IsZero makes an unset Opt disappear under json's omitzero option.
func (o Opt[T]) IsZero() bool { return !o.set }

// UnmarshalJSON is only invoked when the field is present in the payload,
// so presence is recorded unconditionally. A JSON null decodes to the zero
// value of T, which for pointer-typed fields is the explicit "clear".
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

// MarshalJSON emits the wrapped value; unset fields are dropped by
// omitzero before this is called.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.value)
}
