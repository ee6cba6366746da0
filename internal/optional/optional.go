// Package optional models resource fields that an API response may omit
// entirely. A missing key is a different state from a key that decoded to
// null or an empty value, and the firewall predicates depend on telling
// the two apart.
package optional

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

var jsonNull = []byte("null")

// Value is a single optional field. The zero Value is unset.
type Value[T any] struct {
	value   T
	defined bool
}

// Of wraps v as a defined value.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, defined: true}
}

// Defined reports whether the field was present in the source document.
func (v Value[T]) Defined() bool {
	return v.defined
}

// Get returns the value and whether it was defined.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.defined
}

// Or returns the value, or fallback when unset.
func (v Value[T]) Or(fallback T) T {
	if v.defined {
		return v.value
	}
	return fallback
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		var zero T
		v.value = zero
		v.defined = true
		return nil
	}
	if err := json.Unmarshal(data, &v.value); err != nil {
		return err
	}
	v.defined = true
	return nil
}

// UnmarshalYAML records the field as defined, decoding a null node as the
// zero value. yaml.v3 never invokes this method for a null mapping value,
// so enclosing types must walk their own mapping node and hand every
// value node over directly for null keys to register as defined.
func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		var zero T
		v.value = zero
		v.defined = true
		return nil
	}
	if err := node.Decode(&v.value); err != nil {
		return err
	}
	v.defined = true
	return nil
}

// List is a repeated optional field. The zero List is unset; a decoded
// null or empty sequence is defined with no items.
type List[T any] struct {
	items   []T
	defined bool
}

// OfList wraps items as a defined list.
func OfList[T any](items ...T) List[T] {
	return List[T]{items: items, defined: true}
}

// Defined reports whether the field was present in the source document.
func (l List[T]) Defined() bool {
	return l.defined
}

// Items returns the underlying slice, nil when unset or empty.
func (l List[T]) Items() []T {
	return l.items
}

func (l List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		l.items = nil
		l.defined = true
		return nil
	}
	if err := json.Unmarshal(data, &l.items); err != nil {
		return err
	}
	l.defined = true
	return nil
}

// UnmarshalYAML records the field as defined, decoding a null node as an
// empty list. The same yaml.v3 caveat as Value.UnmarshalYAML applies:
// null mapping values only arrive here when the enclosing type dispatches
// its mapping nodes itself.
func (l *List[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		l.items = nil
		l.defined = true
		return nil
	}
	if err := node.Decode(&l.items); err != nil {
		return err
	}
	l.defined = true
	return nil
}
