package dico

import (
	"fmt"
	"reflect"
)

// keyKind discriminates the three variants of the Key union.
type keyKind int

const (
	// keyName identifies a registration by an arbitrary string.
	keyName keyKind = iota

	// keyInterface identifies a registration by a capability (interface) type.
	keyInterface

	// keyConcrete identifies a registration by a concrete, constructible type.
	keyConcrete
)

// Key identifies a registration in the container. It is a tagged union of
// three variants: a string name, a capability (interface) type, or a concrete
// type. String names and type keys occupy separate namespaces even though
// they share the same lookup tables.
//
// Keys are comparable and usable as map keys. Construct them through the
// container's public methods, which accept a string, a reflect.Type, a nil
// pointer to an interface (the (*Logger)(nil) convention), or a concrete
// value prototype.
type Key struct {
	kind keyKind
	name string
	typ  reflect.Type
}

// nameKey returns the Key for a string-named registration.
func nameKey(name string) Key {
	return Key{kind: keyName, name: name}
}

// typeKey returns the Key for a type-identified registration, classifying
// interface types as capability keys and everything else as concrete keys.
func typeKey(t reflect.Type) Key {
	if t.Kind() == reflect.Interface {
		return Key{kind: keyInterface, typ: t}
	}
	return Key{kind: keyConcrete, typ: t}
}

// keyFor normalizes a user-supplied key value into a Key.
//
// Accepted shapes:
//   - string: a name key
//   - reflect.Type: a type key
//   - nil pointer to an interface, e.g. (*Logger)(nil): the interface type
//   - any other value: the value's own type, as a concrete key
func keyFor(key any) (Key, error) {
	if key == nil {
		return Key{}, ErrKeyNil
	}

	switch k := key.(type) {
	case string:
		return nameKey(k), nil
	case reflect.Type:
		return typeKey(k), nil
	case Key:
		return k, nil
	}

	t := reflect.TypeOf(key)
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		return typeKey(t.Elem()), nil
	}

	return typeKey(t), nil
}

// IsName reports whether the key is a string name.
func (k Key) IsName() bool { return k.kind == keyName }

// IsInterface reports whether the key is a capability (interface) type.
func (k Key) IsInterface() bool { return k.kind == keyInterface }

// IsConcrete reports whether the key is a concrete type.
func (k Key) IsConcrete() bool { return k.kind == keyConcrete }

// Name returns the string name for name keys, and "" otherwise.
func (k Key) Name() string { return k.name }

// Type returns the identifying type for type keys, and nil for name keys.
func (k Key) Type() reflect.Type { return k.typ }

// String returns a diagnostic representation of the key.
func (k Key) String() string {
	switch k.kind {
	case keyName:
		return fmt.Sprintf("%q", k.name)
	default:
		return formatType(k.typ)
	}
}
