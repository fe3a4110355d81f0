package dico

import (
	"fmt"
	"reflect"
)

var (
	errType            = reflect.TypeOf((*error)(nil)).Elem()
	emptyInterfaceType = reflect.TypeOf((*any)(nil)).Elem()
)

// implementation describes one constructible shape bound to a Key. It comes
// in two flavors:
//
//   - a constructor function func(deps...) T or func(deps...) (T, error),
//     whose parameters are resolved in declaration order; or
//   - a concrete type, built with reflect.New and populated through its
//     exported fields carrying an `inject` tag.
//
// typ is always the produced service type. For constructor functions it is
// the first return type; for concrete types it is the type itself.
type implementation struct {
	typ  reflect.Type
	ctor reflect.Value
	fn   bool
}

// implFor normalizes a user-supplied implementation value.
//
// Accepted shapes:
//   - a constructor function (see implementation)
//   - a reflect.Type of a concrete type
//   - a nil pointer to an interface, e.g. (*Logger)(nil) — rejected as
//     abstract, since an interface cannot be constructed
//   - any other value, used as a type prototype (Impl{} or &Impl{})
func implFor(key Key, impl any) (implementation, error) {
	if impl == nil {
		return implementation{}, fmt.Errorf("%w: %w", ErrRegistration, ErrImplNil)
	}

	if t, ok := impl.(reflect.Type); ok {
		return typeImplementation(key, t)
	}

	v := reflect.ValueOf(impl)
	t := v.Type()

	if t.Kind() == reflect.Func {
		if err := validateConstructor(t); err != nil {
			return implementation{}, err
		}
		return implementation{typ: t.Out(0), ctor: v, fn: true}, nil
	}

	// The (*Iface)(nil) convention denotes the interface type itself.
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		return typeImplementation(key, t.Elem())
	}

	return typeImplementation(key, t)
}

// typeImplementation builds a struct-mode implementation, rejecting
// non-constructible (interface) types.
func typeImplementation(key Key, t reflect.Type) (implementation, error) {
	if t.Kind() == reflect.Interface {
		return implementation{}, AbstractDependencyError{Key: key, Impl: t}
	}
	return implementation{typ: t}, nil
}

// validateConstructor checks that a constructor function returns exactly one
// service value plus an optional trailing error.
func validateConstructor(t reflect.Type) error {
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errType {
			return fmt.Errorf("%w: constructor %s must return a service value, not just an error", ErrRegistration, t)
		}
	case 2:
		if t.Out(1) != errType {
			return fmt.Errorf("%w: constructor %s second return value must be error", ErrRegistration, t)
		}
		if t.Out(0) == errType {
			return fmt.Errorf("%w: constructor %s must return a service value, not just errors", ErrRegistration, t)
		}
	default:
		return fmt.Errorf("%w: constructor %s must return (T) or (T, error)", ErrRegistration, t)
	}
	return nil
}

// satisfies validates that an implementation type can serve the given key.
// Self-registration (key type == implementation type) needs no check.
func satisfies(k Key, impl reflect.Type) error {
	switch {
	case k.IsName():
		return nil
	case k.Type() == impl:
		return nil
	case k.IsInterface():
		if !impl.Implements(k.Type()) {
			return ImplementationMismatchError{Key: k, Impl: impl}
		}
	default:
		if !impl.AssignableTo(k.Type()) {
			return ImplementationMismatchError{Key: k, Impl: impl}
		}
	}
	return nil
}

// instanceSatisfies validates that a ready-made instance can serve the key.
// Name keys accept any instance.
func instanceSatisfies(k Key, instance any) error {
	if k.IsName() {
		return nil
	}

	t := reflect.TypeOf(instance)
	if k.IsInterface() {
		if !t.Implements(k.Type()) {
			return InstanceTypeError{Key: k, Instance: t}
		}
		return nil
	}
	if !t.AssignableTo(k.Type()) {
		return InstanceTypeError{Key: k, Instance: t}
	}
	return nil
}
