package dico

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// ErrContainer is the root of the taxonomy: every error produced by the
// container matches it with errors.Is. ErrRegistration and ErrResolution
// split the taxonomy into the two phases a caller can meaningfully
// distinguish. The typed errors below carry the per-failure context.

var (
	// ErrContainer is the root error all container errors wrap.
	ErrContainer = errors.New("container error")

	// ErrRegistration matches every error returned by the Add* methods.
	ErrRegistration = fmt.Errorf("%w: registration", ErrContainer)

	// ErrResolution matches every error returned by Get and Invoke.
	ErrResolution = fmt.Errorf("%w: resolution", ErrContainer)

	// Argument errors.
	ErrKeyNil      = errors.New("key cannot be nil")
	ErrImplNil     = errors.New("implementation cannot be nil")
	ErrInstanceNil = errors.New("instance cannot be nil")
	ErrFuncNil     = errors.New("function cannot be nil")
)

var (
	_ error = AbstractDependencyError{}
	_ error = ImplementationMismatchError{}
	_ error = InstanceTypeError{}
	_ error = MissingTypeHintError{}
	_ error = CircularDependencyError{}
	_ error = UnregisteredDependencyError{}
	_ error = InstantiationError{}
	_ error = LifetimeError{}
	_ error = ModuleError{}
)

// AbstractDependencyError indicates an attempt to register a non-constructible
// implementation: an interface type has no concrete shape the container could
// instantiate.
type AbstractDependencyError struct {
	Key  Key
	Impl reflect.Type
}

func (e AbstractDependencyError) Error() string {
	return fmt.Sprintf("cannot register abstract type %s as an implementation for %s: an interface cannot be constructed",
		formatType(e.Impl), e.Key)
}

func (e AbstractDependencyError) Unwrap() error { return ErrRegistration }

// ImplementationMismatchError indicates the implementation does not satisfy
// the capability or concrete type it is being registered under.
type ImplementationMismatchError struct {
	Key  Key
	Impl reflect.Type
}

func (e ImplementationMismatchError) Error() string {
	if e.Key.IsInterface() {
		return fmt.Sprintf("implementation %s does not implement capability %s",
			formatType(e.Impl), e.Key)
	}
	return fmt.Sprintf("implementation %s is not assignable to %s",
		formatType(e.Impl), e.Key)
}

func (e ImplementationMismatchError) Unwrap() error { return ErrRegistration }

// InstanceTypeError indicates a ready-made instance does not satisfy the key
// it is being registered under.
type InstanceTypeError struct {
	Key      Key
	Instance reflect.Type
}

func (e InstanceTypeError) Error() string {
	return fmt.Sprintf("instance of type %s does not satisfy %s",
		formatType(e.Instance), e.Key)
}

func (e InstanceTypeError) Unwrap() error { return ErrRegistration }

// MissingTypeHintError indicates a constructor parameter or injected field
// carries no static type the container could resolve. In Go this means an
// empty-interface parameter: any value would satisfy it, so the container
// refuses to guess.
type MissingTypeHintError struct {
	Impl      reflect.Type
	Parameter string
}

func (e MissingTypeHintError) Error() string {
	return fmt.Sprintf("parameter %q of %s has no resolvable static type (empty interface); declare a concrete or capability type",
		e.Parameter, formatType(e.Impl))
}

func (e MissingTypeHintError) Unwrap() error { return ErrResolution }

// CircularDependencyError indicates the resolution chain revisited an
// implementation type that is already under construction. Chain holds the
// ordered path from the first occurrence of the repeated type to the repeat.
type CircularDependencyError struct {
	Chain []reflect.Type
}

func (e CircularDependencyError) Error() string {
	if len(e.Chain) == 0 {
		return "circular dependency detected"
	}

	names := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		names[i] = formatType(t)
	}
	return "circular dependency detected: " + strings.Join(names, " -> ")
}

func (e CircularDependencyError) Unwrap() error { return ErrResolution }

// UnregisteredDependencyError indicates no registration applies to the
// requested key and no implicit fallback was available. Requester and
// Parameter are set when the lookup happened on behalf of an implementation
// under construction, and are zero for a top-level Get.
type UnregisteredDependencyError struct {
	Key       Key
	Requester reflect.Type
	Parameter string
}

func (e UnregisteredDependencyError) Error() string {
	if e.Requester != nil {
		return fmt.Sprintf("unregistered dependency %s requested by %s for parameter %q",
			e.Key, formatType(e.Requester), e.Parameter)
	}
	return fmt.Sprintf("no registration found for %s", e.Key)
}

func (e UnregisteredDependencyError) Unwrap() error { return ErrResolution }

// InstantiationError indicates the implementation's own construction failed:
// its constructor returned an error, panicked, or produced a value the
// requested shape cannot hold. Cause preserves the original failure.
type InstantiationError struct {
	Impl  reflect.Type
	Cause error
}

func (e InstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate %s: %v", formatType(e.Impl), e.Cause)
}

func (e InstantiationError) Unwrap() error { return e.Cause }

// Is keeps InstantiationError inside the taxonomy even though Unwrap is
// reserved for the constructor's own cause.
func (e InstantiationError) Is(target error) bool {
	return target == ErrResolution || target == ErrContainer
}

// LifetimeError indicates an invalid lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid lifetime: %v", e.Value)
}

// ModuleError wraps errors from module registration.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
