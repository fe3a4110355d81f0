package dico

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Container is the single entry point of the package: registrations populate
// its registry, Get resolves instances through recursive constructor
// injection, Clear resets it.
//
// Registration is expected to happen in a configuration phase before
// resolution. Both are nevertheless safe for concurrent use: the registry is
// internally locked, and resolution is serialized by a container-level mutex
// so a singleton is constructed at most once even under concurrent first
// access.
type Container struct {
	id  string
	log zerolog.Logger
	reg *registry

	// mu serializes resolution. Holding it across the whole Get keeps the
	// construct-at-most-once singleton guarantee without per-key locks,
	// which would deadlock on recursive resolution.
	mu sync.Mutex
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		id:  uuid.NewString(),
		log: zerolog.Nop(),
		reg: newRegistry(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}

	return c
}

// ID returns the unique identifier of this container instance.
func (c *Container) ID() string {
	return c.id
}

// AddTransient registers an implementation for the key with transient
// lifetime: every Get constructs a fresh instance.
//
// key may be a string, a reflect.Type, a nil interface pointer such as
// (*Logger)(nil), or a concrete value prototype. impl may be a constructor
// function, a reflect.Type, or a value prototype.
func (c *Container) AddTransient(key, impl any) error {
	k, err := keyFor(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegistration, err)
	}

	im, err := implFor(k, impl)
	if err != nil {
		return err
	}

	if err := c.reg.registerTransient(k, im); err != nil {
		return err
	}

	c.log.Trace().Str("container", c.id).Stringer("key", k).
		Str("impl", formatType(im.typ)).Msg("registered transient")
	return nil
}

// AddSingleton registers an implementation for the key with singleton
// lifetime: the first Get constructs the instance, every later Get returns
// the identical cached one.
//
// When impl is omitted, the key registers itself as its own implementation
// (self-registration); the key must then be a concrete type. At most one
// implementation may be supplied.
func (c *Container) AddSingleton(key any, impl ...any) error {
	if len(impl) > 1 {
		return fmt.Errorf("%w: at most one implementation may be supplied", ErrRegistration)
	}

	k, err := keyFor(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegistration, err)
	}

	var im implementation
	if len(impl) == 1 {
		if im, err = implFor(k, impl[0]); err != nil {
			return err
		}
	} else {
		switch {
		case k.IsName():
			return fmt.Errorf("%w: string key %s requires an explicit implementation", ErrRegistration, k)
		case k.IsInterface():
			return AbstractDependencyError{Key: k, Impl: k.Type()}
		}
		im = implementation{typ: k.Type()}
	}

	if err := c.reg.registerSingleton(k, im); err != nil {
		return err
	}

	c.log.Trace().Str("container", c.id).Stringer("key", k).
		Str("impl", formatType(im.typ)).Msg("registered singleton")
	return nil
}

// AddSingletonInstance registers a ready-made instance directly into the
// singleton cache, bypassing construction entirely. Get returns the very
// same instance.
func (c *Container) AddSingletonInstance(key, instance any) error {
	k, err := keyFor(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	if instance == nil {
		return fmt.Errorf("%w: %w", ErrRegistration, ErrInstanceNil)
	}

	if err := c.reg.registerInstance(k, instance); err != nil {
		return err
	}

	c.log.Trace().Str("container", c.id).Stringer("key", k).
		Str("instance", formatType(reflect.TypeOf(instance))).Msg("registered singleton instance")
	return nil
}

// Register registers an implementation under the given lifetime. It is the
// lifetime-parameterized form of AddTransient and AddSingleton, convenient
// when the lifetime comes from data rather than code.
func (c *Container) Register(key, impl any, lifetime Lifetime) error {
	switch lifetime {
	case Transient:
		return c.AddTransient(key, impl)
	case Singleton:
		return c.AddSingleton(key, impl)
	default:
		return fmt.Errorf("%w: %w", ErrRegistration, LifetimeError{Value: lifetime})
	}
}

// Registered reports whether the key has a registration (or a cached
// instance) and under which lifetime. Implicit self-resolution of concrete
// types does not count as a registration.
func (c *Container) Registered(key any) (Lifetime, bool) {
	k, err := keyFor(key)
	if err != nil {
		return 0, false
	}
	return c.reg.lifetimeOf(k)
}

// Get resolves an instance for the key.
//
// String keys look up only string-keyed registrations. Capability
// (interface) keys look up only registrations made under that capability. A
// concrete type key additionally matches singleton registrations whose
// implementation is that type (sharing their cache entry), and falls back to
// constructing the type itself as a transient when nothing is registered.
//
// All failures abort the call with an error matching ErrResolution; no
// partial instances are ever returned.
func (c *Container) Get(key any) (any, error) {
	k, err := keyFor(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resolve(&resolution{}, k)
}

// Clear empties all registration tables and the singleton cache, as if the
// container were freshly constructed. Intended for test isolation between
// independent configuration sessions.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reg.clear()
	c.log.Trace().Str("container", c.id).Msg("cleared")
}

// Resolve is generic sugar over Get for type keys:
//
//	logger, err := dico.Resolve[Logger](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T

	t := reflect.TypeOf((*T)(nil)).Elem()
	v, err := c.Get(t)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: resolved value of type %s does not satisfy %s",
			ErrResolution, formatType(reflect.TypeOf(v)), formatType(t))
	}
	return out, nil
}

// ResolveKeyed is generic sugar over Get for string keys.
func ResolveKeyed[T any](c *Container, name string) (T, error) {
	var zero T

	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: value registered under %q has type %s, not %s",
			ErrResolution, name, formatType(reflect.TypeOf(v)), formatType(reflect.TypeOf((*T)(nil)).Elem()))
	}
	return out, nil
}
