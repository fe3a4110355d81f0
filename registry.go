package dico

import (
	"reflect"
	"sync"
)

// registration pairs an implementation with the key it was stored under.
type registration struct {
	key  Key
	impl implementation
}

// lookupResult is the outcome of a definition lookup: either a cached
// instance, or an implementation to construct with the lifetime decision
// already made. cacheKey is where a constructed singleton must be cached —
// the original registration key, so a reverse-scan hit on a concrete type
// shares its cache entry with the capability it was registered under.
type lookupResult struct {
	instance  any
	cached    bool
	impl      implementation
	singleton bool
	cacheKey  Key
}

// registry owns the three tables of the container: transient definitions,
// singleton definitions, and realized singleton instances. All access is
// guarded by mu; construction never happens under the lock.
type registry struct {
	mu         sync.RWMutex
	transients map[Key]implementation
	singletons map[Key]implementation
	instances  map[Key]any
}

func newRegistry() *registry {
	return &registry{
		transients: make(map[Key]implementation),
		singletons: make(map[Key]implementation),
		instances:  make(map[Key]any),
	}
}

// registerTransient validates and stores a transient definition.
// Re-registration overwrites the definition.
func (r *registry) registerTransient(k Key, impl implementation) error {
	if err := satisfies(k, impl.typ); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.transients[k] = impl
	return nil
}

// registerSingleton validates and stores a singleton definition. An already
// cached instance for the key is not invalidated: first successful
// resolution wins for the lifetime of the registry.
func (r *registry) registerSingleton(k Key, impl implementation) error {
	if err := satisfies(k, impl.typ); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.singletons[k] = impl
	return nil
}

// registerInstance stores a ready-made instance directly into the singleton
// cache, bypassing construction. Explicit registration overwrites a cached
// instance for the same key.
func (r *registry) registerInstance(k Key, instance any) error {
	if err := instanceSatisfies(k, instance); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[k] = instance
	return nil
}

// lookup finds what a key resolves to, in priority order: cached singleton
// instance, singleton definition, transient definition. Concrete type keys
// additionally get a reverse scan of the singleton storage by implementation
// type, and finally fall back to implicit self-resolution as a transient.
// Name and capability keys never fall back.
func (r *registry) lookup(k Key) (lookupResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.instances[k]; ok {
		return lookupResult{instance: v, cached: true}, nil
	}
	if impl, ok := r.singletons[k]; ok {
		return lookupResult{impl: impl, singleton: true, cacheKey: k}, nil
	}
	if impl, ok := r.transients[k]; ok {
		return lookupResult{impl: impl}, nil
	}

	if k.IsConcrete() {
		if v, ok := r.scanInstances(k.Type()); ok {
			return lookupResult{instance: v, cached: true}, nil
		}
		if reg, ok := r.scanSingletons(k.Type()); ok {
			return lookupResult{impl: reg.impl, singleton: true, cacheKey: reg.key}, nil
		}
		// Implicit self-resolution: an unregistered concrete type is its own
		// transient implementation.
		return lookupResult{impl: implementation{typ: k.Type()}}, nil
	}

	return lookupResult{}, UnregisteredDependencyError{Key: k}
}

// scanInstances searches the singleton instance cache for a value of exactly
// the given dynamic type. Callers hold r.mu.
func (r *registry) scanInstances(t reflect.Type) (any, bool) {
	for k, v := range r.instances {
		if k.IsName() {
			continue
		}
		if reflect.TypeOf(v) == t {
			return v, true
		}
	}
	return nil, false
}

// scanSingletons searches the singleton definition table for an entry whose
// implementation type matches. Callers hold r.mu.
func (r *registry) scanSingletons(t reflect.Type) (registration, bool) {
	for k, impl := range r.singletons {
		if k.IsName() {
			continue
		}
		if impl.typ == t {
			return registration{key: k, impl: impl}, true
		}
	}
	return registration{}, false
}

// storeInstance caches a constructed singleton. If a concurrent resolution
// already cached one for the key, the existing instance wins and is returned
// so every caller observes the same value.
func (r *registry) storeInstance(k Key, v any) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.instances[k]; ok {
		return existing
	}
	r.instances[k] = v
	return v
}

// lifetimeOf reports the lifetime a key is registered under. A cached or
// directly registered instance counts as Singleton.
func (r *registry) lifetimeOf(k Key) (Lifetime, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.instances[k]; ok {
		return Singleton, true
	}
	if _, ok := r.singletons[k]; ok {
		return Singleton, true
	}
	if _, ok := r.transients[k]; ok {
		return Transient, true
	}
	return 0, false
}

// clear empties all tables and caches, returning the registry to its
// freshly constructed state.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transients = make(map[Key]implementation)
	r.singletons = make(map[Key]implementation)
	r.instances = make(map[Key]any)
}
