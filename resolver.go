package dico

import (
	"errors"
	"fmt"
	"reflect"
)

// resolution tracks the chain of implementation types currently under
// construction for one top-level Get or Invoke. The chain doubles as the
// cycle detector: revisiting a type already on it is a circular dependency,
// reported with the exact path instead of waiting for the call stack to
// blow up.
type resolution struct {
	chain []reflect.Type
}

// enter pushes an implementation type onto the chain, failing with the full
// cycle path if the type is already being constructed.
func (rs *resolution) enter(t reflect.Type) error {
	for i, seen := range rs.chain {
		if seen == t {
			cycle := make([]reflect.Type, 0, len(rs.chain)-i+1)
			cycle = append(cycle, rs.chain[i:]...)
			cycle = append(cycle, t)
			return CircularDependencyError{Chain: cycle}
		}
	}

	rs.chain = append(rs.chain, t)
	return nil
}

func (rs *resolution) exit() {
	rs.chain = rs.chain[:len(rs.chain)-1]
}

// resolve is the internal lookup behind Get: registry lookup, then
// construction and singleton caching. Callers hold the container's
// resolution lock.
func (c *Container) resolve(rs *resolution, k Key) (any, error) {
	res, err := c.reg.lookup(k)
	if err != nil {
		return nil, err
	}

	if res.cached {
		c.log.Trace().Str("container", c.id).Stringer("key", k).Msg("singleton cache hit")
		return res.instance, nil
	}

	v, err := c.construct(rs, res.impl)
	if err != nil {
		return nil, err
	}

	if res.singleton {
		v = c.reg.storeInstance(res.cacheKey, v)
		c.log.Trace().Str("container", c.id).Stringer("key", res.cacheKey).Msg("singleton cached")
	}

	return v, nil
}

// construct builds an instance of the implementation, guarding the chain for
// cycle detection.
func (c *Container) construct(rs *resolution, impl implementation) (any, error) {
	if err := rs.enter(impl.typ); err != nil {
		return nil, err
	}
	defer rs.exit()

	c.log.Trace().Str("container", c.id).Str("impl", formatType(impl.typ)).Msg("constructing")

	if impl.fn {
		return c.callConstructor(rs, impl)
	}
	return c.buildValue(rs, impl.typ)
}

// callConstructor resolves the constructor's parameters in declaration order
// and invokes it. A panic or error return from the constructor becomes an
// InstantiationError; errors already in the container taxonomy pass through
// unchanged.
func (c *Container) callConstructor(rs *resolution, impl implementation) (any, error) {
	args, err := c.resolveParameters(rs, impl.typ, impl.ctor.Type())
	if err != nil {
		return nil, err
	}

	results, err := safeCall(impl.ctor, args)
	if err != nil {
		return nil, InstantiationError{Impl: impl.typ, Cause: err}
	}

	if len(results) == 2 {
		if errv := results[1]; !errv.IsNil() {
			cerr := errv.Interface().(error)
			if errors.Is(cerr, ErrContainer) {
				return nil, cerr
			}
			return nil, InstantiationError{Impl: impl.typ, Cause: cerr}
		}
	}

	return results[0].Interface(), nil
}

// resolveParameters resolves every parameter of a function type through the
// container. A variadic catch-all is never injected; it is called with no
// values. An empty-interface parameter carries no resolvable type and fails
// with MissingTypeHintError.
func (c *Container) resolveParameters(rs *resolution, requester reflect.Type, fn reflect.Type) ([]reflect.Value, error) {
	n := fn.NumIn()
	if fn.IsVariadic() {
		n--
	}

	args := make([]reflect.Value, 0, n)
	for i := 0; i < n; i++ {
		pt := fn.In(i)
		name := fmt.Sprintf("arg%d", i)

		if pt == emptyInterfaceType {
			return nil, MissingTypeHintError{Impl: requester, Parameter: name}
		}

		v, err := c.resolve(rs, typeKey(pt))
		if err != nil {
			return nil, annotateUnregistered(err, requester, name)
		}
		if v == nil {
			args = append(args, reflect.Zero(pt))
			continue
		}
		args = append(args, reflect.ValueOf(v))
	}

	return args, nil
}

// buildValue constructs a concrete type in struct mode: reflect.New, then
// resolve each exported field carrying an `inject` tag. A bare tag resolves
// by the field's type; `inject:"name"` resolves the string-keyed
// registration instead. Untagged fields stay at their zero value.
func (c *Container) buildValue(rs *resolution, t reflect.Type) (any, error) {
	base := t
	ptr := false
	if base.Kind() == reflect.Pointer {
		ptr = true
		base = base.Elem()
	}

	if base.Kind() != reflect.Struct {
		// Nothing to inject; the zero value is the instance.
		if ptr {
			return reflect.New(base).Interface(), nil
		}
		return reflect.Zero(base).Interface(), nil
	}

	v := reflect.New(base)
	elem := v.Elem()

	for i := 0; i < base.NumField(); i++ {
		f := base.Field(i)
		tag, ok := f.Tag.Lookup("inject")
		if !ok {
			continue
		}
		if !f.IsExported() {
			return nil, InstantiationError{
				Impl:  t,
				Cause: fmt.Errorf("cannot inject unexported field %q", f.Name),
			}
		}

		var k Key
		if tag != "" {
			k = nameKey(tag)
		} else {
			if f.Type == emptyInterfaceType {
				return nil, MissingTypeHintError{Impl: t, Parameter: f.Name}
			}
			k = typeKey(f.Type)
		}

		dep, err := c.resolve(rs, k)
		if err != nil {
			return nil, annotateUnregistered(err, t, f.Name)
		}
		if dep == nil {
			continue
		}

		dv := reflect.ValueOf(dep)
		if !dv.Type().AssignableTo(f.Type) {
			return nil, InstantiationError{
				Impl: t,
				Cause: fmt.Errorf("value of type %s for field %q is not assignable to %s",
					formatType(dv.Type()), f.Name, formatType(f.Type)),
			}
		}
		elem.Field(i).Set(dv)
	}

	if ptr {
		return v.Interface(), nil
	}
	return elem.Interface(), nil
}

// annotateUnregistered fills in the requester context on an
// UnregisteredDependencyError raised by the immediate sub-resolution. An
// error that already names its requester came from deeper in the graph and
// propagates unchanged.
func annotateUnregistered(err error, requester reflect.Type, parameter string) error {
	var u UnregisteredDependencyError
	if errors.As(err, &u) && u.Requester == nil {
		u.Requester = requester
		u.Parameter = parameter
		return u
	}
	return err
}

// safeCall invokes fn, converting a panic into an error.
func safeCall(fn reflect.Value, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	return fn.Call(args), nil
}
