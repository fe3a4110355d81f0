package dico

import (
	"fmt"
	"reflect"
)

// Invoke calls fn with every parameter resolved from the container, in
// declaration order. It is the call-time counterpart of constructor
// injection: functions declare what they need and the container supplies it.
//
//	err := c.Invoke(func(db Database, log Logger) error {
//	    return db.Ping()
//	})
//
// A variadic catch-all is called with no values. If the last result of fn is
// a non-nil error it is returned; all other results are discarded.
func (c *Container) Invoke(fn any) error {
	if fn == nil {
		return fmt.Errorf("%w: %w", ErrResolution, ErrFuncNil)
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return fmt.Errorf("%w: Invoke requires a function, got %s", ErrResolution, formatType(ft))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	args, err := c.resolveParameters(&resolution{}, ft, ft)
	if err != nil {
		return err
	}

	results, err := safeCall(fv, args)
	if err != nil {
		return InstantiationError{Impl: ft, Cause: err}
	}

	if n := len(results); n > 0 {
		last := results[n-1]
		if last.Type() == errType && !last.IsNil() {
			return last.Interface().(error)
		}
	}

	return nil
}
