package dico

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCycleDetection(t *testing.T) {
	t.Run("two-node cycle", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddSingleton(&TCircularA{}, NewTCircularA))
		require.NoError(t, c.AddSingleton(&TCircularB{}, NewTCircularB))

		_, err := c.Get(&TCircularA{})
		require.ErrorIs(t, err, ErrResolution)

		var cyc CircularDependencyError
		require.ErrorAs(t, err, &cyc)
		require.Equal(t, []reflect.Type{
			reflect.TypeOf(&TCircularA{}),
			reflect.TypeOf(&TCircularB{}),
			reflect.TypeOf(&TCircularA{}),
		}, cyc.Chain)
		require.Contains(t, err.Error(), "*TCircularA -> *TCircularB -> *TCircularA")
	})

	t.Run("chain starts at the first repeated type", func(t *testing.T) {
		// TService itself is not part of the cycle; the reported chain must
		// cover only database -> logger -> database.
		c := New()
		require.NoError(t, c.AddTransient(&TService{}, NewTService))
		require.NoError(t, c.AddSingleton((*TDatabase)(nil), NewTSQLDatabase))
		require.NoError(t, c.AddSingleton((*TLogger)(nil), func(db TDatabase) *TFileLogger {
			return &TFileLogger{}
		}))

		_, err := c.Get(&TService{})
		require.ErrorIs(t, err, ErrResolution)

		var cyc CircularDependencyError
		require.ErrorAs(t, err, &cyc)
		require.Equal(t, []reflect.Type{
			reflect.TypeOf(&TSQLDatabase{}),
			reflect.TypeOf(&TFileLogger{}),
			reflect.TypeOf(&TSQLDatabase{}),
		}, cyc.Chain)
	})

	t.Run("self cycle", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddSingleton(&TCircularA{}, func(a *TCircularA) *TCircularA {
			return a
		}))

		_, err := c.Get(&TCircularA{})

		var cyc CircularDependencyError
		require.ErrorAs(t, err, &cyc)
		require.Len(t, cyc.Chain, 2)
	})
}

func TestMissingTypeHint(t *testing.T) {
	t.Run("empty interface constructor parameter", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddTransient(&TUntyped{}, NewTUntyped))

		_, err := c.Get(&TUntyped{})
		require.ErrorIs(t, err, ErrResolution)

		var m MissingTypeHintError
		require.ErrorAs(t, err, &m)
		require.Equal(t, reflect.TypeOf(&TUntyped{}), m.Impl)
		require.Equal(t, "arg0", m.Parameter)
	})

	t.Run("empty interface injected field", func(t *testing.T) {
		c := New()

		_, err := c.Get(&TTaggedUntyped{})
		require.ErrorIs(t, err, ErrResolution)

		var m MissingTypeHintError
		require.ErrorAs(t, err, &m)
		require.Equal(t, "V", m.Parameter)
	})
}

func TestStructInjection(t *testing.T) {
	t.Run("tagged fields resolved, untagged left zero", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddSingleton((*TLogger)(nil), NewTFileLogger))
		require.NoError(t, c.AddSingletonInstance("service.name", "orders"))

		v, err := c.Get(&TTagged{})
		require.NoError(t, err)

		tagged := v.(*TTagged)
		require.NotNil(t, tagged.Log)
		require.Equal(t, "orders", tagged.Name)
		require.Empty(t, tagged.Note)
	})

	t.Run("value type implementation", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddSingleton((*TLogger)(nil), NewTFileLogger))
		require.NoError(t, c.AddSingletonInstance("service.name", "orders"))

		v, err := c.Get(TTagged{})
		require.NoError(t, err)
		require.IsType(t, TTagged{}, v)
		require.Equal(t, "orders", v.(TTagged).Name)
	})

	t.Run("name-keyed field with wrong type fails instantiation", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddSingleton((*TLogger)(nil), NewTFileLogger))
		require.NoError(t, c.AddSingletonInstance("service.name", 42))

		_, err := c.Get(&TTagged{})
		require.ErrorIs(t, err, ErrResolution)

		var ie InstantiationError
		require.ErrorAs(t, err, &ie)
	})
}

func TestVariadicConstructor(t *testing.T) {
	c := New()
	require.NoError(t, c.AddSingleton((*TLogger)(nil), NewTFileLogger))
	require.NoError(t, c.AddTransient(&TVariadic{}, NewTVariadic))

	v, err := c.Get(&TVariadic{})
	require.NoError(t, err)

	tv := v.(*TVariadic)
	require.NotNil(t, tv.Log)
	require.Empty(t, tv.Extra)
}

func TestUnregisteredDependencyContext(t *testing.T) {
	t.Run("top-level lookup has no requester", func(t *testing.T) {
		c := New()
		_, err := c.Get((*TLogger)(nil))

		var u UnregisteredDependencyError
		require.ErrorAs(t, err, &u)
		require.Nil(t, u.Requester)
		require.Empty(t, u.Parameter)
	})

	t.Run("nested lookup names the requester and parameter", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddTransient((*TDatabase)(nil), NewTSQLDatabase))

		_, err := c.Get((*TDatabase)(nil))
		require.ErrorIs(t, err, ErrResolution)

		var u UnregisteredDependencyError
		require.ErrorAs(t, err, &u)
		require.Equal(t, reflect.TypeOf(&TSQLDatabase{}), u.Requester)
		require.Equal(t, "arg0", u.Parameter)
	})

	t.Run("deep failure propagates unchanged", func(t *testing.T) {
		// TService -> TDatabase -> TLogger(unregistered): the error must
		// still name TSQLDatabase, the immediate requester, after passing
		// through the TService frame.
		c := New()
		require.NoError(t, c.AddTransient(&TService{}, NewTService))
		require.NoError(t, c.AddTransient((*TDatabase)(nil), NewTSQLDatabase))

		_, err := c.Get(&TService{})

		var u UnregisteredDependencyError
		require.ErrorAs(t, err, &u)
		require.Equal(t, reflect.TypeOf(&TSQLDatabase{}), u.Requester)
	})
}

func TestInstantiationFailures(t *testing.T) {
	t.Run("constructor error is wrapped with its cause", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddTransient(&TFailing{}, NewTFailing))

		_, err := c.Get(&TFailing{})
		require.ErrorIs(t, err, ErrResolution)

		var ie InstantiationError
		require.ErrorAs(t, err, &ie)
		require.ErrorIs(t, err, errTConstructor)
	})

	t.Run("constructor panic is converted", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddTransient(&TPanicking{}, NewTPanicking))

		_, err := c.Get(&TPanicking{})
		require.ErrorIs(t, err, ErrResolution)

		var ie InstantiationError
		require.ErrorAs(t, err, &ie)
		require.Contains(t, ie.Cause.Error(), "constructor exploded")
	})

	t.Run("taxonomy errors are not double-wrapped", func(t *testing.T) {
		// A constructor returning an error from the container's own
		// taxonomy must surface it as-is, not inside an InstantiationError.
		c := New()
		require.NoError(t, c.AddTransient((*TLogger)(nil), func() (*TFileLogger, error) {
			return nil, UnregisteredDependencyError{Key: nameKey("missing")}
		}))

		_, err := c.Get((*TLogger)(nil))
		require.ErrorIs(t, err, ErrResolution)

		var ie InstantiationError
		require.False(t, errors.As(err, &ie))

		var u UnregisteredDependencyError
		require.ErrorAs(t, err, &u)
	})
}
