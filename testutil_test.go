package dico

import (
	"errors"
	"sync/atomic"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TLogger is a basic capability for testing.
type TLogger interface {
	Log(msg string)
}

// TFileLogger implements TLogger.
type TFileLogger struct {
	Lines []string
}

func (l *TFileLogger) Log(msg string) { l.Lines = append(l.Lines, msg) }

func NewTFileLogger() *TFileLogger { return &TFileLogger{} }

// TDatabase is a capability with a dependency chain behind it.
type TDatabase interface {
	Ping() error
}

// TSQLDatabase implements TDatabase and depends on TLogger.
type TSQLDatabase struct {
	Logger TLogger
}

func (d *TSQLDatabase) Ping() error { return nil }

func NewTSQLDatabase(logger TLogger) *TSQLDatabase {
	return &TSQLDatabase{Logger: logger}
}

// TService depends on both capabilities.
type TService struct {
	DB  TDatabase
	Log TLogger
}

func NewTService(db TDatabase, log TLogger) *TService {
	return &TService{DB: db, Log: log}
}

// TPlain has no dependencies at all.
type TPlain struct {
	Value int
}

// TCounting tracks how many times its constructor ran.
type TCounting struct {
	N int64
}

var countingInstances atomic.Int64

func NewTCounting() *TCounting {
	return &TCounting{N: countingInstances.Add(1)}
}

// TTagged demonstrates struct-mode field injection.
type TTagged struct {
	Log  TLogger `inject:""`
	Name string  `inject:"service.name"`
	Note string  // untagged, stays zero
}

// TUntyped has a constructor parameter with no resolvable static type.
type TUntyped struct {
	V any
}

func NewTUntyped(v any) *TUntyped { return &TUntyped{V: v} }

// TTaggedUntyped has an injected field with no resolvable static type.
type TTaggedUntyped struct {
	V any `inject:""`
}

// Circular dependency pair.
type TCircularA struct{ B *TCircularB }
type TCircularB struct{ A *TCircularA }

func NewTCircularA(b *TCircularB) *TCircularA { return &TCircularA{B: b} }
func NewTCircularB(a *TCircularA) *TCircularB { return &TCircularB{A: a} }

// Failing constructors.
var errTConstructor = errors.New("boom")

type TFailing struct{}

func NewTFailing() (*TFailing, error) { return nil, errTConstructor }

type TPanicking struct{}

func NewTPanicking() *TPanicking { panic("constructor exploded") }

// TVariadic has a variadic catch-all that must not be injected.
type TVariadic struct {
	Log   TLogger
	Extra []int
}

func NewTVariadic(log TLogger, extra ...int) *TVariadic {
	return &TVariadic{Log: log, Extra: extra}
}

// TWrongImpl implements nothing useful.
type TWrongImpl struct{}

func (TWrongImpl) String() string { return "wrong" }
