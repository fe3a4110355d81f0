// Package dico provides a registry-based dependency injection container for
// Go applications, modeled on the IServiceCollection/IServiceProvider
// registration patterns: callers declare how a capability maps to an
// implementation, and the container builds instances on demand by resolving
// constructor parameters recursively.
//
// # Overview
//
// The container supports:
//   - Two lifetimes: Transient (fresh instance per lookup) and Singleton
//     (one cached instance per key)
//   - Three key shapes: string names, capability (interface) types, and
//     concrete types
//   - Constructor functions and struct field injection
//   - Implicit resolution of unregistered concrete types
//   - Deterministic cycle detection with the full dependency chain reported
//   - A module system for grouping registrations
//
// # Basic Usage
//
// Create a container, register implementations under their capabilities,
// and resolve:
//
//	c := dico.New()
//
//	if err := c.AddSingleton((*Logger)(nil), NewFileLogger); err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.AddTransient((*Mailer)(nil), NewSMTPMailer); err != nil {
//	    log.Fatal(err)
//	}
//
//	logger, err := dico.Resolve[Logger](c)
//
// # Dependency Injection
//
// Implementations declare dependencies through constructor parameters:
//
//	func NewUserService(db Database, logger Logger) *UserService {
//	    return &UserService{db: db, logger: logger}
//	}
//
// Each parameter is resolved through the container by its declared type. A
// constructor may also return (T, error); a non-nil error aborts the
// resolution.
//
// Alternatively an implementation may be a plain struct type whose exported
// fields carry an `inject` tag:
//
//	type UserService struct {
//	    DB     Database `inject:""`
//	    Mailer Mailer   `inject:"smtp"` // resolve the string key "smtp"
//	    note   string   // untagged: left at its zero value
//	}
//
// # Lifetimes
//
// Transient registrations construct a new instance on every Get. Singleton
// registrations construct once and cache the instance until Clear; a
// ready-made instance can be registered directly with AddSingletonInstance,
// short-circuiting construction entirely.
//
// # Errors
//
// Every error matches ErrContainer with errors.Is, splitting into
// ErrRegistration and ErrResolution. Specific failures carry typed errors
// (AbstractDependencyError, ImplementationMismatchError, InstanceTypeError,
// MissingTypeHintError, CircularDependencyError,
// UnregisteredDependencyError, InstantiationError) accessible with
// errors.As. The container never recovers internally: a failure aborts the
// current Get and propagates unchanged.
package dico
