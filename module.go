package dico

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Container) error

// NewModule creates a named group of registrations that can be applied to a
// container as one unit. Errors from the grouped registrations are wrapped
// in a ModuleError carrying the module name.
//
// Example:
//
//	var StorageModule = dico.NewModule("storage",
//	    dico.AddSingleton((*UserStore)(nil), NewPostgresUserStore),
//	    dico.AddTransient((*Mailer)(nil), NewSMTPMailer),
//	)
//
//	var AppModule = dico.NewModule("app",
//	    StorageModule,
//	    dico.AddSingleton(&Server{}),
//	)
//
//	err := c.Apply(AppModule)
func NewModule(name string, opts ...ModuleOption) ModuleOption {
	return func(c *Container) error {
		for _, opt := range opts {
			if opt == nil {
				continue
			}

			if err := opt(c); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// AddTransient creates a ModuleOption registering a transient implementation.
func AddTransient(key, impl any) ModuleOption {
	return func(c *Container) error {
		return c.AddTransient(key, impl)
	}
}

// AddSingleton creates a ModuleOption registering a singleton implementation.
func AddSingleton(key any, impl ...any) ModuleOption {
	return func(c *Container) error {
		return c.AddSingleton(key, impl...)
	}
}

// AddSingletonInstance creates a ModuleOption registering a ready-made
// instance.
func AddSingletonInstance(key, instance any) ModuleOption {
	return func(c *Container) error {
		return c.AddSingletonInstance(key, instance)
	}
}

// Apply runs the registration options against the container, stopping at the
// first failure.
func (c *Container) Apply(opts ...ModuleOption) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(c); err != nil {
			return err
		}
	}

	return nil
}
