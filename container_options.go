package dico

import (
	"github.com/rs/zerolog"
)

// An Option configures a Container at construction time.
type Option interface {
	apply(*Container)
}

type optionFunc func(*Container)

func (f optionFunc) apply(c *Container) { f(c) }

// WithLogger attaches a logger to the container. The container emits
// trace-level events for registrations, constructions, cache hits, and
// resets. The default is zerolog.Nop().
func WithLogger(log zerolog.Logger) Option {
	return optionFunc(func(c *Container) {
		c.log = log
	})
}

// WithID overrides the generated container id. Useful when correlating log
// output across several containers in tests.
func WithID(id string) Option {
	return optionFunc(func(c *Container) {
		c.id = id
	})
}
