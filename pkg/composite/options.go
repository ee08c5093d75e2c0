package composite

import (
	"go.uber.org/zap"
)

type Option func(c *Compositor)

// WithWorkers splits output rows across n goroutines. n <= 1 keeps the
// compositing on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *Compositor) {
		c.workers = n
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Compositor) {
		c.logger = logger
	}
}
