package indexability

import (
	"log/slog"

	"github.com/Dome-Systems/indexability-go/internal/expression/exprlang"
)

// evaluatorConfig holds resolved configuration for an Evaluator.
type evaluatorConfig struct {
	services     ServiceResolver
	engine       ExpressionEngine
	disableCache bool
	logger       *slog.Logger
}

// Option configures an Evaluator.
type Option func(*evaluatorConfig)

// WithServices sets the resolver used for ["@id", "Method"] policies.
// Without it every service reference fails with UnknownServiceError.
func WithServices(r ServiceResolver) Option {
	return func(c *evaluatorConfig) {
		c.services = r
	}
}

// WithExpressionEngine replaces the default expr-lang engine. Passing nil
// removes expression support; expression policies then fail with
// MissingExpressionEngineError.
func WithExpressionEngine(e ExpressionEngine) Option {
	return func(c *evaluatorConfig) {
		c.engine = e
	}
}

// WithoutCache resolves policies on every evaluation instead of once per
// type. Intended for tests.
func WithoutCache() Option {
	return func(c *evaluatorConfig) {
		c.disableCache = true
	}
}

// WithLogger sets a custom slog logger. By default, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *evaluatorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func defaultConfig() evaluatorConfig {
	return evaluatorConfig{
		engine: exprlang.New(),
		logger: slog.Default(),
	}
}
