package depot

import "go.uber.org/zap"

type Option func(*Engine)

// WithLogger routes engine logs to logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.Named("depot")
		}
	}
}
