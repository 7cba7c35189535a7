package host

import "log/slog"

type clientOptions struct {
	logger *slog.Logger
}

var defaultClientOptions = clientOptions{
	logger: slog.Default(),
}

// ClientOption configures the client.
type ClientOption interface {
	applyClient(opt *clientOptions)
}

// funcClientOption wraps a function that modifies clientOptions into an
// implementation of the ClientOption interface.
type funcClientOption func(*clientOptions)

func (f funcClientOption) applyClient(opt *clientOptions) { f(opt) }

// WithLogger returns a ClientOption that sets the logger for the client.
func WithLogger(l *slog.Logger) ClientOption {
	return funcClientOption(func(opt *clientOptions) { opt.logger = l })
}
