package kit

import (
	"context"
	"time"
)

// Endpoint is a transport-agnostic request handler.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware decorates an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares; the first one is the outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Logging logs every call of the endpoint named name with its duration.
func Logging(name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			l := Logger(ctx, nil).With("endpoint", name, "transport", GetTransport(ctx),
				"duration_ms", time.Since(start).Milliseconds())
			if err != nil {
				l.Warn("endpoint failed", "error", err)
			} else {
				l.Info("endpoint done")
			}
			return resp, err
		}
	}
}
