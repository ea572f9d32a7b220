// Package telemetry wires structured logging and Prometheus metrics
// through context, adapted from the teacher's generic context-injection
// helpers and its metrics registry — minus the Kubernetes-specific pieces
// neither concern needs here.
package telemetry

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// IntoContext stores logger as this context's singleton zap logger.
func IntoContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by IntoContext, or a no-op
// fallback if none was stored — unlike the settings/config context
// values, a missing logger should never crash a scheduling run.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return zap.NewNop().Sugar()
}

// NewProduction builds the production zap logger this service runs with.
func NewProduction() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
