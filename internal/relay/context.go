package relay

import "context"

type correlationKey struct{}

// WithCorrelationID attaches a correlation id that the relay reuses for the
// invocation instead of minting a new one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id carried by ctx, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
