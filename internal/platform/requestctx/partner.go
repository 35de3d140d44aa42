// Package requestctx carries request-scoped identity through context.
package requestctx

import "context"

// partnerIDContextKey is the context key for the authenticated partner identity.
type partnerIDContextKey struct{}

// WithPartnerID stores a partner identifier in context.
func WithPartnerID(ctx context.Context, partnerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, partnerIDContextKey{}, partnerID)
}

// PartnerIDFromContext returns the partner identifier stored in context.
func PartnerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(partnerIDContextKey{}).(string)
	return value
}
