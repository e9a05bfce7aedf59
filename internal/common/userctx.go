package common

import "context"

// AdvisorContext identifies the advisor driving a request, resolved from the
// bearer token.
type AdvisorContext struct {
	Username string
	Name     string
}

type contextKey int

const advisorContextKey contextKey = iota

// WithAdvisor stores an AdvisorContext in the request context.
func WithAdvisor(ctx context.Context, ac *AdvisorContext) context.Context {
	return context.WithValue(ctx, advisorContextKey, ac)
}

// AdvisorFromContext retrieves the AdvisorContext from context, or nil if absent.
func AdvisorFromContext(ctx context.Context) *AdvisorContext {
	ac, _ := ctx.Value(advisorContextKey).(*AdvisorContext)
	return ac
}

// ResolveAdvisor returns the advisor username from context, or "default" when
// the server runs without authentication.
func ResolveAdvisor(ctx context.Context) string {
	if ac := AdvisorFromContext(ctx); ac != nil && ac.Username != "" {
		return ac.Username
	}
	return "default"
}
