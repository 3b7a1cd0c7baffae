package core

import "context"

type contextKey string

const (
	ctxKeyClientIP  contextKey = "client_ip"
	ctxKeyUserAgent contextKey = "client_ua"
)

// ContextWithClientIP adds the caller's IP address to ctx for session logs.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP, ip)
}

// ContextWithUserAgent adds the caller's User-Agent to ctx for session logs.
func ContextWithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, ctxKeyUserAgent, ua)
}

// ClientIPFromContext extracts the client IP address from ctx.
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return v
	}
	return ""
}

// UserAgentFromContext extracts the client User-Agent from ctx.
func UserAgentFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		return v
	}
	return ""
}

// clientAttrs returns the client fields present in ctx as slog key/value pairs.
func clientAttrs(ctx context.Context) []any {
	var attrs []any
	if ip := ClientIPFromContext(ctx); ip != "" {
		attrs = append(attrs, "client_ip", ip)
	}
	if ua := UserAgentFromContext(ctx); ua != "" {
		attrs = append(attrs, "user_agent", ua)
	}
	return attrs
}
