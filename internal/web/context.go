package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/xlselect/internal/core"
)

// withRequestMetadata adds the client IP and User-Agent to ctx so the
// service can log who created or loaded a session.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithClientIP(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

// clientIP returns the host part of RemoteAddr, which TrustedRealIP has
// already rewritten for requests from trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
