package api

import (
	"net"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookstore-server/internal/metrics"
)

// loginRateLimit throttles login attempts per client IP.
func (s *Server) loginRateLimit(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx.RemoteAddr())

	if !s.loginLimiter.Allow(key) {
		metrics.RecordRateLimited("login")
		s.logger.Warn("Login rate limit exceeded", "ip", key)
		ctx.SetHeader("Retry-After", strconv.Itoa(int(s.cfg.Auth.LoginWindow.Seconds())))
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many login attempts, try again later")
		return
	}

	next(ctx)
}

// clientIP strips the port from a remote address. With TrustProxy set, chi's
// RealIP middleware has already replaced it with the forwarded address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
