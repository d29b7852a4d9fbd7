package web

import (
	"net/http"

	"github.com/JonMunkholm/roster/internal/core"
)

// requestMetadata copies the client address and User-Agent into the
// request context so service logs can name the caller.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithClientIP(r.Context(), r.RemoteAddr) // already rewritten by TrustedRealIP
		ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
