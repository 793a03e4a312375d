// Package bearer extracts the caller-supplied token from a request.
//
// Extraction is all this middleware does: whether a token is required, and
// whether the one presented authorizes anything, is decided per resource by
// the services. An absent token simply leaves the context empty.
package bearer

import (
	"net/http"
	"strings"

	"upcheck/pkg/requestcontext"
)

// legacyHeader is the bare token header older clients send instead of an
// Authorization header.
const legacyHeader = "Token"

// Middleware stores the presented bearer token, if any, in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := FromRequest(r)
		if token != "" {
			r = r.WithContext(requestcontext.WithBearerToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// FromRequest returns the bearer token carried by the request, preferring the
// Authorization header over the legacy Token header.
func FromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(r.Header.Get(legacyHeader))
}
