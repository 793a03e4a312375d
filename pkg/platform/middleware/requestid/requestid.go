// Package requestid assigns every request an opaque id for log correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"upcheck/pkg/requestcontext"
)

// Header carries the request id back to the caller.
const Header = "X-Request-Id"

// Middleware stores a fresh request id in the context and echoes it in the
// response headers. An id supplied by the caller is kept.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
