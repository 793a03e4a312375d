// Package http assembles the public API router: middleware chain first, then
// each domain handler mounted via its Register method.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"upcheck/pkg/platform/httputil"
	"upcheck/pkg/platform/middleware/bearer"
	"upcheck/pkg/platform/middleware/requestid"
	"upcheck/pkg/platform/middleware/requesttime"
)

// Registrar mounts a group of endpoints on the router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the API router from the domain handlers.
func NewRouter(handlers ...Registrar) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(bearer.Middleware)

	r.Get("/ping", handlePing)
	for _, h := range handlers {
		h.Register(r)
	}
	return r
}

func handlePing(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
