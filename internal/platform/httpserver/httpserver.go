// Package httpserver builds the http.Server instances for the API and ops
// listeners.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for addr. Every request and response here is a
// small JSON document, so the read and write windows are deliberately tight;
// idle keep-alive connections are allowed to linger longer.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
