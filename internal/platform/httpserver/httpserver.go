package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for one engine round trip
// per request. engineTimeout bounds the slowest legitimate handler.
func New(addr string, handler http.Handler, engineTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      engineTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
