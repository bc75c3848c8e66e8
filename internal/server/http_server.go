package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

// The ops routes answer from memory, so the budgets are tight.
const (
	opsReadTimeout  = 5 * time.Second
	opsWriteTimeout = 5 * time.Second
	opsIdleTimeout  = 30 * time.Second
)

// shutdownTimeout bounds graceful shutdown; tests shorten it.
var shutdownTimeout = 10 * time.Second

// httpServer is the slice of *http.Server the lifecycle code drives.
type httpServer interface {
	ListenAndServe() error
	Shutdown(context.Context) error
	Addr() string
	Handler() http.Handler
}

// netHTTPServer serves on listener when one is set, otherwise on srv.Addr.
type netHTTPServer struct {
	srv      *http.Server
	listener net.Listener
}

func newOpsServer(port string, handler http.Handler) netHTTPServer {
	return netHTTPServer{srv: &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  opsReadTimeout,
		WriteTimeout: opsWriteTimeout,
		IdleTimeout:  opsIdleTimeout,
	}}
}

func newMetricsServer(port string, handler http.Handler) netHTTPServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	return netHTTPServer{srv: &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: opsReadTimeout,
	}}
}

func (s netHTTPServer) ListenAndServe() error {
	if s.listener != nil {
		return s.srv.Serve(s.listener)
	}
	return s.srv.ListenAndServe()
}

func (s netHTTPServer) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
func (s netHTTPServer) Addr() string                       { return s.srv.Addr }
func (s netHTTPServer) Handler() http.Handler              { return s.srv.Handler }
