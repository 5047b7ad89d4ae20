package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

const shutdownTimeout = 5 * time.Second

// staticServer serves the application directory on a loopback port.
type staticServer struct {
	srv *http.Server
	url string
}

func serveDir(dir string) (*staticServer, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("serve dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("serve dir: %s is not a directory", dir)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", noCache(http.FileServer(http.Dir(dir))))

	s := &staticServer{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		url: "http://" + ln.Addr().String(),
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("static server", "err", err)
		}
	}()
	slog.Info("serving app", "dir", dir, "url", s.url)
	return s, nil
}

// indexURL is the page the scenario loads when serving a directory.
func (s *staticServer) indexURL() string {
	return s.url + "/index.html"
}

func (s *staticServer) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Warn("static server shutdown", "err", err)
	}
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
