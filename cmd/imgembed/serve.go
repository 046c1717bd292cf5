package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/imgembed/pkg/dom"
	"github.com/lucas-albers-lz4/imgembed/pkg/embed"
	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/imgembed/pkg/log"
)

const (
	contentTypeHTML   = "text/html; charset=utf-8"
	contentTypeJSON   = "application/json"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve URL resolution and image markup over HTTP",
		Long: `Start an HTTP server with the following routes:

  GET /api/resolve?url=...            JSON resolution result
  GET /preview?url=...&container=...  preview container markup
  GET /image?url=...&alt=...          <img> markup
  GET /healthz                        liveness probe

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEmbedder()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, addr, newRouter(e))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "Address to listen on")
	return cmd
}

// runServer serves handler on addr until ctx is done, then shuts down.
func runServer(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitServerError,
			Err:  fmt.Errorf("failed to listen on %s: %w", addr, err),
		}
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info("Server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitServerError,
			Err:  fmt.Errorf("server stopped: %w", err),
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitServerError,
			Err:  fmt.Errorf("failed to shut down server: %w", err),
		}
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitServerError, Err: err}
	}
	return nil
}

// newRouter wires the HTTP routes to e.
func newRouter(e *embed.Embedder) *mux.Router {
	h := &handlers{embedder: e}
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/api/resolve", h.resolve).Methods(http.MethodGet)
	r.HandleFunc("/preview", h.preview).Methods(http.MethodGet)
	r.HandleFunc("/image", h.image).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet, http.MethodHead)
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		log.Debug("Handled request", "method", req.Method, "path", req.URL.Path, "duration", time.Since(start))
	})
}

type handlers struct {
	embedder *embed.Embedder
}

func (h *handlers) resolve(w http.ResponseWriter, req *http.Request) {
	input := req.URL.Query().Get("url")
	entry := newResolveEntry(h.embedder.Resolver(), input)

	w.Header().Set("Content-Type", contentTypeJSON)
	if err := json.NewEncoder(w).Encode(entry); err != nil {
		log.Warn("Failed to encode resolve response", "error", err)
	}
}

// preview returns the container element with the preview rendered into it.
func (h *handlers) preview(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	containerID := q.Get("container")
	if containerID == "" {
		containerID = h.embedder.Options().ContainerID
	}

	doc := h.embedder.PreviewDocument(containerID)
	h.embedder.RenderPreview(doc, q.Get("url"), containerID)
	out, err := dom.OuterHTML(doc.ElementByID(containerID))
	if err != nil {
		writeHTTPError(w, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, out)
}

func (h *handlers) image(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	out, err := h.embedder.ImageHTML(q.Get("url"), q.Get("alt"))
	if err != nil {
		writeHTTPError(w, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, out)
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Debug("Failed to write response", "error", err)
	}
}

func writeHTTPError(w http.ResponseWriter, status int, err error) {
	log.Error("Request failed", "status", status, "error", err)
	http.Error(w, http.StatusText(status), status)
}
