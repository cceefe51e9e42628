package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/logging"
	"github.com/hpungsan/jobdork/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// DefaultPort is the port `jobdork ui` listens on.
const DefaultPort = 7878

// Options configures the UI server.
type Options struct {
	Version string
	Bind    string
	Port    int
	Logger  logging.Logger
	Metrics *metrics.Metrics // nil creates a fresh registry
}

// NewServer creates the HTTP server for the jobdork web UI.
func NewServer(sess *app.Session, opts Options) (*http.Server, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	h := &Handlers{
		sess:     sess,
		renderer: NewRenderer(templateSub, opts.Version, opts.Logger),
		metrics:  opts.Metrics,
		log:      opts.Logger,
	}
	h.syncJobGauges()

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", opts.Bind, opts.Port),
		Handler:           h.routes(staticSub),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func (h *Handlers) routes(static fs.FS) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/search", http.StatusFound)
	})

	mux.HandleFunc("GET /search", h.HandleSearchPage)
	mux.HandleFunc("POST /search", h.HandlePerformSearch)
	mux.HandleFunc("POST /history/clear", h.HandleClearHistory)
	mux.HandleFunc("POST /history/{id}/apply", h.HandleApplyHistory)
	mux.HandleFunc("POST /presets", h.HandleSavePreset)
	mux.HandleFunc("POST /presets/{id}/apply", h.HandleApplyPreset)
	mux.HandleFunc("POST /presets/{id}/delete", h.HandleDeletePreset)

	mux.HandleFunc("POST /blocklist", h.HandleAddBlocked)
	mux.HandleFunc("POST /blocklist/remove", h.HandleRemoveBlocked)
	mux.HandleFunc("GET /blocklist/export", h.HandleExportBlocklist)
	mux.HandleFunc("POST /blocklist/import", h.HandleImportBlocklist)

	mux.HandleFunc("POST /theme/toggle", h.HandleToggleTheme)

	mux.HandleFunc("GET /board", h.HandleBoard)
	mux.HandleFunc("POST /board/jobs", h.HandleAddJob)
	mux.HandleFunc("POST /board/jobs/{id}/notes", h.HandleEditNotes)
	mux.HandleFunc("POST /board/jobs/{id}/move", h.HandleMoveJob)
	mux.HandleFunc("POST /board/jobs/{id}/delete", h.HandleDeleteJob)
	mux.HandleFunc("POST /board/drag/start", h.HandleDragStart)
	mux.HandleFunc("POST /board/drag/over", h.HandleDragOver)
	mux.HandleFunc("POST /board/drag/end", h.HandleDragEnd)

	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	return h.observe(securityHeaders(h.sameOrigin(mux)))
}

// sameOrigin rejects state-changing requests that a browser marks as
// cross-site, or whose Origin names a different host. GET and HEAD pass.
func (h *Handlers) sameOrigin(next http.Handler) http.Handler {
	cop := http.NewCrossOriginProtection()
	cop.SetDenyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.Warn("cross-origin request rejected",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("origin", r.Header.Get("Origin")),
		)
		http.Error(w, "cross-origin request rejected", http.StatusForbidden)
	}))
	return cop.Handler(next)
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// observe tags each request with an id, then logs and counts it.
func (h *Handlers) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		d := time.Since(start)
		h.metrics.ObserveRequest(r.Method, rec.status, d)
		h.log.Debug("request",
			logging.String("request_id", id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("duration", d),
		)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logging.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("jobdork UI running", logging.String("url", "http://"+srv.Addr))

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
