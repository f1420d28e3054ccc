package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/image/bmp"

	"epdgfx/internal/config"
	"epdgfx/internal/convert"
	"epdgfx/internal/gfx"
	appLog "epdgfx/internal/log"
	"epdgfx/internal/scene"
)

// RefreshFunc pushes a fresh frame to the panel.
type RefreshFunc func(ctx context.Context) error

// Server exposes a preview of the scene and a manual refresh trigger.
type Server struct {
	cfg     *config.Config
	scene   *scene.Scene
	refresh RefreshFunc
	mux     *http.ServeMux

	// now is the clock used for snapshots; tests replace it.
	now func() time.Time

	// Rendered previews are cached briefly so that repeated requests do
	// not rasterize the whole canvas each time.
	previewMu    sync.Mutex
	previewCache *previewCache

	// refreshMu serializes manual refreshes.
	refreshMu sync.Mutex
}

type previewCache struct {
	img        *image.Gray
	renderedAt time.Time
}

const previewCacheTTL = 30 * time.Second

// NewServer constructs a new Server. refresh may be nil, in which case
// /api/refresh answers 503.
func NewServer(cfg *config.Config, sc *scene.Scene, refresh RefreshFunc) *Server {
	s := &Server{
		cfg:     cfg,
		scene:   sc,
		refresh: refresh,
		mux:     http.NewServeMux(),
		now:     time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password disables auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="epdgfx", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve listens on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.HandleFunc("/preview.bmp", s.handlePreview)
	s.mux.HandleFunc("/api/scene", s.handleScene)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePreview renders the scene as it would look right now, without
// the panel's mirroring, and encodes it by the requested extension.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	img := s.preview()

	var buf bytes.Buffer
	var err error
	contentType := "image/png"
	if r.URL.Path == "/preview.bmp" {
		contentType = "image/bmp"
		err = bmp.Encode(&buf, img)
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		appLog.Error("preview encode failed", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "preview encode failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Server) preview() *image.Gray {
	s.previewMu.Lock()
	defer s.previewMu.Unlock()

	now := s.now()
	if pc := s.previewCache; pc != nil && now.Sub(pc.renderedAt) < previewCacheTTL {
		return pc.img
	}

	start := time.Now()
	p := s.cfg.Panel
	frame := gfx.NewFrame(p.Width, p.Height, s.scene.Snapshot(now))
	img := convert.Rasterize(frame, p.ChunkRows)
	appLog.Debug("preview rendered", "width", p.Width, "height", p.Height, "elapsed", time.Since(start))

	s.previewCache = &previewCache{img: img, renderedAt: now}
	return img
}

type sceneDTO struct {
	Panel config.Panel  `json:"panel"`
	Items []config.Item `json:"items"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, sceneDTO{Panel: s.cfg.Panel, Items: s.cfg.Scene})
}

type refreshDTO struct {
	OK        bool  `json:"ok"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// handleRefresh runs one panel refresh synchronously. Concurrent requests
// wait for the running one.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.refresh == nil {
		writeError(w, http.StatusServiceUnavailable, "no panel attached")
		return
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	if err := s.refresh(r.Context()); err != nil {
		appLog.Error("manual refresh failed", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, refreshDTO{OK: true, ElapsedMs: time.Since(start).Milliseconds()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to encode JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
