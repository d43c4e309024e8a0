// Package httpapi serves the local control and preview API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/metrics"
	"github.com/jwulff/roundel/internal/mode"
	"github.com/jwulff/roundel/internal/storage"
)

// Controller is the part of the mode controller the API drives.
type Controller interface {
	Status() mode.Status
	HandleButton(ctx context.Context, index int) error
}

// FrameSource returns the last presented frame.
type FrameSource interface {
	Latest() (display.Presented, bool)
}

// FrameStore returns the frame persisted by an earlier run.
type FrameStore interface {
	GetCachedFrame(ctx context.Context) (*storage.CachedFrame, error)
}

// FeedStore reads the persisted refresh state of external feeds.
type FeedStore interface {
	GetFeedState(ctx context.Context, feedID string) (*domain.FeedState, error)
}

// HistoryReader queries stored sensor readings.
type HistoryReader interface {
	QueryHistory(ctx context.Context, metric domain.Metric, since, until time.Time) ([]domain.Reading, error)
}

// Config configures the API server.
type Config struct {
	Controller Controller
	Frames     FrameSource
	Hub        *Hub
	Logger     zerolog.Logger

	// StoredFrames serves /frame.png before the first render of this run.
	StoredFrames FrameStore

	// Feeds and FeedIDs back /feeds. Both are optional.
	Feeds   FeedStore
	FeedIDs []string

	// History backs /history when set.
	History HistoryReader

	// ButtonLimit caps button presses per client per second (default 10).
	ButtonLimit int

	// MaxButton is the highest accepted button index (default 4).
	MaxButton int
}

// Server is the HTTP API.
type Server struct {
	controller  Controller
	frames      FrameSource
	stored      FrameStore
	feeds       FeedStore
	feedIDs     []string
	history     HistoryReader
	hub         *Hub
	logger      zerolog.Logger
	buttonLimit int
	maxButton   int
}

// NewServer creates the API server.
func NewServer(cfg Config) *Server {
	s := &Server{
		controller:  cfg.Controller,
		frames:      cfg.Frames,
		stored:      cfg.StoredFrames,
		feeds:       cfg.Feeds,
		feedIDs:     cfg.FeedIDs,
		history:     cfg.History,
		hub:         cfg.Hub,
		logger:      cfg.Logger.With().Str("component", "httpapi").Logger(),
		buttonLimit: cfg.ButtonLimit,
		maxButton:   cfg.MaxButton,
	}
	if s.buttonLimit <= 0 {
		s.buttonLimit = 10
	}
	if s.maxButton <= 0 {
		s.maxButton = 4
	}
	return s
}

// Router builds the chi router with every route mounted.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/frame.png", s.handleFrame)
	r.With(httprate.Limit(s.buttonLimit, time.Second,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
	)).Post("/buttons/{index}", s.handleButton)
	if s.feeds != nil {
		r.Get("/feeds", s.handleFeeds)
	}
	if s.history != nil {
		r.Get("/history", s.handleHistory)
	}
	r.Handle("/metrics", metrics.Handler())
	if s.hub != nil {
		r.Handle("/ws", s.hub)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	p, ok := s.frames.Latest()
	if !ok {
		s.serveStoredFrame(w, r)
		return
	}
	data, err := display.EncodePNG(p.Frame)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode frame")
		writeError(w, http.StatusInternalServerError, "failed to encode frame")
		return
	}
	writePNG(w, p.Mode, data)
}

func (s *Server) serveStoredFrame(w http.ResponseWriter, r *http.Request) {
	if s.stored == nil {
		writeError(w, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	cached, err := s.stored.GetCachedFrame(r.Context())
	if err != nil {
		if !storage.IsNotFound(err) {
			s.logger.Warn().Err(err).Msg("failed to load cached frame")
		}
		writeError(w, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	w.Header().Set("X-Roundel-Cached", cached.GeneratedAt.UTC().Format(time.RFC3339))
	writePNG(w, cached.Mode, cached.FrameData)
}

func writePNG(w http.ResponseWriter, modeName string, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Roundel-Mode", modeName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// FeedStatus is one entry of the /feeds response.
type FeedStatus struct {
	Feed       string    `json:"feed"`
	Healthy    bool      `json:"healthy"`
	LastRun    time.Time `json:"last_run"`
	ErrorCount int       `json:"error_count"`
	LastError  string    `json:"last_error,omitempty"`
}

func (s *Server) handleFeeds(w http.ResponseWriter, r *http.Request) {
	feeds := make([]FeedStatus, 0, len(s.feedIDs))
	for _, id := range s.feedIDs {
		state, err := s.feeds.GetFeedState(r.Context(), id)
		if storage.IsNotFound(err) {
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Str("feed", id).Msg("failed to load feed state")
			writeError(w, http.StatusInternalServerError, "failed to load feed state")
			return
		}
		feeds = append(feeds, FeedStatus{
			Feed:       state.FeedID,
			Healthy:    state.Healthy(),
			LastRun:    state.LastRun,
			ErrorCount: state.ErrorCount,
			LastError:  state.LastError,
		})
	}
	writeJSON(w, http.StatusOK, feeds)
}

// HistoryPoint is one reading in the /history response.
type HistoryPoint struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// defaultHistoryWindow is how far back /history looks without ?since=.
const defaultHistoryWindow = 24 * time.Hour

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	metric := domain.Metric(r.URL.Query().Get("metric"))
	switch metric {
	case domain.MetricTemperature, domain.MetricHumidity, domain.MetricLight, domain.MetricPressure:
	default:
		writeError(w, http.StatusBadRequest, "unknown metric")
		return
	}

	window := defaultHistoryWindow
	if v := r.URL.Query().Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "invalid since duration")
			return
		}
		window = d
	}

	until := time.Now()
	readings, err := s.history.QueryHistory(r.Context(), metric, until.Add(-window), until)
	if err != nil {
		s.logger.Error().Err(err).Str("metric", string(metric)).Msg("failed to query history")
		writeError(w, http.StatusInternalServerError, "failed to query history")
		return
	}

	points := make([]HistoryPoint, 0, len(readings))
	for _, rd := range readings {
		points = append(points, HistoryPoint{At: rd.Timestamp, Value: rd.Value})
	}
	writeJSON(w, http.StatusOK, map[string]any{"metric": metric, "readings": points})
}

func (s *Server) handleButton(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index > s.maxButton {
		writeError(w, http.StatusBadRequest, "invalid button index")
		return
	}

	// A press runs to completion even if the client hangs up.
	if err := s.controller.HandleButton(context.WithoutCancel(r.Context()), index); err != nil {
		if errors.Is(err, mode.ErrModeUnavailable) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.Broadcast(Event{Type: EventButton, Button: &index})
	}
	writeJSON(w, http.StatusAccepted, s.controller.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each completed request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		})
	}
}
