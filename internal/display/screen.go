// Package display turns layouts into frames and hands them to sinks.
package display

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/metrics"
	"github.com/jwulff/roundel/internal/radial"
	"github.com/jwulff/roundel/internal/surface"
)

// Presented is a frame as it left the screen.
type Presented struct {
	Mode  string
	Frame *domain.Frame
	At    time.Time
}

// Sink receives every presented frame.
type Sink interface {
	Name() string
	Present(ctx context.Context, p Presented) error
}

// Snapshotter is a surface that can copy out its pixels.
type Snapshotter interface {
	Snapshot() *domain.Frame
}

// Message is a single centered line of text on a plain background.
type Message struct {
	Text       string
	Background domain.RGB
	Foreground domain.RGB
	TextSize   int
}

// Config configures a Screen.
type Config struct {
	Surface surface.Surface
	Engine  *radial.Engine
	Sinks   []Sink
	Logger  zerolog.Logger

	// CenterX and CenterY default to the middle of a 240x240 panel.
	CenterX int
	CenterY int
}

// Screen draws onto a surface. Frames are forwarded to sinks only when the
// surface is a Snapshotter.
type Screen struct {
	surface surface.Surface
	engine  *radial.Engine
	logger  zerolog.Logger
	cx, cy  int

	mu     sync.Mutex
	sinks  []Sink
	latest Presented
	now    func() time.Time
}

// New creates a screen.
func New(cfg Config) *Screen {
	engine := cfg.Engine
	if engine == nil {
		engine = radial.NewEngine()
	}
	cx, cy := cfg.CenterX, cfg.CenterY
	if cx == 0 && cy == 0 {
		cx, cy = domain.DisplaySize/2, domain.DisplaySize/2
	}
	return &Screen{
		surface: cfg.Surface,
		engine:  engine,
		logger:  cfg.Logger.With().Str("component", "display").Logger(),
		cx:      cx,
		cy:      cy,
		sinks:   cfg.Sinks,
		now:     time.Now,
	}
}

// Center returns the drawing center.
func (s *Screen) Center() (int, int) {
	return s.cx, s.cy
}

// AddSink registers another frame consumer.
func (s *Screen) AddSink(sink Sink) {
	s.mu.Lock()
	s.sinks = append(s.sinks, sink)
	s.mu.Unlock()
}

// Show renders a layout for the named mode.
func (s *Screen) Show(ctx context.Context, mode string, l radial.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Render(s.surface, l)
	s.present(ctx, mode)
}

// ShowMessage renders a full-screen message for the named mode.
func (s *Screen) ShowMessage(ctx context.Context, mode string, m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.RenderMessage(s.surface, s.cx, s.cy, m.Text, m.Background, m.Foreground, m.TextSize)
	s.present(ctx, mode)
}

// Latest returns the most recently presented frame.
func (s *Screen) Latest() (Presented, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.latest.Frame != nil
}

// present must be called with mu held.
func (s *Screen) present(ctx context.Context, mode string) {
	metrics.Renders.WithLabelValues(mode).Inc()

	snap, ok := s.surface.(Snapshotter)
	if !ok {
		return
	}
	p := Presented{Mode: mode, Frame: snap.Snapshot(), At: s.now()}
	s.latest = p

	for _, sink := range s.sinks {
		if err := sink.Present(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("sink", sink.Name()).Str("mode", mode).Msg("sink failed")
		}
	}
}

// EncodePNG encodes a frame as PNG.
func EncodePNG(f *domain.Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.ToImage()); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
