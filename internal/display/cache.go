package display

import (
	"context"

	"github.com/jwulff/roundel/internal/storage"
)

// FrameCacher stores the last frame.
type FrameCacher interface {
	CacheFrame(ctx context.Context, frame *storage.CachedFrame) error
}

// FrameCache persists each frame so a restart or preview can show it.
type FrameCache struct {
	store FrameCacher
}

// NewFrameCache creates a sink writing to store.
func NewFrameCache(store FrameCacher) *FrameCache {
	return &FrameCache{store: store}
}

func (c *FrameCache) Name() string { return "frame_cache" }

func (c *FrameCache) Present(ctx context.Context, p Presented) error {
	data, err := EncodePNG(p.Frame)
	if err != nil {
		return err
	}
	return c.store.CacheFrame(ctx, &storage.CachedFrame{
		Mode:        p.Mode,
		FrameData:   data,
		GeneratedAt: p.At,
	})
}

var _ Sink = (*FrameCache)(nil)
