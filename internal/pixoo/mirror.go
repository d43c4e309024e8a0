package pixoo

import (
	"bytes"
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/display"
)

// Mirror is a display sink that shows every frame on a Pixoo64.
type Mirror struct {
	client *Client
	logger zerolog.Logger

	mu    sync.Mutex
	picID int
	last  []byte
}

// NewMirror creates a mirror sink for client.
func NewMirror(client *Client, logger zerolog.Logger) *Mirror {
	return &Mirror{
		client: client,
		logger: logger.With().Str("component", "pixoo").Str("ip", client.IP).Logger(),
	}
}

func (m *Mirror) Name() string { return "pixoo" }

// Present downscales the frame and sends it unless it matches the last one.
func (m *Mirror) Present(ctx context.Context, p display.Presented) error {
	small := Downscale(p.Frame, MirrorSize)

	m.mu.Lock()
	defer m.mu.Unlock()

	if bytes.Equal(small.Pixels, m.last) {
		return nil
	}

	if m.picID == 0 || m.picID >= maxPicID {
		if err := m.client.ResetGifID(ctx); err != nil {
			return err
		}
		m.picID = 0
	}
	m.picID++

	if err := m.client.SendFrame(ctx, small, m.picID); err != nil {
		return err
	}
	m.last = small.Pixels
	m.logger.Debug().Str("mode", p.Mode).Int("pic_id", m.picID).Msg("mirrored frame")
	return nil
}

var _ display.Sink = (*Mirror)(nil)
