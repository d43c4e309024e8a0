// Package storage provides storage abstractions for the roundel daemon.
package storage

import (
	"context"
	"time"

	"github.com/jwulff/roundel/internal/domain"
)

// Store is the interface for persistent storage.
type Store interface {
	// Feed state
	GetFeedState(ctx context.Context, feedID string) (*domain.FeedState, error)
	SaveFeedState(ctx context.Context, state *domain.FeedState) error

	// Sensor history
	StoreReadings(ctx context.Context, readings []domain.Reading) error
	QueryHistory(ctx context.Context, metric domain.Metric, since, until time.Time) ([]domain.Reading, error)
	DeleteOldData(ctx context.Context, before time.Time) (int64, error)

	// Frame cache
	CacheFrame(ctx context.Context, frame *CachedFrame) error
	GetCachedFrame(ctx context.Context) (*CachedFrame, error)

	// Device management
	SaveDevice(ctx context.Context, device *Device) error
	GetDevice(ctx context.Context, id string) (*Device, error)
	GetDevices(ctx context.Context) ([]*Device, error)
	DeleteDevice(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}

// CachedFrame is the last frame presented, encoded as PNG.
type CachedFrame struct {
	Mode        string
	FrameData   []byte
	GeneratedAt time.Time
}

// Device represents a discovered mirror display.
type Device struct {
	ID        string
	IP        string
	Name      string
	Type      string
	CreatedAt time.Time
	LastSeen  time.Time
}

// NewDevice creates a new device record.
func NewDevice(id, ip, name, deviceType string) *Device {
	now := time.Now()
	return &Device{
		ID:        id,
		IP:        ip,
		Name:      name,
		Type:      deviceType,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}
