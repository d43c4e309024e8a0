// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/storage"

	_ "modernc.org/sqlite"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:")
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path)
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Device methods

func (s *Store) SaveDevice(ctx context.Context, device *storage.Device) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO devices (id, ip, name, type, created_at, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
	`, device.ID, device.IP, device.Name, device.Type, device.CreatedAt.UTC(), device.LastSeen.UTC())
	return err
}

func (s *Store) GetDevice(ctx context.Context, id string) (*storage.Device, error) {
	var device storage.Device
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ip, name, type, created_at, last_seen FROM devices WHERE id = ?
	`, id).Scan(&device.ID, &device.IP, &device.Name, &device.Type, &device.CreatedAt, &device.LastSeen)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "device", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *Store) GetDevices(ctx context.Context) ([]*storage.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ip, name, type, created_at, last_seen FROM devices ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*storage.Device
	for rows.Next() {
		var device storage.Device
		if err := rows.Scan(&device.ID, &device.IP, &device.Name, &device.Type, &device.CreatedAt, &device.LastSeen); err != nil {
			return nil, err
		}
		devices = append(devices, &device)
	}
	return devices, rows.Err()
}

func (s *Store) DeleteDevice(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	return err
}

// Feed state methods

func (s *Store) SaveFeedState(ctx context.Context, state *domain.FeedState) error {
	dataJSON, err := json.Marshal(state.LastData)
	if err != nil {
		return fmt.Errorf("failed to marshal last_data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO feed_state (feed_id, last_run, last_data, error_count, last_error)
		VALUES (?, ?, ?, ?, ?)
	`, state.FeedID, state.LastRun.UTC(), string(dataJSON), state.ErrorCount, state.LastError)
	return err
}

func (s *Store) GetFeedState(ctx context.Context, feedID string) (*domain.FeedState, error) {
	var state domain.FeedState
	var dataJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT feed_id, last_run, last_data, error_count, last_error
		FROM feed_state WHERE feed_id = ?
	`, feedID).Scan(&state.FeedID, &state.LastRun, &dataJSON, &state.ErrorCount, &state.LastError)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "feed_state", ID: feedID}
	}
	if err != nil {
		return nil, err
	}

	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &state.LastData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal last_data: %w", err)
		}
	}

	return &state, nil
}

// Reading methods

func (s *Store) StoreReadings(ctx context.Context, readings []domain.Reading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO readings (metric, timestamp, value)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range readings {
		if _, err := stmt.ExecContext(ctx, string(r.Metric), r.Timestamp.UTC(), r.Value); err != nil {
			return fmt.Errorf("failed to insert %s reading: %w", r.Metric, err)
		}
	}

	return tx.Commit()
}

func (s *Store) QueryHistory(ctx context.Context, metric domain.Metric, since, until time.Time) ([]domain.Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, value FROM readings
		WHERE metric = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, string(metric), since.UTC(), until.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		r := domain.Reading{Metric: metric}
		if err := rows.Scan(&r.Timestamp, &r.Value); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// DeleteOldData removes readings of every metric older than before.
func (s *Store) DeleteOldData(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM readings WHERE timestamp < ?
	`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Frame cache methods

func (s *Store) CacheFrame(ctx context.Context, frame *storage.CachedFrame) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO frame_cache (id, mode, frame_data, generated_at)
		VALUES (1, ?, ?, ?)
	`, frame.Mode, frame.FrameData, frame.GeneratedAt.UTC())
	return err
}

func (s *Store) GetCachedFrame(ctx context.Context) (*storage.CachedFrame, error) {
	var frame storage.CachedFrame
	err := s.db.QueryRowContext(ctx, `
		SELECT mode, frame_data, generated_at FROM frame_cache WHERE id = 1
	`).Scan(&frame.Mode, &frame.FrameData, &frame.GeneratedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "frame_cache", ID: "1"}
	}
	if err != nil {
		return nil, err
	}
	return &frame, nil
}

// Verify interface compliance
var _ storage.Store = (*Store)(nil)
