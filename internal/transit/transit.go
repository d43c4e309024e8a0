// Package transit holds subway arrival data for a single station.
package transit

import (
	"context"
	"errors"
	"time"
)

// MaxArrivals is the number of arrivals kept per direction.
const MaxArrivals = 3

// FreshWindow is how long a successful refresh stays displayable.
const FreshWindow = 5 * time.Minute

// ErrNoData is returned when a provider has nothing for a station.
var ErrNoData = errors.New("no transit data")

// Direction of travel on the line.
type Direction int

const (
	Uptown Direction = iota
	Downtown
)

func (d Direction) String() string {
	if d == Downtown {
		return "downtown"
	}
	return "uptown"
}

// Label is the on-screen direction name.
func (d Direction) Label() string {
	if d == Downtown {
		return "DOWNTOWN"
	}
	return "UPTOWN"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Uptown {
		return Downtown
	}
	return Uptown
}

// Arrival is one upcoming train.
type Arrival struct {
	Route       string `json:"route"`
	Destination string `json:"destination"`
	Minutes     int    `json:"minutes"`
}

// Valid reports whether the arrival names a route and a non-negative wait.
// Invalid entries keep their slot on the board but are never drawn.
func (a Arrival) Valid() bool {
	return a.Route != "" && a.Minutes >= 0
}

// StationData is the arrivals board for a station in both directions.
type StationData struct {
	StationID string    `json:"station_id"`
	Uptown    []Arrival `json:"uptown"`
	Downtown  []Arrival `json:"downtown"`
	UpdatedAt time.Time `json:"updated_at"`
}

// For returns the arrivals heading in dir.
func (d StationData) For(dir Direction) []Arrival {
	if dir == Downtown {
		return d.Downtown
	}
	return d.Uptown
}

// Empty reports whether neither direction has arrivals.
func (d StationData) Empty() bool {
	return len(d.Uptown) == 0 && len(d.Downtown) == 0
}

// Truncate keeps at most MaxArrivals per direction.
func (d StationData) Truncate() StationData {
	d.Uptown = truncate(d.Uptown)
	d.Downtown = truncate(d.Downtown)
	return d
}

func truncate(arrivals []Arrival) []Arrival {
	n := len(arrivals)
	if n > MaxArrivals {
		n = MaxArrivals
	}
	out := make([]Arrival, n)
	copy(out, arrivals[:n])
	return out
}

// Provider fetches arrivals from a transit backend.
type Provider interface {
	Name() string
	FetchStation(ctx context.Context, stationID string) (StationData, error)
}
