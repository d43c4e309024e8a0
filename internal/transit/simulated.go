package transit

import (
	"context"
	"sync"
)

// Simulated serves a fixed arrivals board. It stands in for a backend on
// development machines.
type Simulated struct {
	mu   sync.Mutex
	data StationData
	err  error
}

// NewSimulated returns F train arrivals for Roosevelt Island.
func NewSimulated() *Simulated {
	return &Simulated{
		data: StationData{
			Uptown: []Arrival{
				{Route: "F", Destination: "179 St", Minutes: 2},
				{Route: "F", Destination: "179 St", Minutes: 8},
				{Route: "F", Destination: "179 St", Minutes: 15},
			},
			Downtown: []Arrival{
				{Route: "F", Destination: "Coney Island", Minutes: 4},
				{Route: "F", Destination: "Coney Island", Minutes: 11},
				{Route: "F", Destination: "Coney Island", Minutes: 18},
			},
		},
	}
}

// Set replaces the served board.
func (s *Simulated) Set(data StationData) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Fail makes subsequent fetches return err; nil restores normal operation.
func (s *Simulated) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Simulated) Name() string { return "simulated" }

func (s *Simulated) FetchStation(ctx context.Context, stationID string) (StationData, error) {
	if err := ctx.Err(); err != nil {
		return StationData{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return StationData{}, s.err
	}
	data := s.data
	data.StationID = stationID
	data.Uptown = append([]Arrival(nil), s.data.Uptown...)
	data.Downtown = append([]Arrival(nil), s.data.Downtown...)
	return data, nil
}

var _ Provider = (*Simulated)(nil)
