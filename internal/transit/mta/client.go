// Package mta fetches station arrivals from an MTA JSON proxy.
package mta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/provider/resilience"
	"github.com/jwulff/roundel/internal/transit"
)

const (
	// ProviderName identifies this transit provider.
	ProviderName = "mta"

	// DefaultBaseURL is the proxy address used when none is configured.
	DefaultBaseURL = "http://localhost:3000"
)

// ClientConfig holds configuration for the MTA proxy client.
type ClientConfig struct {
	// BaseURL is the proxy base URL (optional).
	BaseURL string

	// APIKey is sent as x-api-key when set.
	APIKey string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	Logger zerolog.Logger
}

// Client is an MTA proxy client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new MTA proxy client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchStation fetches the arrivals board for a station.
func (c *Client) FetchStation(ctx context.Context, stationID string) (transit.StationData, error) {
	endpoint := fmt.Sprintf("%s/api/mta/station/%s", c.baseURL, url.PathEscape(stationID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return transit.StationData{}, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transit.StationData{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return transit.StationData{}, fmt.Errorf("station %s: %w", stationID, transit.ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return transit.StationData{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body stationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return transit.StationData{}, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Debug().
		Str("station", stationID).
		Int("uptown", len(body.Uptown)).
		Int("downtown", len(body.Downtown)).
		Msg("fetched station arrivals")

	return transit.StationData{
		StationID: stationID,
		Uptown:    toArrivals(body.Uptown),
		Downtown:  toArrivals(body.Downtown),
	}, nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

// toArrivals keeps the first MaxArrivals entries, dropping ones without a route.
func toArrivals(in []arrival) []transit.Arrival {
	out := make([]transit.Arrival, 0, transit.MaxArrivals)
	for _, a := range in {
		if len(out) == transit.MaxArrivals {
			break
		}
		arr := transit.Arrival{
			Route:       a.Route,
			Destination: a.Destination,
			Minutes:     a.Minutes,
		}
		if !arr.Valid() {
			continue
		}
		out = append(out, arr)
	}
	return out
}

type stationResponse struct {
	Uptown   []arrival `json:"uptown"`
	Downtown []arrival `json:"downtown"`
}

type arrival struct {
	Route       string `json:"route"`
	Destination string `json:"destination"`
	Minutes     int    `json:"minutes"`
}

var _ transit.Provider = (*Client)(nil)
