package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	Name string

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration

	// MaxRetries after the first attempt.
	MaxRetries uint64

	InitialInterval time.Duration
	MaxInterval     time.Duration

	Breaker *BreakerConfig
}

// DefaultClientConfig returns defaults suited to a small LAN device polling
// a feed every few minutes.
func DefaultClientConfig(name string) ClientConfig {
	br := DefaultBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         5 * time.Second,
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Breaker:         &br,
	}
}

// Client is an HTTP client with circuit breaker and retry logic.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient client, filling unset fields with defaults.
func NewClient(cfg ClientConfig) *Client {
	def := DefaultClientConfig(cfg.Name)
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	if cfg.Breaker == nil {
		cfg.Breaker = def.Breaker
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewBreaker[*http.Response](*cfg.Breaker),
		config:     cfg,
	}
}

// Name returns the client name.
func (c *Client) Name() string {
	return c.config.Name
}

// Do executes req, retrying network errors and 5xx responses with
// exponential backoff. Client errors are returned without retry.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var last *http.Response
	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= http.StatusInternalServerError {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				if last != nil {
					last.Body.Close()
				}
				last = resp
			}
			return err
		}
		if last != nil {
			last.Body.Close()
		}
		last = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if last != nil && !errors.Is(err, ErrCircuitOpen) {
			return last, nil
		}
		if last != nil {
			last.Body.Close()
		}
		return nil, err
	}
	return last, nil
}

// State returns the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// ServerError is an HTTP 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}
