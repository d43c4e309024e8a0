package pixoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/provider/resilience"
)

// DefaultPort is the default Pixoo HTTP API port.
const DefaultPort = 80

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 2 * time.Second

// Client is an HTTP client for communicating with Pixoo devices.
type Client struct {
	IP         string
	Port       int
	httpClient *resilience.Client
	baseURL    string
}

// NewClient creates a new Pixoo client with default settings.
func NewClient(ip string) *Client {
	return NewClientWithTimeout(ip, DefaultPort, DefaultTimeout)
}

// NewClientWithTimeout creates a client with a custom port and per-request timeout.
// Requests are not retried: a missed mirror frame is replaced by the next one.
func NewClientWithTimeout(ip string, port int, timeout time.Duration) *Client {
	cfg := resilience.DefaultClientConfig("pixoo-" + ip)
	cfg.Timeout = timeout
	cfg.MaxRetries = 0
	return &Client{
		IP:         ip,
		Port:       port,
		httpClient: resilience.NewClient(cfg),
	}
}

// Endpoint returns the full API endpoint URL.
func (c *Client) Endpoint() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("http://%s:%d/post", c.IP, c.Port)
}

// sendCommand sends a command to the Pixoo device.
func (c *Client) sendCommand(ctx context.Context, command any) ([]byte, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// SendFrame sends a 64x64 frame as picture picID.
func (c *Client) SendFrame(ctx context.Context, frame *domain.Frame, picID int) error {
	if frame.Width != MirrorSize || frame.Height != MirrorSize {
		return fmt.Errorf("frame must be %dx%d, got %dx%d", MirrorSize, MirrorSize, frame.Width, frame.Height)
	}
	_, err := c.sendCommand(ctx, CreateFrameCommand(frame, picID))
	return err
}

// ResetGifID resets the device's animation counter.
func (c *Client) ResetGifID(ctx context.Context) error {
	_, err := c.sendCommand(ctx, CreateResetGifIDCommand())
	return err
}

// GetDeviceTime queries the device time.
func (c *Client) GetDeviceTime(ctx context.Context) ([]byte, error) {
	return c.sendCommand(ctx, CreateDeviceTimeCommand())
}

// SetBrightness sets the display brightness (0-100).
func (c *Client) SetBrightness(ctx context.Context, brightness int) error {
	_, err := c.sendCommand(ctx, CreateBrightnessCommand(brightness))
	return err
}

// IsReachable checks if the device is reachable.
func (c *Client) IsReachable(ctx context.Context) bool {
	_, err := c.GetDeviceTime(ctx)
	return err == nil
}
