// Package mqtt wraps the paho client used for remote buttons and status LEDs.
package mqtt

import (
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBroker is used when no broker URL is configured.
const DefaultBroker = "tcp://localhost:1883"

// Config configures a broker connection.
type Config struct {
	BrokerURL string
	ClientID  string
	Logger    zerolog.Logger

	// OnConnect and OnConnectionLost observe the connection state.
	OnConnect        func()
	OnConnectionLost func(err error)
}

// Client is a connected MQTT client.
type Client struct {
	client paho.Client
	logger zerolog.Logger
}

// BrokerURL normalizes a broker address to the tcp:// form paho expects.
func BrokerURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return DefaultBroker
	}
	if strings.HasPrefix(url, "mqtt://") {
		return "tcp://" + strings.TrimPrefix(url, "mqtt://")
	}
	if !strings.Contains(url, "://") {
		return "tcp://" + url
	}
	return url
}

// Connect dials the broker, retrying in the background after the first
// successful connection.
func Connect(cfg Config) (*Client, error) {
	logger := cfg.Logger.With().Str("component", "mqtt").Logger()

	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		clientID = "roundel-" + uuid.NewString()[:8]
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(BrokerURL(cfg.BrokerURL))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Warn().Err(err).Msg("mqtt connection lost")
		if cfg.OnConnectionLost != nil {
			cfg.OnConnectionLost(err)
		}
	}
	opts.OnConnect = func(_ paho.Client) {
		logger.Info().Str("client_id", clientID).Msg("mqtt connected")
		if cfg.OnConnect != nil {
			cfg.OnConnect()
		}
	}

	c := paho.NewClient(opts)
	tok := c.Connect()
	if ok := tok.WaitTimeout(15 * time.Second); !ok {
		return nil, fmt.Errorf("failed to connect to %s: timeout", BrokerURL(cfg.BrokerURL))
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", BrokerURL(cfg.BrokerURL), err)
	}
	return &Client{client: c, logger: logger}, nil
}

// Subscribe delivers payloads published on topic to handler.
func (c *Client) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	tok := c.client.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	tok.Wait()
	return tok.Error()
}

// Unsubscribe stops delivery for topic.
func (c *Client) Unsubscribe(topic string) error {
	tok := c.client.Unsubscribe(topic)
	tok.Wait()
	return tok.Error()
}

// Publish sends payload on topic with QoS 0, retained.
func (c *Client) Publish(topic string, payload []byte) error {
	tok := c.client.Publish(topic, 0, true, payload)
	tok.Wait()
	return tok.Error()
}

func (c *Client) Close() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Disconnect(1000)
}
