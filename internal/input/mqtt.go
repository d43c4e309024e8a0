package input

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultButtonTopic is where remote button presses are published.
const DefaultButtonTopic = "roundel/buttons"

// Subscriber is the MQTT client surface used for buttons.
type Subscriber interface {
	Subscribe(topic string, handler func(topic string, payload []byte)) error
	Unsubscribe(topic string) error
}

// MQTTButtons turns messages on a topic into button presses. The payload is
// the button index as decimal text.
type MQTTButtons struct {
	sub    Subscriber
	topic  string
	logger zerolog.Logger
}

// NewMQTTButtons creates an MQTT button source.
func NewMQTTButtons(sub Subscriber, topic string, logger zerolog.Logger) *MQTTButtons {
	if topic == "" {
		topic = DefaultButtonTopic
	}
	return &MQTTButtons{
		sub:    sub,
		topic:  topic,
		logger: logger.With().Str("component", "mqtt_buttons").Str("topic", topic).Logger(),
	}
}

func (m *MQTTButtons) Name() string { return "mqtt" }

// Run subscribes and blocks until ctx is done.
func (m *MQTTButtons) Run(ctx context.Context, h Handler) error {
	err := m.sub.Subscribe(m.topic, func(_ string, payload []byte) {
		idx, err := ParseButton(payload)
		if err != nil {
			m.logger.Warn().Err(err).Msg("ignoring button message")
			return
		}
		if err := h.HandleButton(ctx, idx); err != nil {
			m.logger.Warn().Err(err).Int("button", idx).Msg("button not handled")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", m.topic, err)
	}

	<-ctx.Done()
	if err := m.sub.Unsubscribe(m.topic); err != nil {
		m.logger.Debug().Err(err).Msg("unsubscribe failed")
	}
	return nil
}
