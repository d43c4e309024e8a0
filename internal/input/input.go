// Package input delivers button presses from MQTT and GPIO to the mode
// controller.
package input

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxButton is the highest button index.
const MaxButton = 4

// ErrInvalidButton is returned for payloads that are not a button index.
var ErrInvalidButton = errors.New("invalid button")

// Handler receives button presses.
type Handler interface {
	HandleButton(ctx context.Context, index int) error
}

// Source delivers presses to a handler until ctx is done.
type Source interface {
	Name() string
	Run(ctx context.Context, h Handler) error
}

// ParseButton parses a decimal button index in [0, MaxButton].
func ParseButton(payload []byte) (int, error) {
	s := strings.TrimSpace(string(payload))
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidButton, s)
	}
	if idx < 0 || idx > MaxButton {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidButton, idx)
	}
	return idx, nil
}
