// Package hub fans dashboard events and mask frames out to websocket
// clients through a single channel-driven loop.
package hub

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/websocket/v2"
)

// ErrEmptyFrame is returned by NewFrame for a zero-length image.
var ErrEmptyFrame = errors.New("empty frame")

// Kind tells the write pump how to frame a Message
type Kind int

const (
	// Event is a JSON document such as a centroid change
	Event Kind = iota
	// Frame is one JPEG image, streamed as a binary message
	Frame
)

func (k Kind) String() string {
	switch k {
	case Event:
		return "event"
	case Frame:
		return "frame"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// opcode is the websocket message type a Kind is written with.
func (k Kind) opcode() int {
	if k == Frame {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Message is one payload queued for every client of a hub
type Message struct {
	Kind Kind
	Data []byte
}

// NewEvent JSON-encodes v
func NewEvent(v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("encode event: %w", err)
	}
	return Message{Kind: Event, Data: data}, nil
}

// NewFrame wraps an encoded JPEG. Browsers render a zero-length blob as a
// broken image, so those are refused.
func NewFrame(jpeg []byte) (Message, error) {
	if len(jpeg) == 0 {
		return Message{}, ErrEmptyFrame
	}
	return Message{Kind: Frame, Data: jpeg}, nil
}
