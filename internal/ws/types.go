package ws

import (
	"encoding/json"
	"fmt"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeMove        MessageType = "move"
	MessageTypeNewGame     MessageType = "newGame"
	MessageTypeConfigureAI MessageType = "configureAI"

	// server -> client
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: raw}, nil
}

// ErrorMessage never fails to build since ErrorPayload always marshals.
func ErrorMessage(text string) Message {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{Message: text})
	return msg
}
