/*
Package chat contains the core logic for the private-messaging session and
delivery subsystem: connection registration, presence tracking, message
dispatch, and history retrieval.

This file defines the wire protocol: the event envelope exchanged over the
WebSocket and the inbound/outbound payload shapes.
*/
package chat

import (
	"encoding/json"
	"strconv"
	"strings"

	"pawchat/internal/app/store"
	"pawchat/internal/app/user"
)

// Inbound event names (client → server).
const (
	EventRegister       = "register"
	EventPrivateMessage = "private_message"
	EventGetHistory     = "get_history"
)

// Outbound event names (server → client).
const (
	EventRegistered  = "registered"
	EventChatHistory = "chat_history"
	EventChatError   = "chat_error"
)

// Envelope is the frame exchanged in both directions over the WebSocket.
// Inbound payloads stay raw until the event-specific handler decodes them.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outboundEnvelope carries an already-typed payload for marshaling.
type outboundEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// looseID accepts a recipient id as a JSON number or a numeric string.
// Anything non-numeric or non-positive decodes to zero, meaning absent.
type looseID int64

func (l *looseID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		*l = 0
		return nil
	}

	*l = looseID(id)
	return nil
}

// privateMessageInput is the payload of an inbound private_message event.
type privateMessageInput struct {
	RecipientID looseID         `json:"recipientId"`
	To          string          `json:"to"`
	Message     string          `json:"message"`
	SharedPet   json.RawMessage `json:"sharedPet"`
}

// historyInput is the payload of an inbound get_history event.
type historyInput struct {
	RecipientID looseID `json:"recipientId"`
	Recipient   string  `json:"recipient"`
}

// registeredPayload acknowledges a successful registration.
type registeredPayload struct {
	User *user.User `json:"user"`
}

// historyPayload carries a full ordered conversation.
type historyPayload struct {
	RecipientID int64           `json:"recipientId"`
	Messages    []store.Message `json:"messages"`
}

// isNullJSON reports whether a raw value is absent or the JSON literal null.
func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
