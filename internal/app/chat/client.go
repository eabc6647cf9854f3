/*
Package chat contains the core logic for the private-messaging session and
delivery subsystem.

This file defines the Client struct, representing one active WebSocket
connection. It manages the connection lifecycle, the read and write pumps, and
framing of outbound events. Events read from one connection are handled
strictly one at a time, so no two handler bodies for the same connection ever
overlap.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pawchat/internal/app/user"
	"pawchat/internal/pkg/errs"
	"pawchat/internal/pkg/logx"
	"pawchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 16384

	// capacity of the per-client outbound queue.
	sendQueueSize = 256
)

// Client represents an active WebSocket connection and, once registered, its
// bound user identity.
type Client struct {
	// the hub coordinating presence and dispatch.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// connID identifies this connection in logs and presence ownership checks.
	connID string

	// ambientToken is the credential extracted from the connection handshake,
	// used when register is called with no payload.
	ambientToken string

	// user is the bound identity; nil until a successful register event.
	// Written only by the connection's own read loop.
	user *user.User

	// send queues frames waiting to be written to the connection.
	send chan []byte

	// done signals the write pump to stop; closed exactly once.
	done      chan struct{}
	closeOnce sync.Once

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. The ambient token
// may be empty when the handshake carried no credential.
func NewClient(hub *Hub, conn *websocket.Conn, ambientToken string) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Logger()

	return &Client{
		hub:          hub,
		conn:         conn,
		connID:       connID,
		ambientToken: ambientToken,
		send:         make(chan []byte, sendQueueSize),
		done:         make(chan struct{}),
		logger:       clientLogger,
	}
}

// ReadPump reads frames from the connection and dispatches them to the hub.
// It handles heartbeats (Pong) and performs cleanup when the connection closes.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect runs when the read pump terminates: the hub drops the
// presence entry (if this connection still owns it) and the connection closes.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.HandleDisconnect(c)

	c.stop()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// stop signals the write pump to terminate. Safe to call more than once.
func (c *Client) stop() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// processInboundMessage decodes one envelope and routes it to the hub handler
// for its event. Each store interaction inside a handler may block; only this
// connection's loop waits on it.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var envelope Envelope

	if err := json.Unmarshal(messageBytes, &envelope); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	ctx := context.Background()

	switch envelope.Event {
	case EventRegister:
		c.hub.HandleRegister(ctx, c, envelope.Payload)

	case EventPrivateMessage:
		c.hub.HandlePrivateMessage(ctx, c, envelope.Payload)

	case EventGetHistory:
		c.hub.HandleGetHistory(ctx, c, envelope.Payload)

	default:
		c.logger.Warn().Str("event", envelope.Event).Msg("Client sent unsupported event")
	}
}

// WritePump writes queued frames to the connection and keeps the heartbeat going.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message := <-c.send:
			if !c.writeQueuedMessage(message) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing close message")
			}
			return
		}
	}
}

// writeQueuedMessage writes one frame pulled from the send queue.
// Returns false if the WritePump loop should terminate.
func (c *Client) writeQueuedMessage(message []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic Ping to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// Emit marshals an event envelope and queues it for this connection.
// A full queue or a closing connection drops the frame rather than blocking
// the emitting handler.
func (c *Client) Emit(event string, payload any) {
	messageBytes, err := json.Marshal(outboundEnvelope{Event: event, Payload: payload})
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling outbound event")
		return
	}

	select {
	case <-c.done:
		c.logger.Debug().Str("event", event).Msg("Connection closing, dropping outbound event")
	case c.send <- messageBytes:
	default:
		c.logger.Warn().
			Str("event", event).
			Int("queue_len", len(c.send)).
			Msg("Client send queue full, dropping event")
	}
}

// EmitError sends a chat_error event carrying only the client-facing message string.
func (c *Client) EmitError(customErr *errs.CustomError) {
	c.Emit(EventChatError, customErr.Message)
}
