package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawchat/internal/app/chat"
	"pawchat/internal/app/store"
	"pawchat/internal/configs"
	"pawchat/internal/pkg/auth/jwt"
)

// wsEnvelope mirrors the wire frame for test assertions.
type wsEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func startServer(t *testing.T) (*httptest.Server, *store.Memory, *configs.AppConfig) {
	t.Helper()

	st := store.NewMemory()
	cfg := &configs.AppConfig{
		Environment: "development",
		JWTSecret:   "test-secret",
	}

	hub := chat.NewHub(st, jwt.Verifier{Secret: cfg.JWTSecret})

	srv := httptest.NewServer(Router(&AppDeps{
		Hub:    hub,
		Config: cfg,
		Store:  st,
	}))
	t.Cleanup(srv.Close)

	return srv, st, cfg
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()

	raw, err := json.Marshal(map[string]any{"event": event, "payload": payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env wsEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))

	return env
}

func TestWebSocketMessageExchange(t *testing.T) {
	srv, st, _ := startServer(t)

	_, err := st.CreateUser(context.Background(), "ada@example.com", "hash")
	require.NoError(t, err)
	ben, err := st.CreateUser(context.Background(), "ben@example.com", "hash")
	require.NoError(t, err)

	ada := dialWS(t, srv)
	benConn := dialWS(t, srv)

	sendEvent(t, ada, chat.EventRegister, "ada@example.com")
	env := readEvent(t, ada)
	require.Equal(t, chat.EventRegistered, env.Event)

	sendEvent(t, benConn, chat.EventRegister, "ben@example.com")
	env = readEvent(t, benConn)
	require.Equal(t, chat.EventRegistered, env.Event)

	sendEvent(t, ada, chat.EventPrivateMessage, map[string]any{
		"recipientId": ben.ID,
		"message":     "hi, is the tabby still available?",
	})

	// Sender echo carries the persisted message.
	env = readEvent(t, ada)
	require.Equal(t, chat.EventPrivateMessage, env.Event)

	var echoed store.Message
	require.NoError(t, json.Unmarshal(env.Payload, &echoed))
	assert.Equal(t, "hi, is the tabby still available?", echoed.Body)
	assert.Equal(t, "ada@example.com", echoed.SenderEmail)
	assert.Equal(t, "ben@example.com", echoed.RecipientEmail)

	// Recipient receives the identical message in real time.
	env = readEvent(t, benConn)
	require.Equal(t, chat.EventPrivateMessage, env.Event)

	var received store.Message
	require.NoError(t, json.Unmarshal(env.Payload, &received))
	assert.Equal(t, echoed.ID, received.ID)
	assert.Equal(t, echoed.Body, received.Body)
}

func TestWebSocketAmbientCredential(t *testing.T) {
	srv, st, cfg := startServer(t)

	u, err := st.CreateUser(context.Background(), "ada@example.com", "hash")
	require.NoError(t, err)

	token, err := jwt.GenerateToken(&jwt.Claims{ID: u.ID, Email: u.Email}, cfg.JWTSecret, jwt.SessionExpiration)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := map[string][]string{"Cookie": {jwt.SessionCookieName + "=" + token}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	// register with no payload binds the handshake session.
	sendEvent(t, conn, chat.EventRegister, nil)
	env := readEvent(t, conn)
	require.Equal(t, chat.EventRegistered, env.Event)

	var ack struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &ack))
	assert.Equal(t, "ada@example.com", ack.User.Email)
}

func TestWebSocketUnauthenticatedSend(t *testing.T) {
	srv, _, _ := startServer(t)

	conn := dialWS(t, srv)

	sendEvent(t, conn, chat.EventPrivateMessage, map[string]any{
		"message": "hello",
	})

	env := readEvent(t, conn)
	require.Equal(t, chat.EventChatError, env.Event)

	var msg string
	require.NoError(t, json.Unmarshal(env.Payload, &msg))
	assert.Equal(t, "Authentication required.", msg)
}
