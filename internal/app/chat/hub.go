/*
Package chat contains the core logic for the private-messaging session and
delivery subsystem.

This file defines the Hub, which owns the presence table and implements the
register, private_message, get_history, and disconnect handlers. Every failure
is converted to a chat_error emission on the originating connection only; no
handler error ever tears down the connection or the process.
*/
package chat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"pawchat/internal/app/store"
	"pawchat/internal/app/user"
	"pawchat/internal/pkg/errs"
	"pawchat/internal/pkg/logx"
)

// CredentialVerifier validates a bearer token and returns the subject user id.
// Consumed as a black box; token issuance lives elsewhere.
type CredentialVerifier interface {
	Verify(token string) (int64, error)
}

// Hub coordinates all chat connections of one server instance.
type Hub struct {
	presence *Presence
	store    store.Store
	verifier CredentialVerifier
	logger   zerolog.Logger
}

// NewHub constructs a Hub with a fresh presence table.
func NewHub(st store.Store, verifier CredentialVerifier) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		presence: NewPresence(),
		store:    st,
		verifier: verifier,
		logger:   hubLogger,
	}
}

// Presence exposes the hub's presence table.
func (h *Hub) Presence() *Presence {
	return h.presence
}

// HandleRegister authenticates the connection and binds it to a user identity.
// Credential precedence: explicit token, then plaintext email, then the
// ambient handshake credential. On any failure the connection stays
// unauthenticated and only a chat_error goes back.
func (h *Hub) HandleRegister(ctx context.Context, c *Client, payload json.RawMessage) {
	cred := resolveCredential(payload, c.ambientToken)

	var u *user.User
	var err error

	switch cred.kind {
	case credToken, credAmbient:
		var subject int64
		subject, err = h.verifier.Verify(cred.token)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Register rejected: credential verification failed")
			c.EmitError(errs.NewError(errs.ErrRegistrationFailed))
			return
		}

		u, err = h.store.UserByID(ctx, subject)

	case credEmail:
		u, err = h.store.UserByEmail(ctx, strings.ToLower(cred.email))
	}

	if err != nil {
		c.logger.Error().Err(err).Msg("Register failed: user lookup error")
		c.EmitError(errs.NewError(errs.ErrRegistrationFailed))
		return
	}

	if u == nil {
		c.EmitError(errs.NewError(errs.ErrUserNotFound))
		return
	}

	// Re-registration rebinds the identity and overwrites presence; an evicted
	// connection of the same user is not closed.
	c.user = u
	c.logger = c.logger.With().Int64("user_id", u.ID).Logger()
	h.presence.Set(u.ID, c)

	c.logger.Info().Str("email", u.Email).Msg("Client registered")

	c.Emit(EventRegistered, registeredPayload{User: u})
}

// HandlePrivateMessage validates and persists an outgoing message, then
// delivers it to the sender and, if present, the recipient.
func (h *Hub) HandlePrivateMessage(ctx context.Context, c *Client, payload json.RawMessage) {
	if c.user == nil {
		c.EmitError(errs.NewError(errs.ErrAuthenticationRequired))
		return
	}

	var in privateMessageInput
	if err := json.Unmarshal(payload, &in); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid private_message payload")
		c.EmitError(errs.NewError(errs.ErrMessageSendFailed))
		return
	}

	recipient, targetID, sendErr := h.resolveRecipient(ctx, int64(in.RecipientID), in.To)
	if sendErr != nil {
		c.EmitError(sendErr)
		return
	}

	body := strings.TrimSpace(in.Message)
	if body == "" && isNullJSON(in.SharedPet) {
		c.EmitError(errs.NewError(errs.ErrContentMissing))
		return
	}

	var pet json.RawMessage
	if !isNullJSON(in.SharedPet) {
		pet = in.SharedPet
	}

	// Presence snapshot at persistence time; the flag is never reconsidered.
	delivered := h.presence.Get(targetID) != nil

	row, err := h.store.InsertMessage(ctx, store.InsertMessageParams{
		SenderID:    c.user.ID,
		RecipientID: targetID,
		Body:        body,
		SharedPet:   pet,
		Delivered:   delivered,
	})
	if err != nil {
		c.logger.Error().Err(err).
			Int64("recipient_id", targetID).
			Msg("Failed to persist message")
		c.EmitError(errs.NewError(errs.ErrMessageSendFailed))
		return
	}

	row.SenderEmail = c.user.Email
	row.RecipientEmail = recipient.Email

	// The sender always sees its own message with the store-assigned id and time.
	c.Emit(EventPrivateMessage, row)

	if delivered {
		if peer := h.presence.Get(targetID); peer != nil {
			peer.Emit(EventPrivateMessage, row)
		}
	}
}

// resolveRecipient implements the resolution order: a positive numeric id wins
// and is looked up directly; otherwise a non-empty email is resolved and its id
// becomes authoritative. A recipient that failed the first lookup gets one
// defined fallback lookup by the same id before failing.
func (h *Hub) resolveRecipient(ctx context.Context, targetID int64, to string) (*user.User, int64, *errs.CustomError) {
	var recipient *user.User
	var err error

	if targetID != 0 {
		recipient, err = h.store.UserByID(ctx, targetID)
	} else if to != "" {
		recipient, err = h.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(to)))
		if recipient != nil {
			targetID = recipient.ID
		}
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Recipient lookup error")
		return nil, 0, errs.NewError(errs.ErrMessageSendFailed)
	}

	if targetID == 0 {
		return nil, 0, errs.NewError(errs.ErrRecipientMissing)
	}

	if recipient == nil {
		recipient, err = h.store.UserByID(ctx, targetID)
		if err != nil {
			h.logger.Error().Err(err).Msg("Recipient fallback lookup error")
			return nil, 0, errs.NewError(errs.ErrMessageSendFailed)
		}
	}

	if recipient == nil {
		return nil, 0, errs.NewError(errs.ErrRecipientNotFound)
	}

	return recipient, targetID, nil
}

// HandleGetHistory fetches the full bidirectional conversation between the
// requesting user and the target, oldest first, as a single chat_history event.
func (h *Hub) HandleGetHistory(ctx context.Context, c *Client, payload json.RawMessage) {
	if c.user == nil {
		c.EmitError(errs.NewError(errs.ErrAuthenticationRequired))
		return
	}

	var in historyInput
	if err := json.Unmarshal(payload, &in); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid get_history payload")
		c.EmitError(errs.NewError(errs.ErrHistoryFailed))
		return
	}

	targetID := int64(in.RecipientID)

	if targetID == 0 && in.Recipient != "" {
		lookup, err := h.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Recipient)))
		if err != nil {
			c.logger.Error().Err(err).Msg("History recipient lookup error")
			c.EmitError(errs.NewError(errs.ErrHistoryFailed))
			return
		}
		if lookup != nil {
			targetID = lookup.ID
		}
	}

	if targetID == 0 {
		c.EmitError(errs.NewError(errs.ErrRecipientMissing))
		return
	}

	target, err := h.store.UserByID(ctx, targetID)
	if err != nil {
		c.logger.Error().Err(err).Msg("History target lookup error")
		c.EmitError(errs.NewError(errs.ErrHistoryFailed))
		return
	}
	if target == nil {
		c.EmitError(errs.NewError(errs.ErrRecipientNotFound))
		return
	}

	messages, err := h.store.Conversation(ctx, c.user.ID, targetID)
	if err != nil {
		c.logger.Error().Err(err).
			Int64("recipient_id", targetID).
			Msg("Failed to fetch conversation")
		c.EmitError(errs.NewError(errs.ErrHistoryFailed))
		return
	}

	c.Emit(EventChatHistory, historyPayload{RecipientID: targetID, Messages: messages})
}

// HandleDisconnect removes the connection's presence entry if it had
// registered and still owns it. Idempotent: double-disconnect and
// disconnect-without-register are no-ops.
func (h *Hub) HandleDisconnect(c *Client) {
	if c.user == nil {
		return
	}

	if h.presence.Remove(c.user.ID, c) {
		c.logger.Info().Msg("Client presence entry removed")
	}
}

// Shutdown stops the write pumps of all present connections so the server can
// drain gracefully.
func (h *Hub) Shutdown() {
	clients := h.presence.snapshot()

	for _, c := range clients {
		c.stop()
	}

	h.logger.Info().Int("connections", len(clients)).Msg("Hub shutdown complete.")
}
