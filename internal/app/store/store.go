/*
Package store provides persistent storage for users and messages.

It defines the Store interface consumed by the chat hub and the REST handlers,
with a PostgreSQL implementation for production and an in-memory implementation
for tests.
*/
package store

import (
	"context"
	"encoding/json"
	"time"

	"pawchat/internal/app/user"
)

// Message is the flattened message representation sent over the wire,
// joining sender and recipient emails to the stored row.
type Message struct {
	ID             int64           `json:"id"`
	SenderID       int64           `json:"senderId"`
	SenderEmail    string          `json:"senderEmail"`
	RecipientID    int64           `json:"recipientId"`
	RecipientEmail string          `json:"recipientEmail"`
	Body           string          `json:"message"`
	SharedPet      json.RawMessage `json:"sharedPet"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// InsertMessageParams carries the values persisted for one dispatched message.
// Delivered is the presence snapshot taken at persistence time and is never
// updated afterwards.
type InsertMessageParams struct {
	SenderID    int64
	RecipientID int64
	Body        string
	SharedPet   json.RawMessage
	Delivered   bool
}

// Credentials pairs a user identity with its password hash for login checks.
type Credentials struct {
	User         user.User
	PasswordHash string
}

// Store defines the query contract this subsystem consumes.
// Lookup methods return (nil, nil) when no row matches; errors indicate a
// store failure, not a miss. Email lookups are case-insensitive.
type Store interface {
	// UserByID resolves a user by its store-assigned id.
	UserByID(ctx context.Context, id int64) (*user.User, error)

	// UserByEmail resolves a user by email.
	UserByEmail(ctx context.Context, email string) (*user.User, error)

	// CreateUser inserts a new account and returns the created identity.
	CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error)

	// CredentialsByEmail fetches a user together with its password hash.
	CredentialsByEmail(ctx context.Context, email string) (*Credentials, error)

	// InsertMessage persists one message and returns the stored row with its
	// assigned id and timestamp. Sender and recipient emails are left for the
	// caller to fill in from the identities it already resolved.
	InsertMessage(ctx context.Context, p InsertMessageParams) (*Message, error)

	// Conversation returns every message exchanged between the two users in
	// either direction, ordered by creation time ascending, with emails joined in.
	Conversation(ctx context.Context, userID, otherID int64) ([]Message, error)
}
