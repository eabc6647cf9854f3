/*
Package user contains the core data structure for user identity.

Users are owned by the account store; this subsystem only reads them to bind a
connection to an identity and to resolve message recipients.
*/
package user

// User is the identity attached to a registered connection and referenced by
// every message row. Fields use JSON tags for serialization in WebSocket messages.
type User struct {
	// ID is the store-assigned unique identifier for the user.
	ID int64 `json:"id"`

	// Email is the user's address, unique case-insensitively, also usable as a lookup key.
	Email string `json:"email"`
}
