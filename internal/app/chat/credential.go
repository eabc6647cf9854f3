package chat

import (
	"encoding/json"
	"strings"
)

// credKind tags the credential variants a register payload can carry.
type credKind int

const (
	// credNone: no usable credential; registration fails with "User not found."
	credNone credKind = iota

	// credToken: explicit bearer token in the payload, checked by the verifier.
	credToken

	// credEmail: plaintext email identifier, resolved by store lookup.
	credEmail

	// credAmbient: token from the connection handshake (session cookie or
	// Authorization header), checked the same way as credToken.
	credAmbient
)

// credential is the tagged union resolved once at the entry of the register handler.
type credential struct {
	kind  credKind
	token string
	email string
}

// tokenPayload is the object form of a register payload.
type tokenPayload struct {
	Token string `json:"token"`
}

// resolveCredential classifies a raw register payload. Precedence: an explicit
// token wins, then a plaintext email, then the ambient handshake credential
// when no payload was given at all. An object without a token resolves to none,
// not to the ambient fallback.
func resolveCredential(raw json.RawMessage, ambientToken string) credential {
	if isNullJSON(raw) {
		if ambientToken != "" {
			return credential{kind: credAmbient, token: ambientToken}
		}
		return credential{kind: credNone}
	}

	var email string
	if err := json.Unmarshal(raw, &email); err == nil {
		email = strings.TrimSpace(email)
		if email == "" {
			return credential{kind: credNone}
		}
		return credential{kind: credEmail, email: email}
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Token != "" {
		return credential{kind: credToken, token: payload.Token}
	}

	return credential{kind: credNone}
}
