package jwt

import (
	"net/http"
	"strings"
)

// SessionCookieName is the cookie carrying the session token on browser requests.
const SessionCookieName = "pf_session"

// TokenFromCookieHeader parses a raw Cookie header string and extracts the
// session token, if present. It is a pure function so the ambient-credential
// extraction can be tested independent of the transport.
func TokenFromCookieHeader(header string) (string, bool) {
	for _, part := range strings.Split(header, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		if name == SessionCookieName && value != "" {
			return value, true
		}
	}

	return "", false
}

// TokenFromAuthHeader extracts a bearer token from a raw Authorization header string.
func TokenFromAuthHeader(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}

	return token, true
}

// SessionToken extracts the ambient credential from a connection handshake:
// the session cookie first, then a bearer Authorization header.
func SessionToken(r *http.Request) (string, bool) {
	if token, ok := TokenFromCookieHeader(r.Header.Get("Cookie")); ok {
		return token, true
	}

	return TokenFromAuthHeader(r.Header.Get("Authorization"))
}
