/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Messaging Errors
const (
	// ErrAuthenticationRequired indicates a chat action was attempted on a connection
	// with no bound identity.
	ErrAuthenticationRequired = 2001

	// ErrUserNotFound indicates that registration could not resolve any user
	// for the supplied credential or identifier.
	ErrUserNotFound = 2002

	// ErrRegistrationFailed indicates the credential verifier rejected the token
	// or a store lookup failed during registration.
	ErrRegistrationFailed = 2003

	// ErrRecipientMissing indicates that no recipient id or email was supplied.
	ErrRecipientMissing = 2004

	// ErrRecipientNotFound indicates that the supplied recipient identifier resolved to nothing.
	ErrRecipientNotFound = 2005

	// ErrContentMissing indicates an empty message body with no shared pet attachment.
	ErrContentMissing = 2006

	// ErrMessageSendFailed indicates that persisting or delivering a message failed.
	ErrMessageSendFailed = 2007

	// ErrHistoryFailed indicates that fetching a conversation failed.
	ErrHistoryFailed = 2008
)

// 3xxx: Account and Session Errors
const (
	// ErrInvalidSignup indicates a malformed email or a password below the minimum length.
	ErrInvalidSignup = 3001

	// ErrEmailTaken indicates that the email is already registered.
	ErrEmailTaken = 3002

	// ErrInvalidCredentials indicates an unknown email or a password mismatch on login.
	ErrInvalidCredentials = 3003

	// ErrUnauthorized indicates a missing or invalid session on a protected endpoint.
	ErrUnauthorized = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
