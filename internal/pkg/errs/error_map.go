/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct. The 2xxx
message strings are part of the chat wire contract and must not be reworded.
*/
package errs

import "net/http"

// errorMap stores the CustomError template corresponding to every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Messaging Errors
	ErrAuthenticationRequired: {Code: ErrAuthenticationRequired, Message: "Authentication required."},
	ErrUserNotFound:           {Code: ErrUserNotFound, Message: "User not found."},
	ErrRegistrationFailed:     {Code: ErrRegistrationFailed, Message: "Unable to register user."},
	ErrRecipientMissing:       {Code: ErrRecipientMissing, Message: "Recipient missing."},
	ErrRecipientNotFound:      {Code: ErrRecipientNotFound, Message: "Recipient not found."},
	ErrContentMissing:         {Code: ErrContentMissing, Message: "Message or pet required."},
	ErrMessageSendFailed:      {Code: ErrMessageSendFailed, Message: "Unable to send message."},
	ErrHistoryFailed:          {Code: ErrHistoryFailed, Message: "Unable to load history."},

	// 3xxx: Account and Session Errors
	ErrInvalidSignup:      {Code: ErrInvalidSignup, Message: "Invalid email or password (min 8 chars).", Status: http.StatusBadRequest},
	ErrEmailTaken:         {Code: ErrEmailTaken, Message: "Email already registered.", Status: http.StatusConflict},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid credentials.", Status: http.StatusUnauthorized},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
