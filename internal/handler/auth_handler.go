/*
Package handler provides HTTP handler functions for account signup, login, and session management.

This surface realizes the credential verifier consumed by the chat hub: signup
and login issue the JWTs that register events later verify, and set the session
cookie the WebSocket handshake picks up as the ambient credential.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pawchat/internal/app/db"
	"pawchat/internal/app/store"
	"pawchat/internal/pkg/auth/jwt"
	"pawchat/internal/pkg/errs"
	"pawchat/internal/pkg/logx"
	"pawchat/internal/pkg/req"
	"pawchat/internal/pkg/resp"
)

const (
	// BcryptCost is the hashing cost for stored passwords.
	BcryptCost = 12

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// normalizeEmail trims and lowercases an email address. Uniqueness and lookups
// are case-insensitive throughout.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setSessionCookie attaches the session token as an httpOnly cookie so browser
// clients carry it on the WebSocket handshake.
func setSessionCookie(w http.ResponseWriter, deps *AppDeps, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(jwt.SessionExpiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !deps.Config.IsDevelopment(),
	})
}

// HandleRegister processes the request to create a new account with email and password.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SignupInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := normalizeEmail(input.Email)

		if !emailRegex.MatchString(email) || len(input.Password) < MinPasswordLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidSignup))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), BcryptCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidSignup))
			return
		}

		u, err := deps.Store.CreateUser(r.Context(), email, string(hashedPassword))
		if err != nil {
			if db.IsUniqueViolation(err) || errors.Is(err, store.ErrDuplicateEmail) {
				logx.Warn("registration conflict: email already exists", "email", email)
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailTaken))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		claims := &jwt.Claims{
			ID:    u.ID,
			Email: u.Email,
		}

		tokenString, err := jwt.GenerateToken(claims, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		setSessionCookie(w, deps, tokenString)

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user":  u,
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a session token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := normalizeEmail(input.Email)

		if !emailRegex.MatchString(email) || len(input.Password) < MinPasswordLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		creds, err := deps.Store.CredentialsByEmail(r.Context(), email)
		if err != nil {
			logx.Error(err, "login: credentials fetch failed", "email", email)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if creds == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		claims := &jwt.Claims{
			ID:    creds.User.ID,
			Email: creds.User.Email,
		}

		tokenString, err := jwt.GenerateToken(claims, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		setSessionCookie(w, deps, tokenString)

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user":  creds.User,
		})
	}
}

// HandleLogout clears the session cookie. The bearer token itself simply expires.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     jwt.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   !deps.Config.IsDevelopment(),
		})

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleMe returns the authenticated user's identity.
func HandleMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetClaimsFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		u, err := deps.Store.UserByID(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "me: user fetch failed", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if u == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": u,
		})
	}
}
