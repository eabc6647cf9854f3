package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pawchat/internal/app/store"
	"pawchat/internal/configs"
	"pawchat/internal/pkg/auth/jwt"
	"pawchat/internal/pkg/resp"
)

func testDeps(t *testing.T) (*AppDeps, *store.Memory) {
	t.Helper()

	st := store.NewMemory()
	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment: "development",
			JWTSecret:   "test-secret",
		},
		Store: st,
	}

	return deps, st
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()

	var out resp.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == jwt.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHandleRegister(t *testing.T) {
	t.Run("creates account and issues session", func(t *testing.T) {
		deps, st := testDeps(t)

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", SignupInput{
			Email:    "Ada@Example.com",
			Password: "correct horse",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		out := decodeResponse(t, rec)
		assert.Equal(t, 0, out.Code)

		data, ok := out.Data.(map[string]any)
		require.True(t, ok)
		require.NotEmpty(t, data["token"])

		u, ok := data["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ada@example.com", u["email"])

		// Token is verifiable with the configured secret and names the new user.
		claims, err := jwt.ParseToken(data["token"].(string), deps.Config.JWTSecret)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims.Email)

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.Equal(t, data["token"], cookie.Value)
		assert.True(t, cookie.HttpOnly)

		stored, err := st.UserByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		deps, st := testDeps(t)

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", SignupInput{
			Email:    "ada@example.com",
			Password: "correct horse",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		creds, err := st.CredentialsByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, creds)
		assert.NotEqual(t, "correct horse", creds.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte("correct horse")))
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		deps, _ := testDeps(t)

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", SignupInput{
			Email:    "not-an-email",
			Password: "correct horse",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		deps, _ := testDeps(t)

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", SignupInput{
			Email:    "ada@example.com",
			Password: "short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email conflicts case-insensitively", func(t *testing.T) {
		deps, st := testDeps(t)

		_, err := st.CreateUser(context.Background(), "ada@example.com", "hash")
		require.NoError(t, err)

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", SignupInput{
			Email:    "ADA@example.com",
			Password: "correct horse",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("rejects non-json content type", func(t *testing.T) {
		deps, _ := testDeps(t)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("email=a")))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		HandleRegister(deps).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleLogin(t *testing.T) {
	seed := func(t *testing.T, st *store.Memory, email, password string) {
		t.Helper()

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)

		_, err = st.CreateUser(context.Background(), email, string(hash))
		require.NoError(t, err)
	}

	t.Run("valid credentials issue session", func(t *testing.T) {
		deps, st := testDeps(t)
		seed(t, st, "ada@example.com", "correct horse")

		rec := postJSON(t, HandleLogin(deps), "/api/auth/login", LoginInput{
			Email:    "Ada@Example.com",
			Password: "correct horse",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		out := decodeResponse(t, rec)
		data, ok := out.Data.(map[string]any)
		require.True(t, ok)

		claims, err := jwt.ParseToken(data["token"].(string), deps.Config.JWTSecret)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims.Email)

		require.NotNil(t, sessionCookie(rec))
	})

	t.Run("wrong password", func(t *testing.T) {
		deps, st := testDeps(t)
		seed(t, st, "ada@example.com", "correct horse")

		rec := postJSON(t, HandleLogin(deps), "/api/auth/login", LoginInput{
			Email:    "ada@example.com",
			Password: "wrong password",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		deps, _ := testDeps(t)

		rec := postJSON(t, HandleLogin(deps), "/api/auth/login", LoginInput{
			Email:    "ghost@example.com",
			Password: "correct horse",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleLogout(t *testing.T) {
	deps, _ := testDeps(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	HandleLogout(deps).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestHandleMe(t *testing.T) {
	t.Run("without identity", func(t *testing.T) {
		deps, _ := testDeps(t)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		HandleMe(deps).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("with bearer identity", func(t *testing.T) {
		deps, st := testDeps(t)

		u, err := st.CreateUser(context.Background(), "ada@example.com", "hash")
		require.NoError(t, err)

		token, err := jwt.GenerateToken(&jwt.Claims{ID: u.ID, Email: u.Email}, deps.Config.JWTSecret, jwt.SessionExpiration)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler := jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret)(HandleMe(deps))
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		out := decodeResponse(t, rec)
		data, ok := out.Data.(map[string]any)
		require.True(t, ok)

		me, ok := data["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ada@example.com", me["email"])
	})
}
