package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignup_CreatesUser(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":      "new@example.com",
		"password":   "supersecret",
		"first_name": "New",
		"last_name":  "User",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "new@example.com", body["email"])
	require.NotContains(t, w.Body.String(), "password")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.signup(t, "dup@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":      "dup@example.com",
		"password":   "supersecret",
		"first_name": "Dup",
		"last_name":  "User",
	}, nil)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSignup_MalformedBody(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email": "not-an-email",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.signup(t, "user@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "user@example.com",
		"password": "wrong",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_RequiresSession(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	cookies := env.signup(t, "user@example.com")
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "user@example.com", body["email"])
}

func TestLogout_DropsSession(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "user@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// The refreshed cookie from the logout response carries the cleared session.
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
