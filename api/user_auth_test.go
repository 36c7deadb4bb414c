package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/middleware"
	"github.com/omerfatihko/quote-base/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSuccess(t *testing.T) {
	a := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/register", gin.H{
		"email":    "test@example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Registration successful!", parseBody(t, w)["message"])

	// Session established right away
	var sessionSet bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.Value != "" {
			sessionSet = true
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, sessionSet)

	// Fresh account gets the full default allowance
	var u model.User
	require.NoError(t, a.DB.Where("email = ?", "test@example.com").First(&u).Error)
	assert.Equal(t, 100, u.QuotesRemaining)
	assert.Equal(t, 100, u.TotalQuotes)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestRegisterExistingUser(t *testing.T) {
	a := newTestAPI(t)
	register(t, a, "a@x.com", "password1")

	// Same email, different password, still rejected
	w := doJSON(t, a, http.MethodPost, "/register", gin.H{
		"email":    "a@x.com",
		"password": "password2",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This account already exists", parseBody(t, w)["error"])
}

func TestRegisterInvalidInput(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name string
		body gin.H
		want string
	}{
		{"missing password", gin.H{"email": "test@example.com"}, "Email and password are required"},
		{"missing email", gin.H{"password": "password123"}, "Email and password are required"},
		{"bad email", gin.H{"email": "not-an-email", "password": "password123"}, "invalid email address provided"},
		{"short password", gin.H{"email": "test@example.com", "password": "short12"}, "password must be at least 8 characters long"},
		{"password with space", gin.H{"email": "test@example.com", "password": "pass word123"}, "password can't contain whitespace characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, a, http.MethodPost, "/register", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, parseBody(t, w)["error"])
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	a := newTestAPI(t)
	register(t, a, "a@x.com", "password123")

	w := doJSON(t, a, http.MethodPost, "/login", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful!", parseBody(t, w)["message"])

	var u model.User
	require.NoError(t, a.DB.Where("email = ?", "a@x.com").First(&u).Error)
	assert.False(t, u.LastLogin.IsZero())
}

func TestLoginInvalidCredentials(t *testing.T) {
	a := newTestAPI(t)
	register(t, a, "a@x.com", "password123")

	wrongPass := doJSON(t, a, http.MethodPost, "/login", gin.H{
		"email":    "a@x.com",
		"password": "password124",
	}, nil)
	require.Equal(t, http.StatusBadRequest, wrongPass.Code)

	unknownUser := doJSON(t, a, http.MethodPost, "/login", gin.H{
		"email":    "nobody@x.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusBadRequest, unknownUser.Code)

	// Identical responses for both failure causes, no user enumeration
	assert.Equal(t, "Invalid email or password", parseBody(t, wrongPass)["error"])
	assert.Equal(t, "Invalid email or password", parseBody(t, unknownUser)["error"])
}

func TestLogout(t *testing.T) {
	a := newTestAPI(t)
	cookies := register(t, a, "a@x.com", "password123")

	w := doJSON(t, a, http.MethodGet, "/logout", nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)

	// Logging out without a session behaves the same
	w = doJSON(t, a, http.MethodGet, "/logout", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestWelcome(t *testing.T) {
	a := newTestAPI(t)

	w := doJSON(t, a, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to Quote-Base API!", parseBody(t, w)["message"])
}
