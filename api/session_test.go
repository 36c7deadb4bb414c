package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/omerfatihko/quote-base/middleware"
	"github.com/omerfatihko/quote-base/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaFetch(t *testing.T) {
	a := newTestAPI(t)
	cookies := register(t, a, "a@x.com", "password123")

	w := doJSON(t, a, http.MethodGet, "/get-quote-limit", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	assert.EqualValues(t, 100, body["remainingQuotes"])
	assert.EqualValues(t, 100, body["totalQuotes"])

	addQuote(t, a, cookies, sampleQuote())

	w = doJSON(t, a, http.MethodGet, "/get-quote-limit", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 99, parseBody(t, w)["remainingQuotes"])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/get-quote-limit", nil},
		{http.MethodPost, "/add-quote", sampleQuote()},
		{http.MethodPut, "/edit-quote/abc", sampleQuote()},
		{http.MethodDelete, "/delete-quote/abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doJSON(t, a, tt.method, tt.path, tt.body, nil)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "You must be logged in to do that", parseBody(t, w)["error"])
		})
	}
}

func TestExpiredSession(t *testing.T) {
	a := newTestAPI(t)
	register(t, a, "a@x.com", "password123")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
		"iat":   time.Now().Add(-time.Hour).Unix(),
		"exp":   time.Now().Add(-30 * time.Minute).Unix(),
	})
	tokenStr, err := expired.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	w := doJSON(t, a, http.MethodGet, "/get-quote-limit", nil, []*http.Cookie{
		{Name: middleware.SessionCookie, Value: tokenStr},
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired or invalid. Please log in again", parseBody(t, w)["error"])
}

func TestTamperedSession(t *testing.T) {
	a := newTestAPI(t)
	register(t, a, "a@x.com", "password123")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(30 * time.Minute).Unix(),
	})
	tokenStr, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	w := doJSON(t, a, http.MethodGet, "/get-quote-limit", nil, []*http.Cookie{
		{Name: middleware.SessionCookie, Value: tokenStr},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVanishedUserInvalidatesSession(t *testing.T) {
	a := newTestAPI(t)
	cookies := register(t, a, "a@x.com", "password123")

	// Account removed while the browser still holds a valid token
	require.NoError(t, a.DB.Where("email = ?", "a@x.com").Delete(model.User{}).Error)

	w := doJSON(t, a, http.MethodGet, "/get-quote-limit", nil, cookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired or invalid. Please log in again", parseBody(t, w)["error"])

	// The dead cookie got cleared so the browser stops replaying it
	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
