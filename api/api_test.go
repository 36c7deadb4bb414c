package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAPI(t *testing.T) *API {
	t.Helper()

	viper.Set("security.jwt_secret", "test-secret-key")
	viper.Set("session.duration", 30)
	viper.Set("quota.default_limit", 100)
	viper.Set("host.ssl.enabled", false)
	viper.Set("cors.allowed_origins", []string{"http://localhost:5173"})

	// Keep the credential-endpoint limiter out of the way
	viper.Set("ratelimit.rps", 1000)
	viper.Set("ratelimit.burst", 1000)

	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Every pooled connection would otherwise get its own in-memory database
	sqlDB, err := d.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, d.AutoMigrate(model.User{}, model.Quote{}))

	return New(d)
}

func doJSON(t *testing.T, a *API, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

// register creates an account and returns the session cookies the server set
func register(t *testing.T, a *API, email, password string) []*http.Cookie {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/register", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	return cookies
}

// addQuote adds a quote for an already registered user and returns the
// returned quote set
func addQuote(t *testing.T, a *API, cookies []*http.Cookie, body gin.H) []any {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/add-quote", body, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	quotes, ok := parseBody(t, w)["quotes"].([]any)
	require.True(t, ok)

	return quotes
}

func quotaOf(t *testing.T, a *API, email string) (remaining, total int) {
	t.Helper()

	var u model.User
	require.NoError(t, a.DB.Where("email = ?", email).First(&u).Error)

	return u.QuotesRemaining, u.TotalQuotes
}

func sampleQuote() gin.H {
	return gin.H{
		"bookSeries": "Discworld",
		"bookTitle":  "Mort",
		"characters": "Death",
		"quote":      "There is no justice. There is just us.",
		"author":     "Terry Pratchett",
	}
}
