// Package middleware holds the session and rate limiting middleware that
// guard the API routes
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/omerfatihko/quote-base/model"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionCookie is the name of the HTTP-only cookie carrying the session token
const SessionCookie = "session_token"

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrSessionInvalid = errors.New("session token invalid or expired")
	ErrUserVanished   = errors.New("session references a user that no longer exists")
)

// MakeSessionToken signs a JWT bound to the user's email, expiring after the
// configured session duration
func MakeSessionToken(email string) (string, error) {
	duration := time.Duration(viper.GetInt("session.duration")) * time.Minute

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("security.jwt_secret")))
}

// SetSessionCookie attaches the session token as an HTTP-only cookie. The
// Secure flag follows host.ssl.enabled so local setups without TLS still work
func SetSessionCookie(c *gin.Context, token string) {
	maxAge := viper.GetInt("session.duration") * 60
	c.SetCookie(SessionCookie, token, maxAge, "/", "", viper.GetBool("host.ssl.enabled"), true)
}

// ClearSessionCookie unconditionally drops the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)
}

// ResolveIdentity maps the request's session cookie to the email of a user
// that still exists in the database. A session whose user has vanished is
// proactively cleared so the browser doesn't keep replaying a dead token
func ResolveIdentity(c *gin.Context, d *gorm.DB) (string, error) {
	tokenStr, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", ErrNoSession
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("security.jwt_secret")), nil
	})
	if err != nil || !token.Valid {
		ClearSessionCookie(c)
		return "", ErrSessionInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		ClearSessionCookie(c)
		return "", ErrSessionInvalid
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		ClearSessionCookie(c)
		return "", ErrSessionInvalid
	}

	var count int64
	if err := d.Model(model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		zap.L().Error("Failed to check if session user exists", zap.Error(err))
		return "", err
	}

	if count == 0 {
		// Account deleted while a browser still held a valid token
		ClearSessionCookie(c)
		return "", ErrUserVanished
	}

	return email, nil
}

// NewSessionMiddleware rejects any request that doesn't resolve to an
// authenticated user and stores the resolved email as userEmail for handlers
func NewSessionMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		email, err := ResolveIdentity(c, d)
		if err != nil {
			switch err {
			case ErrNoSession:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "You must be logged in to do that",
					"requestID": requestID,
				})
			case ErrSessionInvalid, ErrUserVanished:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Session expired or invalid. Please log in again",
					"requestID": requestID,
				})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})
			}
			return
		}

		c.Set("userEmail", email)
		c.Next()
	}
}
