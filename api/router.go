// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/db"
	"github.com/omerfatihko/quote-base/middleware"
	pkgmw "github.com/omerfatihko/quote-base/pkg/middleware"
	"github.com/omerfatihko/quote-base/pkg/security"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
}

// NewRouter opens the configured database and builds the full API around it
func NewRouter() (*API, error) {
	d, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	return New(d), nil
}

// New wires every route and middleware around an existing database handle.
// Split out of NewRouter so tests can pass an in-memory database
func New(d *gorm.DB) *API {
	a := &API{
		DB:    d,
		Argon: security.New(),
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("cors.allowed_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		pkgmw.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userEmail"); v != "" {
					fields = append(fields, zap.String("userEmail", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	rps := viper.GetInt("ratelimit.rps")
	if rps <= 0 {
		rps = 5
	}

	burst := viper.GetInt("ratelimit.burst")
	if burst <= 0 {
		burst = 10
	}

	session := middleware.NewSessionMiddleware(d)
	limiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rps,
		Burst:             burst,
	})
	bodyLimit := pkgmw.BodySizeLimiter(1 << 20)

	// GET /			-> Static welcome, safe to cache
	router.GET("/", cacheFor(30), a.Welcome)

	// POST /register		-> Registers a new user and starts a session
	router.POST("/register", limiter, bodyLimit, a.UserRegister)

	// POST /login			-> Logs in a user and starts a session
	router.POST("/login", limiter, bodyLimit, a.UserLogin)

	// GET /logout			-> Drops the session, always redirects home
	router.GET("/logout", a.UserLogout)

	// GET /home			-> The user's quote collection, or a redirect
	//				   to the entry page when not logged in
	router.GET("/home", a.Home)

	// GET /get-quote-limit		-> Remaining/total quote allowance
	router.GET("/get-quote-limit", session, a.QuotaFetch)

	// POST /add-quote		-> Adds a quote, consumes one allowance unit
	router.POST("/add-quote", session, bodyLimit, a.QuoteAdd)

	// PUT /edit-quote/:id		-> Edits an owned quote in place
	router.PUT("/edit-quote/:id", session, bodyLimit, a.QuoteEdit)

	// DELETE /delete-quote/:id	-> Deletes an owned quote, restores one unit
	router.DELETE("/delete-quote/:id", session, a.QuoteDelete)

	return a
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
