package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// ServerOptions tunes the middleware stack
type ServerOptions struct {
	APIAccessKey string
	MaxBodyBytes int64
	RateLimit    float64 // requests per second per client IP on /api, 0 disables
	RateBurst    int

	// TrustedProxies may set X-Forwarded-For; nil trusts none so the client
	// IP is always the socket peer
	TrustedProxies []string
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, opts ServerOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		slog.Warn("Invalid trusted proxies, trusting none", "proxies", opts.TrustedProxies, "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s %s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.Keys["request_id"],
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(requestIDMiddleware())
	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, opts)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, opts ServerOptions) {
	apiAccessKey := opts.APIAccessKey

	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	if opts.RateLimit > 0 {
		api.Use(rateLimitMiddleware(newClientLimiter(opts.RateLimit, opts.RateBurst)))
	}
	if apiAccessKey != "" {
		api.Use(authMiddleware(apiAccessKey))
		slog.Info("API endpoints enabled with authentication")
	} else {
		slog.Warn("API endpoints enabled without authentication (API_ACCESS_KEY not set)")
	}
	api.Use(bodyLimitMiddleware(opts.MaxBodyBytes))
	{
		api.GET("/scoring/profile", handler.APIGetProfile)
		api.POST("/signals/feed", handler.APIBuildFeed)
		api.POST("/signals/watchlist", handler.APIWatchlist)
		api.POST("/signals/rank", handler.APIRank)
	}

	r.GET("/", func(c *gin.Context) {
		suffix := ""
		if apiAccessKey != "" {
			suffix = " (requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "A2Z Signals",
			"version":     handler.version,
			"description": "AI signal normalization, watchlist matching and personalized ranking",
			"endpoints": map[string]string{
				"health":    "/health",
				"profile":   "/api/scoring/profile" + suffix,
				"feed":      "/api/signals/feed (POST)" + suffix,
				"watchlist": "/api/signals/watchlist?matched_only=<bool> (POST)" + suffix,
				"rank":      "/api/signals/rank (POST)" + suffix,
			},
			"api_status": map[string]interface{}{
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// requestIDMiddleware propagates or assigns a request id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// rateLimitMiddleware rejects requests once the caller's token bucket is empty
func rateLimitMiddleware(limiter *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// bodyLimitMiddleware caps the size of request bodies
func bodyLimitMiddleware(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBodyBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}
		c.Next()
	}
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
