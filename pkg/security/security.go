package security

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	corsAllowedHeaders = strings.Join([]string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token",
		"Authorization", "X-Request-ID", "Accept", "Origin", "Cache-Control", "X-Requested-With",
	}, ", ")
	corsAllowedMethods = "POST, OPTIONS, GET, PUT, DELETE, PATCH"
)

// CORS allows only whitelisted origins, with credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		if origin := c.Request.Header.Get("Origin"); origin != "" && originSet[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		c.Writer.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}
		c.Next()
	}
}

// visitor pairs a limiter with its last activity for eviction.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorTable struct {
	mu    sync.Mutex
	store map[string]*visitor
	rate  rate.Limit
	burst int
}

func (t *visitorTable) get(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.store[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.store[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (t *visitorTable) evictIdle(olderThan time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, v := range t.store {
		if time.Since(v.lastSeen) > olderThan {
			delete(t.store, key)
		}
	}
}

// RateLimiter limits per client IP and evicts idle entries once a
// minute so the table stays bounded.
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	table := &visitorTable{
		store: make(map[string]*visitor),
		rate:  rate.Every(window / time.Duration(maxRequests)),
		burst: maxRequests,
	}

	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			table.evictIdle(expiry)
		}
	}()

	return func(c *gin.Context) {
		if !table.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
