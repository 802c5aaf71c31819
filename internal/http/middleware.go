package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/blogicum/internal/blog"
)

const viewerKey = "viewer"

// Identity resolves the bearer token, if any, into the request viewer.
// Requests without a token are anonymous; a bad token is rejected.
func (e *Env) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(viewerKey, blog.Anonymous)
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			e.unauthenticated(c)
			return
		}
		viewer, err := e.Blog.ViewerForToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, blog.ErrUnauthenticated) {
				e.unauthenticated(c)
				return
			}
			log.Printf("Error resolving session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// RequireAuth stops anonymous requests before any work is done.
func (e *Env) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !viewerFrom(c).Authenticated() {
			e.unauthenticated(c)
			return
		}
		c.Next()
	}
}

func viewerFrom(c *gin.Context) blog.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(blog.Viewer); ok {
			return viewer
		}
	}
	return blog.Anonymous
}

// AdminAuthMiddleware checks the X-Admin-Token header against token.
// An empty token locks the admin API entirely.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	if token == "" {
		log.Println("X_ADMIN_TOKEN not set, admin API is disabled")
	}

	return func(c *gin.Context) {
		supplied := c.GetHeader("X-Admin-Token")
		if supplied == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Admin token required"})
			return
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: Invalid admin token"})
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware adds basic, sensible security headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

// --- Rate Limiter ---

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      r,
		burst:    b,
	}
}

func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Prune forgets visitors idle for longer than idle.
func (rl *IPRateLimiter) Prune(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-idle)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// PruneEvery runs Prune on interval until ctx is done.
func (rl *IPRateLimiter) PruneEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Prune(interval)
		}
	}
}

func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please wait."})
			return
		}
		c.Next()
	}
}
