package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate limit tiers.
const (
	// Auth endpoints (login/register) get the strict tier.
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Everything else.
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

func init() {
	go cleanupVisitors()
}

// getVisitor retrieves or creates a rate limiter for the given bucket key.
func getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes stale entries to prevent the map growing forever.
func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for key, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, key)
			}
		}
		mu.Unlock()
	}
}

// RateLimit rejects requests exceeding the per-identity token bucket.
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, burst, tier := resolveRateTier(c)

		var identity string
		if userID, ok := GetUserID(c); ok {
			identity = fmt.Sprintf("user:%d", userID)
		} else {
			ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
			if err != nil {
				ip = c.Request.RemoteAddr
			}
			identity = "ip:" + ip
		}

		// Same identity keeps separate quotas for strict vs general.
		key := fmt.Sprintf("%s:%s", identity, tier)

		limiter := getVisitor(key, limit, burst)
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": http.StatusText(http.StatusTooManyRequests),
			})
			return
		}

		c.Next()
	}
}

func resolveRateTier(c *gin.Context) (rate.Limit, int, string) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/v1/auth") ||
		strings.HasPrefix(c.Request.URL.Path, "/webhook") {
		return limitStrict, burstStrict, "strict"
	}
	return limitGeneral, burstGeneral, "general"
}
