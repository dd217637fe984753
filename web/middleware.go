package web

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"tipster/domain"
	"tipster/domain/entities"
	"tipster/domain/interfaces"
	"tipster/infrastructure/observability"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	sessionCookie = "session"
	identityKey   = "identity"
	tokenKey      = "session_token"
)

// sessionToken reads the bearer token from the Authorization header or the session cookie
func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

// currentIdentity returns the identity stored by the gate middleware
func currentIdentity(c *gin.Context) *entities.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*entities.Identity); ok {
			return identity
		}
	}
	return nil
}

// gate runs check and turns redirect outcomes into Unauthenticated/Unauthorized responses
func gate(check func(c *gin.Context, token string) (entities.GateResult, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		result, err := check(c, token)
		if err != nil {
			respondError(c, err)
			return
		}

		switch result.Outcome {
		case entities.GateReady:
			c.Set(identityKey, result.Identity)
			c.Set(tokenKey, token)
			c.Next()
		case entities.GateRedirectHome:
			respondRedirect(c, domain.NewUnauthorized("admin role required"), entities.HomePath)
		default:
			respondRedirect(c, domain.NewUnauthenticated("sign in required"), entities.LoginPath)
		}
	}
}

// RequireAuthenticated lets only signed-in identities through
func RequireAuthenticated(sessions interfaces.SessionGate) gin.HandlerFunc {
	return gate(func(c *gin.Context, token string) (entities.GateResult, error) {
		return sessions.RequireAuthenticated(c.Request.Context(), token)
	})
}

// RequireAdmin lets only admin identities through
func RequireAdmin(sessions interfaces.SessionGate) gin.HandlerFunc {
	return gate(func(c *gin.Context, token string) (entities.GateResult, error) {
		return sessions.RequireAdmin(c.Request.Context(), token)
	})
}

// limiterIdleTTL is how long an identity may stay quiet before its bucket is dropped.
// A bucket idle this long has refilled, so dropping it does not loosen the limit.
const limiterIdleTTL = 10 * time.Minute

type identityLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// identityRateLimiter keeps one token bucket per active identity
type identityRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*identityLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIdentityRateLimiter(perMinute int) *identityRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &identityRateLimiter{
		limiters:  make(map[string]*identityLimiter),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *identityRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &identityLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for at least limiterIdleTTL. Caller holds mu.
func (l *identityRateLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

func (l *identityRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimitPerIdentity rejects requests above perMinute for the gated identity
func RateLimitPerIdentity(perMinute int) gin.HandlerFunc {
	limiter := newIdentityRateLimiter(perMinute)
	return func(c *gin.Context) {
		identity := currentIdentity(c)
		if identity == nil {
			c.Next()
			return
		}
		if !limiter.allow(identity.ID) {
			log.WithField("user_id", identity.ID).Warn("Submission rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions, slow down"})
			return
		}
		c.Next()
	}
}

// RequestLogger logs each request with logrus and records HTTP metrics
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		observability.GetMetrics().RecordHTTPRequest(c.Request.Method, route, status, duration)

		fields := log.Fields{
			"method":   c.Request.Method,
			"route":    route,
			"status":   status,
			"duration": duration.String(),
		}
		if identity := currentIdentity(c); identity != nil {
			fields["user_id"] = identity.ID
		}

		entry := log.WithFields(fields)
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("Request completed")
		case status >= http.StatusBadRequest:
			entry.Info("Request completed")
		default:
			entry.Debug("Request completed")
		}
	}
}
