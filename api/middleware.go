package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Limiter interface {
	Allow(ctx context.Context, key string) (cache.Decision, error)
	Capacity() int
}

// Authenticate resolves the bearer token to a stored user. The role comes
// from the database, not the token, so a changed or deleted account takes
// effect immediately.
func Authenticate(tokens TokenParser, users UserLookup, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			unauthenticated(c, "missing bearer token")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			log.LogSecurity("invalid_token", err.Error())
			unauthenticated(c, "invalid token")
			return
		}
		id, _ := claims.UserID()
		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			unauthenticated(c, "unknown user")
			return
		}

		c.Set(userKey, *user)
		c.Next()
	}
}

func unauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: message})
}

func currentUser(c *gin.Context) domain.User {
	u, _ := c.Get(userKey)
	user, _ := u.(domain.User)
	return user
}

func RequireEnterprise() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsEnterprise() {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: "forbidden_role", Message: "enterprise account required"})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request after it completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogAPI(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
		for _, e := range c.Errors {
			log.Error("API", e.Error())
		}
	}
}

// RateLimit applies a per-user token bucket. Limiter errors let the
// request through.
func RateLimit(limiter Limiter, log *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := "user:" + strconv.FormatInt(currentUser(c).ID, 10)
		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("RATELIMIT", "limiter unavailable: "+err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Capacity()))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			log.LogSecurity("rate_limited", key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "too_many_requests", Message: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
