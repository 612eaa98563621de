package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/config"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
	"github.com/marcos-nsantos/photo-effects/internal/pkg/httputil"
)

const (
	rateLimitKeyPrefix = "ratelimit"
	rateLimitMessage   = "too many requests, please try again later"
)

// Rate limit scopes. Each scope keeps its own window per client.
const (
	ScopeUpload    = "upload"
	ScopeTransform = "transform"
)

// RateLimiter bounds how many uploads and transforms a client may submit
// per minute. Each (scope, client IP) pair is a Redis sorted set of
// request timestamps. Rejected browser requests are flashed and redirected
// when a flash store is set; API requests always get a JSON 429.
type RateLimiter struct {
	client *redis.Client
	flash  *session.FlashStore
	logger *zap.Logger
	limit  int
	window time.Duration
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, flash *session.FlashStore, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		flash:  flash,
		logger: logger,
		limit:  cfg.RequestsPerMin,
		window: time.Minute,
	}
}

func rateLimitKey(scope, clientID string) string {
	return rateLimitKeyPrefix + ":" + scope + ":" + clientID
}

// Limit enforces the scope's budget. Requests pass through when Redis is
// unavailable.
func (rl *RateLimiter) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := rl.Allow(c.Request.Context(), scope, c.ClientIP())
		if err != nil {
			rl.logger.Warn("rate limiter unavailable",
				zap.String("scope", scope),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			rl.logger.Info("rate limit exceeded",
				zap.String("scope", scope),
				zap.String("ip", c.ClientIP()),
			)
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			if wantsJSON(c, rl.flash) {
				httputil.ErrorWithCode(c, http.StatusTooManyRequests, "RATE_LIMITED", rateLimitMessage)
				c.Abort()
				return
			}
			flashAndRedirect(c, rl.flash, "Too many requests, please try again in a minute")
			return
		}

		c.Next()
	}
}

// Allow records one request for clientID in scope and reports whether it
// fits the sliding window.
func (rl *RateLimiter) Allow(ctx context.Context, scope, clientID string) (Decision, error) {
	key := rateLimitKey(scope, clientID)
	now := time.Now().UnixMilli()
	cutoff := now - rl.window.Milliseconds()

	var card *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: uuid.NewString()})
		card = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		return nil
	})
	if err != nil {
		return Decision{Allowed: true, Remaining: rl.limit}, err
	}

	count := int(card.Val())
	return Decision{
		Allowed:   count <= rl.limit,
		Remaining: max(rl.limit-count, 0),
	}, nil
}
