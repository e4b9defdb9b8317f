// Package ratelimit throttles API requests per client IP using either an
// in-process token bucket or a fixed window counter shared through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Huulamnguyen/biztime/internal/config"
	"github.com/Huulamnguyen/biztime/pkg/errorbank"
)

const redisTimeout = 200 * time.Millisecond

// Module provides the configured store. The store is nil when rate limiting
// is disabled.
var Module = fx.Provide(NewStore)

// NewStore builds the store selected by RATE_LIMIT_DRIVER.
func NewStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (middleware.RateLimiterStore, error) {
	rl := cfg.RateLimit
	switch rl.Driver {
	case "noop":
		logger.Info("rate limiting disabled")
		return nil, nil
	case "memory":
		return NewMemoryStore(rl), nil
	case "redis":
		return newRedisStore(lc, rl, logger), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit driver: %s", rl.Driver)
	}
}

// NewMemoryStore returns a per-process token bucket refilled at
// Requests per Window.
func NewMemoryStore(cfg config.RateLimit) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		Burst:     cfg.Requests + cfg.Burst,
		ExpiresIn: 3 * cfg.Window,
	})
}

// Middleware rejects requests over the limit with a 429 error body. Paths in
// skip are never counted.
func Middleware(store middleware.RateLimiterStore, logger *zap.Logger, skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			_, ok := skipped[c.Path()]
			return ok
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errorbank.BadRequest("unable to identify client", errorbank.WithCause(err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Debug("rate limit exceeded", zap.String("client", identifier))
			return errorbank.TooManyRequests("Too many requests, slow down")
		},
	})
}

// counter increments a key that expires after ttl and returns its new value.
type counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisCounter struct {
	client *goredis.Client
}

func (r redisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// WindowStore allows Requests+Burst hits per client in each fixed Window.
// Counter failures let the request through.
type WindowStore struct {
	counter counter
	prefix  string
	limit   int64
	window  time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func newRedisStore(lc fx.Lifecycle, cfg config.RateLimit, logger *zap.Logger) *WindowStore {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			logger.Info("redis rate limiter connected", zap.String("addr", cfg.Redis.Addr))
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info("closing redis rate limiter")
			return client.Close()
		},
	})

	return newWindowStore(redisCounter{client: client}, cfg, logger)
}

func newWindowStore(c counter, cfg config.RateLimit, logger *zap.Logger) *WindowStore {
	return &WindowStore{
		counter: c,
		prefix:  cfg.Redis.KeyPrefix,
		limit:   int64(cfg.Requests + cfg.Burst),
		window:  cfg.Window,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *WindowStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	bucket := s.now().Truncate(s.window).Unix()
	key := fmt.Sprintf("%s:%s:%d", s.prefix, identifier, bucket)

	hits, err := s.counter.Incr(ctx, key, s.window)
	if err != nil {
		s.logger.Warn("rate limit counter unavailable", zap.String("key", key), zap.Error(err))
		return true, nil
	}
	return hits <= s.limit, nil
}
