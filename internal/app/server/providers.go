package server

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eslsoft/islamic-sources/internal/adapter/auth"
	"github.com/eslsoft/islamic-sources/internal/adapter/cache"
	"github.com/eslsoft/islamic-sources/internal/adapter/media/youtube"
	"github.com/eslsoft/islamic-sources/internal/adapter/ratelimit"
	"github.com/eslsoft/islamic-sources/internal/config"
	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/observability"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

const progressWindow = time.Minute

// NewConfig loads the runtime configuration for dependency injection.
func NewConfig() (config.Config, error) {
	return config.Load()
}

// NewLogger builds the process logger; the cleanup flushes buffered entries.
func NewLogger(cfg config.Config) (*logger.Logger, func(), error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	return log, log.Sync, nil
}

// NewRedisClient connects to REDIS_URL. It returns a nil client when redis is
// not configured.
func NewRedisClient(cfg config.Config, log *logger.Logger) (*redis.Client, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("redis not configured; course cache and progress limiter disabled")
		return nil, func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed; cache reads will fall through", "error", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// NewCourseCache selects the redis cache when a client is available.
func NewCourseCache(cfg config.Config, client *redis.Client, log *logger.Logger) core.CourseCache {
	if client == nil {
		return cache.Noop{}
	}
	return cache.NewCourseCache(client, cfg.CourseCacheTTL, log)
}

// NewProgressLimiter limits progress writes per client when redis is available.
func NewProgressLimiter(cfg config.Config, client *redis.Client) core.RateLimiter {
	if client == nil {
		return ratelimit.Unlimited{}
	}
	return ratelimit.New(client, cfg.ProgressRateLimit, progressWindow)
}

// NewAuthenticator verifies Supabase access tokens for admin routes.
func NewAuthenticator(cfg config.Config) *auth.Verifier {
	return auth.NewVerifier(cfg.SupabaseJWTSecret, cfg.AdminEmails)
}

// NewThumbnailExtractor returns the YouTube thumbnail extractor.
func NewThumbnailExtractor() youtube.Extractor {
	return youtube.NewExtractor()
}

// NewTracing installs the tracer provider; the cleanup flushes pending spans.
func NewTracing(cfg config.Config, log *logger.Logger) (TracingEnabled, func(), error) {
	shutdown, err := observability.InitTracing(context.Background(), log, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return false, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}
	return true, cleanup, nil
}

// TracingEnabled marks that the global tracer provider has been installed
// before the router is built.
type TracingEnabled bool
