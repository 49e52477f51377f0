// Package bootstrap wires optional runtime dependencies from configuration.
// Both the API process and the standalone confirmation worker share it.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/voicemed/platform/internal/booking"
	"github.com/voicemed/platform/internal/catalog"
	appconfig "github.com/voicemed/platform/internal/config"
	"github.com/voicemed/platform/internal/notify"
	"github.com/voicemed/platform/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildSessionStore picks Redis-backed sessions when Redis is reachable and
// falls back to the in-memory store otherwise.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, cat *catalog.Catalog, logger *logging.Logger) booking.SessionStore {
	if logger == nil {
		logger = logging.Default()
	}

	if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
		logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
		return booking.NewRedisSessionStore(cat, client, cfg.SessionTTL)
	}

	logger.Info("using in-memory session store")
	return booking.NewMemorySessionStore(cat)
}

// BuildEmailSender returns the SendGrid sender when configured, otherwise a
// stub that only logs.
func BuildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.SendGridAPIKey != "" && cfg.SendGridFromEmail != "" {
		logger.Info("sendgrid email sender initialized")
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}

	logger.Warn("email notifications disabled (SENDGRID_API_KEY or SENDGRID_FROM_EMAIL not set)")
	return notify.NewStubEmailSender(logger)
}
