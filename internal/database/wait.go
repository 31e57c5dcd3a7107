package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bookquiz/bookquiz-backend/internal/config"
)

// WaitReady polls probe on a fixed interval until it succeeds, the timeout
// elapses, or ctx is cancelled. The probe runs once immediately. On timeout
// the last probe error is wrapped so the operator sees why readiness failed.
func WaitReady(ctx context.Context, interval, timeout time.Duration, probe func(context.Context) error) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	lastErr := probe(ctx)
	if lastErr == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("not ready after %s: %w", timeout, lastErr)
		case <-tick.C:
			if lastErr = probe(ctx); lastErr == nil {
				return nil
			}
		}
	}
}

// WaitForBackends blocks until both PostgreSQL and Redis answer pings,
// polling per the configured readiness interval and timeout.
func WaitForBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Dur("interval", cfg.ReadyInterval).
		Dur("timeout", cfg.ReadyTimeout).
		Msg("Waiting for backends")

	err := WaitReady(ctx, cfg.ReadyInterval, cfg.ReadyTimeout, func(ctx context.Context) error {
		conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer conn.Close(ctx)
		return conn.Ping(ctx)
	})
	if err != nil {
		return err
	}
	log.Info().Msg("PostgreSQL ready")

	err = WaitReady(ctx, cfg.ReadyInterval, cfg.ReadyTimeout, func(ctx context.Context) error {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		return err
	}
	log.Info().Msg("Redis ready")

	return nil
}
