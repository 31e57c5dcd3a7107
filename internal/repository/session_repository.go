package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookquiz/bookquiz-backend/internal/config"
	"github.com/bookquiz/bookquiz-backend/internal/model"
)

// Session store errors.
var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found or expired")
)

// SessionRepository stores quiz sessions in Redis. Each record carries its TTL
// twice: as the native key expiry (the store purges it autonomously) and as an
// epoch field inside the value. Reads check the epoch independently, so a
// record whose TTL elapsed is reported absent even if the purge is delayed.
type SessionRepository struct {
	rdb *redis.Client
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

// Create stores a new session. Fails with ErrSessionExists if a live record
// is already present under the same id.
func (r *SessionRepository) Create(ctx context.Context, sessionID string, sess *model.QuizSession) error {
	ttl := time.Until(time.Unix(sess.TTL, 0))
	if ttl <= 0 {
		return fmt.Errorf("session ttl %d is already in the past", sess.TTL)
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := r.rdb.SetNX(ctx, config.CacheKey.QuizSessionKey(sessionID), raw, ttl).Result()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

// Read returns the session state, or ErrSessionNotFound if the record is
// absent or its TTL has elapsed.
func (r *SessionRepository) Read(ctx context.Context, sessionID string) (*model.QuizSession, error) {
	key := config.CacheKey.QuizSessionKey(sessionID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess model.QuizSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	// The store's expiry is authoritative but may lag the TTL boundary.
	if sess.ExpiredAt(time.Now()) {
		_ = r.rdb.Del(ctx, key).Err()
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Update replaces the stored state of an existing session, keeping its
// remaining TTL. Fails with ErrSessionNotFound if the record is absent.
func (r *SessionRepository) Update(ctx context.Context, sessionID string, sess *model.QuizSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := r.rdb.SetXX(ctx, config.CacheKey.QuizSessionKey(sessionID), raw, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, config.CacheKey.QuizSessionKey(sessionID)).Err()
}
