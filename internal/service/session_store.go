package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quiz-drill/internal/cache"
	"quiz-drill/internal/domain"
	"quiz-drill/internal/logger"
	"quiz-drill/internal/quiz"
)

// SessionStore persists sessions between requests as explicit snapshots.
type SessionStore interface {
	Save(ctx context.Context, id string, session *quiz.Session) error
	// Load restores the session against bank, the one later restarts sample from.
	Load(ctx context.Context, id string, bank *domain.Bank, opts ...quiz.Option) (*quiz.Session, error)
	Delete(ctx context.Context, id string) error
}

type cacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionStore stores snapshots as JSON in cache. A ttl of 0 never expires.
func NewSessionStore(cache domain.Cache, ttl time.Duration) SessionStore {
	return &cacheSessionStore{cache: cache, ttl: ttl}
}

func (s *cacheSessionStore) Save(ctx context.Context, id string, session *quiz.Session) error {
	data, err := json.Marshal(session.Snapshot())
	if err != nil {
		return domain.NewInternalError("failed to encode session snapshot", err)
	}
	key := cache.SessionSnapshotKey(id)
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to store session snapshot", zap.String("key", key), zap.Error(err))
		return domain.NewInternalError(fmt.Sprintf("failed to store session %s", id), err)
	}
	return nil
}

func (s *cacheSessionStore) Load(ctx context.Context, id string, bank *domain.Bank, opts ...quiz.Option) (*quiz.Session, error) {
	key := cache.SessionSnapshotKey(id)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewSessionNotFoundError(id)
		}
		logger.Get().Error("Failed to read session snapshot", zap.String("key", key), zap.Error(err))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to read session %s", id), err)
	}

	var snap quiz.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, domain.NewError(domain.CodeInvalidSnapshot, fmt.Sprintf("session %s has an unreadable snapshot", id), err)
	}
	return quiz.Restore(bank, snap, opts...)
}

func (s *cacheSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, cache.SessionSnapshotKey(id)); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to delete session %s", id), err)
	}
	return nil
}
