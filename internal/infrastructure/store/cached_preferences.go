package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"estate-backend/internal/domain"
	"estate-backend/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const preferenceKeyPrefix = "preference:user:"

// CachedPreferenceStore is a Redis read-through cache in front of another PreferenceStore.
// Absence is cached too. Redis errors fall through to Next.
type CachedPreferenceStore struct {
	Next PreferenceStore
	Rdb  *redis.Client
	TTL  time.Duration
}

func preferenceKey(userID uuid.UUID) string {
	return preferenceKeyPrefix + userID.String()
}

func (s *CachedPreferenceStore) GetPreference(ctx context.Context, userID uuid.UUID) (*domain.UserPreference, error) {
	key := preferenceKey(userID)
	b, err := s.Rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var pref *domain.UserPreference
		if jerr := json.Unmarshal(b, &pref); jerr == nil {
			metrics.PreferenceCache.WithLabelValues("hit").Inc()
			return pref, nil
		}
		log.Warn().Str("key", key).Msg("preference cache: undecodable entry, reloading")
	case errors.Is(err, redis.Nil):
		metrics.PreferenceCache.WithLabelValues("miss").Inc()
	default:
		metrics.PreferenceCache.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("preference cache: redis get failed")
		return s.Next.GetPreference(ctx, userID)
	}

	pref, err := s.Next.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, pref)
	return pref, nil
}

// UpsertPreference writes to Next and then replaces the cached entry with the
// stored row, so a reader that filled the cache during the write cannot leave
// the old row behind. Once Next has accepted the write, Redis failures are
// logged and counted but never returned.
func (s *CachedPreferenceStore) UpsertPreference(ctx context.Context, pref *domain.UserPreference) error {
	if err := s.Next.UpsertPreference(ctx, pref); err != nil {
		return err
	}
	key := preferenceKey(pref.UserID)
	fresh, err := s.Next.GetPreference(ctx, pref.UserID)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("preference cache: reload after upsert failed, dropping entry")
		s.drop(ctx, key)
		return nil
	}
	s.put(ctx, key, fresh)
	return nil
}

func (s *CachedPreferenceStore) put(ctx context.Context, key string, pref *domain.UserPreference) {
	b, err := json.Marshal(pref)
	if err != nil {
		return
	}
	if err := s.Rdb.Set(ctx, key, b, s.TTL).Err(); err != nil {
		metrics.PreferenceCache.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("preference cache: redis set failed")
	}
}

func (s *CachedPreferenceStore) drop(ctx context.Context, key string) {
	if err := s.Rdb.Del(ctx, key).Err(); err != nil {
		metrics.PreferenceCache.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("preference cache: redis del failed")
	}
}
