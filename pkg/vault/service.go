package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tokenweave/platform/pkg/tokenize"
	"gorm.io/gorm"
)

// Store is the durable token store behind the online vault.
type Store interface {
	Save(ctx context.Context, record TokenRecord) error
	LookupValue(ctx context.Context, token string) (string, error)
	LookupToken(ctx context.Context, value string) (string, error)
	HasToken(ctx context.Context, token string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Service applies the same token strategies as the file-based pass, but
// against the SQL vault, for callers that tokenize field maps over the API
// or the event stream. An optional redis client caches token -> value hits
// on the detokenize path.
type Service struct {
	store Store
	cache *redis.Client
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewService(store Store, cache *redis.Client, ttl time.Duration, log logrus.FieldLogger) *Service {
	return &Service{store: store, cache: cache, ttl: ttl, log: log}
}

// TokenizeFields replaces the configured columns of data with tokens,
// reusing vault assignments where they exist. Returns the transformed copy
// and the number of newly minted tokens.
func (s *Service) TokenizeFields(ctx context.Context, data map[string]string, columns []string, strategy tokenize.Strategy, source string) (map[string]string, int, error) {
	gen, err := tokenize.NewGenerator(strategy)
	if err != nil {
		return nil, 0, err
	}

	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}

	minted := 0
	for _, col := range columns {
		value, ok := data[col]
		if !ok {
			s.log.WithField("column", col).Warn("Column not present in payload")
			continue
		}

		token, err := s.store.LookupToken(ctx, value)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			token = gen.Generate(value, &storeTokenSet{ctx: ctx, store: s.store, log: s.log})
			record := TokenRecord{
				Token:     token,
				Value:     value,
				Strategy:  string(strategy),
				CreatedAt: time.Now().UTC(),
			}
			if meta, merr := json.Marshal(map[string]string{"source": source, "column": col}); merr == nil {
				record.Metadata = meta
			}
			if err := s.store.Save(ctx, record); err != nil {
				return nil, minted, fmt.Errorf("failed to persist token: %w", err)
			}
			minted++
		} else if err != nil {
			return nil, minted, fmt.Errorf("failed to look up value: %w", err)
		}

		out[col] = token
	}

	return out, minted, nil
}

// DetokenizeFields restores every field whose value matches a vault token.
// Like the file-based pass it is column-agnostic.
func (s *Service) DetokenizeFields(ctx context.Context, data map[string]string) (map[string]string, int, error) {
	out := make(map[string]string, len(data))
	restored := 0

	for k, v := range data {
		out[k] = v

		if value, ok := s.cachedValue(ctx, v); ok {
			out[k] = value
			restored++
			continue
		}

		value, err := s.store.LookupValue(ctx, v)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, restored, fmt.Errorf("failed to look up token: %w", err)
		}

		out[k] = value
		restored++
		s.cacheValue(ctx, v, value)
	}

	return out, restored, nil
}

func (s *Service) VaultSize(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func (s *Service) cachedValue(ctx context.Context, token string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	value, err := s.cache.Get(ctx, cacheKey(token)).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *Service) cacheValue(ctx context.Context, token, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(token), value, s.ttl).Err(); err != nil {
		s.log.WithError(err).Debug("Failed to cache token lookup")
	}
}

func cacheKey(token string) string {
	return "vault:token:" + token
}

// storeTokenSet exposes vault membership to the shared generator strategies.
// On a lookup error it reports the candidate as free: the primary key
// constraint on save is the backstop against an actual collision.
type storeTokenSet struct {
	ctx   context.Context
	store Store
	log   logrus.FieldLogger
}

func (t *storeTokenSet) HasToken(token string) bool {
	ok, err := t.store.HasToken(t.ctx, token)
	if err != nil {
		t.log.WithError(err).Error("Token existence check failed")
		return false
	}
	return ok
}
