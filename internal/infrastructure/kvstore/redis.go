// Package kvstore provides the persistent key-value backends behind the
// quote cache: a remote redis endpoint, an in-process map, and a JSON
// document on local disk. All backends share the same total contract:
// reads never fail the caller (absence covers missing keys, corrupt
// values and unreachable media alike) and writes degrade to logged
// no-ops.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis stores values as JSON strings in a remote redis-compatible
// endpoint. Entries carry no TTL: staleness is bounded by refresh
// triggers, not by expiry.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(client *redis.Client, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, log: log}
}

func (s *Redis) Get(ctx context.Context, key string, out any) bool {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("kv_get_failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("kv_decode_failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Redis) Set(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		s.log.Warn("kv_encode_failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		s.log.Warn("kv_set_failed", zap.String("key", key), zap.Error(err))
	}
}
