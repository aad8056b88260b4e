// Package redisstore keeps catalog snapshots in Redis so that short-lived
// processes can skip information_schema reflection on startup.
//
// -----------------------------------------------------------------------------
//
//	Snapshot'lar JSON olarak "<prefix><database>" anahtarında tutulur ve
//	TTL dolduğunda kendiliğinden düşer. Şema değiştiğinde Invalidate ile
//	anında temizlenebilir.
//
//	-- @author   Ahmet ALTUN
//	-- @github   github.com/biyonik
//
// -----------------------------------------------------------------------------
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/biyonik/go-fluent-dao/schema"
)

const (
	DefaultPrefix = "fluentdao:catalog:"
	DefaultTTL    = 10 * time.Minute
)

// Client is the subset of redis.Cmdable the store needs. *redis.Client,
// *redis.ClusterClient and *redis.Ring satisfy it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store implements schema.SnapshotStore.
type Store struct {
	client Client
	prefix string
	ttl    time.Duration
}

var _ schema.SnapshotStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets the snapshot lifetime. Zero keeps snapshots until invalidated.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New returns a store over client.
func New(client Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the Redis key holding the snapshot of database.
func (s *Store) Key(database string) string {
	return s.prefix + database
}

// Get returns schema.ErrSnapshotMiss when nothing is cached.
func (s *Store) Get(ctx context.Context, database string) (*schema.Snapshot, error) {
	raw, err := s.client.Get(ctx, s.Key(database)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, schema.ErrSnapshotMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s: %w", s.Key(database), err)
	}

	var snap schema.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("redisstore: decode %s: %w", s.Key(database), err)
	}
	if snap.Database != database {
		return nil, schema.ErrSnapshotMiss
	}
	return &snap, nil
}

func (s *Store) Put(ctx context.Context, snap *schema.Snapshot) error {
	if snap == nil {
		return errors.New("redisstore: nil snapshot")
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redisstore: encode %s: %w", s.Key(snap.Database), err)
	}
	if err := s.client.Set(ctx, s.Key(snap.Database), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set %s: %w", s.Key(snap.Database), err)
	}
	return nil
}

// Invalidate drops the cached snapshot of database.
func (s *Store) Invalidate(ctx context.Context, database string) error {
	if err := s.client.Del(ctx, s.Key(database)).Err(); err != nil {
		return fmt.Errorf("redisstore: del %s: %w", s.Key(database), err)
	}
	return nil
}
