package session

import (
	"context"
	"encoding/json"
	goerrors "errors"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/wordbank/pkg/cache"
	"github.com/matzehuels/wordbank/pkg/errors"
)

// maxTxRetries bounds optimistic retries when concurrent requests update
// the same session.
const maxTxRetries = 8

// RedisStore keeps sessions in Redis with native key expiry. Updates use
// WATCH/MULTI so two instances never overwrite each other's changes.
type RedisStore struct {
	client redis.UniversalClient
	keyer  cache.Keyer
}

// NewRedisStore creates a store on client. A nil keyer means
// cache.DefaultKeyer. The store does not close the client.
func NewRedisStore(client redis.UniversalClient, keyer cache.Keyer) *RedisStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &RedisStore{client: client, keyer: keyer}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	return r.read(ctx, r.client, id)
}

func (r *RedisStore) Set(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session %s", s.ID)
	}
	ttl := s.Remaining()
	if ttl <= 0 {
		return expired(s.ID)
	}
	return r.client.Set(ctx, r.keyer.SessionKey(s.ID), data, ttl).Err()
}

func (r *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (*Session, error) {
	key := r.keyer.SessionKey(id)
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		var out *Session
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			s, err := r.read(ctx, tx, id)
			if err != nil {
				return err
			}
			next, err := apply(s, fn)
			if err != nil {
				return err
			}
			data, err := json.Marshal(next)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode session %s", id)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, next.TTL)
				return nil
			})
			out = next
			return err
		}, key)
		if goerrors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "session %s: too many concurrent updates", id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.keyer.SessionKey(id)).Err()
}

// Cleanup is a no-op: Redis expires session keys itself.
func (r *RedisStore) Cleanup(ctx context.Context) error { return nil }

func (r *RedisStore) Close() error { return nil }

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) read(ctx context.Context, c getter, id string) (*Session, error) {
	data, err := c.Get(ctx, r.keyer.SessionKey(id)).Bytes()
	if goerrors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return decode(id, data)
}

func decode(id string, data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode session %s", id)
	}
	if s.IsExpired() {
		return nil, expired(id)
	}
	return &s, nil
}

var _ Store = (*RedisStore)(nil)
