package session

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/wordbank/pkg/cache"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a store.
type Options struct {
	Backend string
	Dir     string

	// Redis is used by the redis backend. When nil a client is created
	// from RedisOptions and closed with the store.
	Redis        redis.UniversalClient
	RedisOptions cache.RedisOptions
	Keyer        cache.Keyer
}

// Open creates the store named by opts.Backend. An empty name means memory.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		if opts.Redis != nil {
			return NewRedisStore(opts.Redis, opts.Keyer), nil
		}
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisOptions.Addr,
			Password: opts.RedisOptions.Password,
			DB:       opts.RedisOptions.DB,
		})
		return &ownedRedisStore{RedisStore: NewRedisStore(client, opts.Keyer), client: client}, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}

type ownedRedisStore struct {
	*RedisStore
	client *redis.Client
}

func (o *ownedRedisStore) Close() error { return o.client.Close() }
