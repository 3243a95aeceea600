package sink

import (
	"context"
	"errors"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/passview/pkg/cache"
	perrors "github.com/matzehuels/passview/pkg/errors"
)

const (
	redisKeyPrefix = "passview:artifact:"
	redisIndexKey  = "passview:artifacts"
)

// Redis stores artifacts as Redis strings and indexes their names in a set.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis server named by a redis:// URL. A failing
// ping is retried with cache.DefaultBackoff.
func NewRedis(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	err = cache.RetryWithBackoff(ctx, cache.DefaultBackoff, func() error {
		return cache.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "redis: connect %s", opts.Addr)
	}
	return NewRedisWithClient(client), nil
}

// NewRedisWithClient wraps an existing client. The sink owns the client and
// closes it on Close.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Backend implements Sink.
func (r *Redis) Backend() string { return "redis" }

// Put stores the artifact and indexes its name in one transaction.
func (r *Redis) Put(ctx context.Context, name string, data []byte) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+name, data, 0)
	pipe.SAdd(ctx, redisIndexKey, name)
	_, err := pipe.Exec(ctx)
	return record(ctx, r.Backend(), name, len(data), err)
}

// Get returns the stored artifact.
func (r *Redis) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(r.Backend(), name)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "redis: get %s", name)
	}
	return data, nil
}

// List returns the indexed names in lexical order.
func (r *Redis) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "redis: list")
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Sink = (*Redis)(nil)
