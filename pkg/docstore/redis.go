package docstore

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	fwerrors "github.com/framewright/framewright/pkg/errors"
)

// RedisStore keeps each document in a string key <prefix>doc:<id> and
// tracks ids in the set <prefix>docs.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to url and pings the server.
func NewRedisStore(ctx context.Context, url, prefix string, timeout time.Duration) (*RedisStore, error) {
	if err := fwerrors.ValidateURL(url, "redis", "rediss"); err != nil {
		return nil, err
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fwerrors.Wrap(fwerrors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	if timeout > 0 {
		opt.DialTimeout = timeout
		opt.ReadTimeout = timeout
		opt.WriteTimeout = timeout
	}
	client := redis.NewClient(opt)

	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, storageErr("redis", "ping", opt.Addr, err)
	}
	return NewRedisStoreFromClient(client, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. The store takes
// ownership and closes it on Close.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Kind returns "redis".
func (r *RedisStore) Kind() string { return "redis" }

// Load gets the document key.
func (r *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, r.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr("redis", "load", id, err)
	}
	return data, nil
}

// Save sets the document key and indexes the id in one transaction.
func (r *RedisStore) Save(ctx context.Context, id string, data []byte) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.docKey(id), data, 0)
		pipe.SAdd(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return storageErr("redis", "save", id, err)
	}
	return nil
}

// Delete removes the document key and its index entry.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.docKey(id))
		pipe.SRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return storageErr("redis", "delete", id, err)
	}
	return nil
}

// List returns the indexed ids.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, storageErr("redis", "list", r.indexKey(), err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) docKey(id string) string { return r.prefix + "doc:" + id }
func (r *RedisStore) indexKey() string        { return r.prefix + "docs" }

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
