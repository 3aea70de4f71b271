// Package signature holds the default lawyer signature image. The image is downloaded
// on first use and kept for the life of the process.
package signature

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/Law4Us/Law4Us-sub002/internal/storage"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// Fetcher downloads the signature image.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type FetcherFunc func(ctx context.Context) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]byte, error) { return f(ctx) }

// Cache moves from empty to populated once a fetch succeeds. Reads of a populated
// cache never fetch. Concurrent callers of an empty cache may each fetch; the first
// stored value wins and all of them get identical bytes for the same source. Failed
// fetches are not remembered.
type Cache struct {
	fetcher Fetcher
	value   atomic.Pointer[[]byte]
}

func NewCache(f Fetcher) *Cache {
	return &Cache{fetcher: f}
}

func (c *Cache) Get(ctx context.Context) (types.Payload, error) {
	if v := c.value.Load(); v != nil {
		return *v, nil
	}

	data, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if !c.value.CompareAndSwap(nil, &data) {
		return *c.value.Load(), nil
	}
	return data, nil
}

func (c *Cache) Populated() bool {
	return c.value.Load() != nil
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.value.Store(nil)
}

// S3Fetcher reads the signature from an S3 object.
type S3Fetcher struct {
	client storage.ObjectAPI
	bucket string
	key    string
}

func NewS3Fetcher(client storage.ObjectAPI, bucket, key string) (*S3Fetcher, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, &types.ConfigError{Resource: "bucket", Identifier: "SIGNATURE_BUCKET", Err: types.ErrMissingCredential}
	}
	if strings.TrimSpace(key) == "" {
		return nil, &types.ConfigError{Resource: "object key", Identifier: "SIGNATURE_KEY", Err: types.ErrMissingCredential}
	}
	return &S3Fetcher{client: client, bucket: bucket, key: key}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	return storage.GetObject(ctx, f.client, f.bucket, f.key)
}
