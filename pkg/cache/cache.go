// Package cache stores rendered artifacts so that repeated renders of an
// unchanged scheme with unchanged data are served without rendering.
//
// Three backends implement [Cache]:
//   - [NullCache] stores nothing
//   - [FileCache] keeps entries as files, for the CLI
//   - [RedisCache] shares entries between processes
//
// Keys are built by a [Keyer] from content hashes, so a changed scheme or
// snapshot never hits a stale entry.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/schemeview/pkg/observability"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// PageKey is the key of a rendered page.
	PageKey(schemeHash, dataHash string, opts PageKeyOpts) string
}

// PageKeyOpts are the render options that change a rendered page.
type PageKeyOpts struct {
	ControlRight bool
	Scale        string
	TitleSuffix  string
	Width        float64
	Height       float64
}

// DefaultKeyer builds keys of the form "page:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) PageKey(schemeHash, dataHash string, opts PageKeyOpts) string {
	return digestKey("page", append([]string{schemeHash, dataHash}, opts.fields()...)...)
}

// Instrumented reports hits, misses and writes of c to the registered
// observability hooks under keyType.
func Instrumented(c Cache, keyType string) Cache {
	return &instrumented{Cache: c, keyType: keyType}
}

type instrumented struct {
	Cache
	keyType string
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}
