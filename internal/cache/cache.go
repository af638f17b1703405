// Package cache provides an optional lookup cache for hot catalog queries
// (barcode and phone lookups at the till). The Noop implementation is used
// when no Redis is configured; the store remains the source of truth.
package cache

import (
	"context"
	"time"
)

type LookupCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Flush drops every cached lookup; called after a reference-data pull
	// replaces the snapshots.
	Flush(ctx context.Context) error
}

type NoopCache struct{}

func (NoopCache) Get(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil }

func (NoopCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }

func (NoopCache) Flush(_ context.Context) error { return nil }
