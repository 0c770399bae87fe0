// Package cache provides the group-scoped cache namespace used by the
// token store. Every key written through a KeyGroup shares one group
// segment, so clearing the group invalidates exactly this subsystem
// without touching unrelated cached data.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-oauth-store/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const cacheKeyPrefix = "go-oauth-store::v1"

// KeyGroup namespaces keys into one cache group backed by a
// go-repository-cache CacheService. Reads are read-through: a miss runs
// the fetch function and caches its result, including negative outcomes.
// Cache-layer failures degrade to a direct fetch; they are never allowed
// to fail the caller.
//
// Clear walks the keys this instance has written. With a shared cache
// service behind multiple processes, each instance only clears the keys it
// has seen; deployments needing global flush semantics must fan the flush
// out to every instance.
type KeyGroup struct {
	group   string
	service repositorycache.CacheService
	logger  glog.Logger

	mu   sync.Mutex
	keys map[string]struct{}
}

// NewKeyGroup builds a KeyGroup for the named cache group.
func NewKeyGroup(group string, service repositorycache.CacheService, logger glog.Logger) (*KeyGroup, error) {
	if strings.TrimSpace(group) == "" {
		return nil, fmt.Errorf("cache: group name is required")
	}
	if service == nil {
		return nil, fmt.Errorf("cache: cache service is required")
	}
	return &KeyGroup{
		group:   strings.TrimSpace(group),
		service: service,
		logger:  glog.Ensure(logger),
		keys:    map[string]struct{}{},
	}, nil
}

// NewService builds a cache service over the library defaults. A positive
// TTL overrides the default entry lifetime.
func NewService(ttl time.Duration) (repositorycache.CacheService, error) {
	config := repositorycache.DefaultConfig()
	if ttl > 0 {
		config.TTL = ttl
	}
	return repositorycache.NewCacheService(config)
}

// NewKeyGroupFromConfig builds a KeyGroup and its backing cache service
// from the resolved cache configuration.
func NewKeyGroupFromConfig(cfg core.CacheConfig, logger glog.Logger) (*KeyGroup, error) {
	service, err := NewService(time.Duration(cfg.TTLSeconds) * time.Second)
	if err != nil {
		return nil, fmt.Errorf("cache: build cache service: %w", err)
	}
	return NewKeyGroup(cfg.Group, service, logger)
}

// GroupKey returns the deterministic namespaced cache key:
// go-oauth-store::v1::<group>::<key> with the group and key segments
// URL-path escaped.
func GroupKey(group string, key string) string {
	segments := []string{cacheKeyPrefix, url.PathEscape(group), url.PathEscape(key)}
	return strings.Join(segments, "::")
}

func (g *KeyGroup) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	if g == nil || g.service == nil {
		return nil, fmt.Errorf("cache: key group is not configured")
	}
	namespaced := GroupKey(g.group, key)
	g.track(namespaced)

	value, err := repositorycache.GetOrFetch(ctx, g.service, namespaced, fetch)
	if err == nil {
		return value, nil
	}

	// The cache is a performance layer. When it misbehaves, serve the
	// caller from the source and keep going.
	g.logger.Warn("cache read-through failed, falling back to source", "key", namespaced, "error", err)
	return fetch(ctx)
}

func (g *KeyGroup) Delete(ctx context.Context, key string) error {
	if g == nil || g.service == nil {
		return fmt.Errorf("cache: key group is not configured")
	}
	namespaced := GroupKey(g.group, key)
	g.untrack(namespaced)
	return g.service.Delete(ctx, namespaced)
}

// Clear evicts every key this group has written.
func (g *KeyGroup) Clear(ctx context.Context) error {
	if g == nil || g.service == nil {
		return fmt.Errorf("cache: key group is not configured")
	}
	var firstErr error
	for _, namespaced := range g.snapshot() {
		g.untrack(namespaced)
		if err := g.service.Delete(ctx, namespaced); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (g *KeyGroup) track(namespaced string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys == nil {
		g.keys = map[string]struct{}{}
	}
	g.keys[namespaced] = struct{}{}
}

func (g *KeyGroup) untrack(namespaced string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, namespaced)
}

func (g *KeyGroup) snapshot() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.keys))
	for key := range g.keys {
		out = append(out, key)
	}
	return out
}
