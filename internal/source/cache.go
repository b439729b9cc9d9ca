package source

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// CachedSource caches the listing of an underlying source under an explicit
// key until Invalidate is called. The refresh action owns invalidation; there
// is no TTL and no implicit eviction. Downloads are never cached, so content
// fetched after an invalidation is always fresh.
type CachedSource struct {
	inner Source
	key   string

	mu       sync.Mutex
	listings map[string][]FileDescriptor
}

// NewCachedSource wraps inner, keying its listing under key (for Dropbox, the
// folder path).
func NewCachedSource(inner Source, key string) *CachedSource {
	return &CachedSource{
		inner:    inner,
		key:      key,
		listings: make(map[string][]FileDescriptor),
	}
}

func (s *CachedSource) Origin() Origin {
	return s.inner.Origin()
}

// List returns the cached listing when present, otherwise lists the inner
// source and stores the result.
func (s *CachedSource) List(ctx context.Context) ([]FileDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.listings[s.key]; ok {
		return cached, nil
	}

	listed, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	s.listings[s.key] = listed
	return listed, nil
}

// Open delegates to the inner source; content is not cached.
func (s *CachedSource) Open(ctx context.Context, desc FileDescriptor) (io.ReadCloser, error) {
	return s.inner.Open(ctx, desc)
}

// Invalidate drops the cached listing, forcing a re-fetch on the next List.
func (s *CachedSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listings, s.key)
}

// Invalidator is anything whose cached state can be explicitly dropped.
type Invalidator interface {
	Invalidate()
}

// InvalidateAll invalidates every source that caches anything.
func InvalidateAll(sources ...Source) {
	for _, s := range sources {
		if inv, ok := s.(Invalidator); ok {
			inv.Invalidate()
		}
	}
}

// String implements fmt.Stringer for log output.
func (s *CachedSource) String() string {
	return fmt.Sprintf("cached(%s, key=%s)", s.inner.Origin(), s.key)
}

var _ Source = (*CachedSource)(nil)
