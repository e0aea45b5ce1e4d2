package offline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Entry is a fully buffered response as kept in a cache.
type Entry struct {
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Response builds a fresh response for req; the entry itself is never shared.
func (e Entry) Response(req *http.Request) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// capture drains and closes resp.Body.
func capture(resp *http.Response, now time.Time) (Entry, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, err
	}
	header := resp.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	return Entry{Status: resp.StatusCode, Header: header, Body: body, StoredAt: now}, nil
}

type Cache interface {
	Match(key string) (Entry, bool)
	Put(key string, e Entry)
	// AddAll stores every entry or none of them.
	AddAll(entries map[string]Entry)
}

type CacheStorage interface {
	Open(name string) Cache
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

type MemoryCacheStorage struct {
	mu     sync.Mutex
	caches map[string]*MemoryCache
}

func NewCacheStorage() *MemoryCacheStorage {
	return &MemoryCacheStorage{caches: make(map[string]*MemoryCache)}
}

func (s *MemoryCacheStorage) Open(name string) Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.caches[name]
	if !ok {
		c = &MemoryCache{entries: make(map[string]Entry)}
		s.caches[name] = c
	}
	return c
}

func (s *MemoryCacheStorage) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryCacheStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.caches, name)
	s.mu.Unlock()
	return nil
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func (c *MemoryCache) Match(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *MemoryCache) Put(key string, e Entry) {
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

func (c *MemoryCache) AddAll(entries map[string]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range entries {
		c.entries[k] = e
	}
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
