package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/providers"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter is an in-process CacheProvider. Expired entries are evicted
// when they are read; there is no background sweep.
type MemoryAdapter struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

// NewMemoryAdapter creates an in-process cache holding at most maxEntries
// keys. When full, Set drops expired entries first and then refuses new keys.
func NewMemoryAdapter(maxEntries int) *MemoryAdapter {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryAdapter{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

// lookup returns the live entry for key, evicting it when expired.
// Callers must hold a.mu.
func (a *MemoryAdapter) lookup(key string) (memoryEntry, bool) {
	e, ok := a.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !a.now().Before(e.expiresAt) {
		delete(a.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", providers.ErrCacheMiss, key)
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value; expirationSeconds <= 0 keeps it until deleted.
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.entries[key]; !exists && len(a.entries) >= a.maxEntries {
		for k := range a.entries {
			a.lookup(k)
		}
		if len(a.entries) >= a.maxEntries {
			return fmt.Errorf("memory cache full (%d entries)", a.maxEntries)
		}
	}

	e := memoryEntry{value: make([]byte, len(value))}
	copy(e.value, value)
	if expirationSeconds > 0 {
		e.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.entries[key] = e
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, key)
	return nil
}

// Exists checks if a live key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.lookup(key)
	return ok, nil
}

// Len returns the number of stored entries, including expired ones not yet read.
func (a *MemoryAdapter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
