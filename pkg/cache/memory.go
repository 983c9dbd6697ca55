package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	data     []byte
	expireAt time.Time
}

func (m *memoryItem) expired() bool {
	return time.Now().After(m.expireAt)
}

// MemoryCache implements Service with an in-process map. Used for tests
// and single-host deployments without Redis.
type MemoryCache struct {
	data  map[string]*memoryItem
	mutex sync.RWMutex
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]*memoryItem)}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.data[key] = &memoryItem{data: data, expireAt: time.Now().Add(expiration)}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	item, ok := mc.data[key]
	if !ok || item.expired() {
		if ok {
			delete(mc.data, key)
		}
		return ErrNotFound
	}
	return json.Unmarshal(item.data, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	delete(mc.data, key)
	return nil
}

func (mc *MemoryCache) Close() error {
	return nil
}
