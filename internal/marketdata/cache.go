package marketdata

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cache is a simple file-backed cache for provider responses. Entries expire
// after the configured TTL; expiry is checked on read.
type cache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
}

type cacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func newCache(dir string, ttl time.Duration) *cache {
	if dir == "" {
		dir = "cache/marketdata"
	}
	os.MkdirAll(dir, 0o755)
	return &cache{dir: dir, ttl: ttl}
}

func (c *cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.filePath(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return entry.Data, true
}

func (c *cache) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{Key: key, Data: data, Timestamp: time.Now()}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath(key), entryData, 0o644)
}

// getOrFetch returns the cached value for key, fetching and storing it when
// absent or expired. Cache write failures are ignored; the fetched data is
// still returned.
func (c *cache) getOrFetch(key string, fetchFn func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.get(key); ok {
		return data, nil
	}
	data, err := fetchFn()
	if err != nil {
		return nil, err
	}
	c.set(key, data)
	return data, nil
}

func (c *cache) filePath(key string) string {
	hash := md5.Sum([]byte(key))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", hash))
}
