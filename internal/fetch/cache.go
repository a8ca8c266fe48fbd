package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// pageCache stores fetched markup on disk, one file per URL.
type pageCache struct {
	dir string
	ttl time.Duration
}

func newPageCache(dir string, ttl time.Duration) *pageCache {
	if dir == "" {
		return nil
	}
	return &pageCache{dir: dir, ttl: ttl}
}

func (c *pageCache) path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".html")
}

func (c *pageCache) load(url string) (string, error) {
	filePath := c.path(url)
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) || (err == nil && c.ttl > 0 && time.Since(info.ModTime()) > c.ttl) {
		return "", fmt.Errorf("cache miss or expired")
	}
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *pageCache) save(url, markup string) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return os.WriteFile(c.path(url), []byte(markup), 0644)
}
