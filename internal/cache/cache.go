// Package cache provides disk caching for the daemon's voice catalog.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/speakturbo/speakturbo/internal/voice"
)

const (
	// DefaultExpiry is how long a cached voice catalog stays valid.
	DefaultExpiry = 24 * time.Hour
	// VoicesFileName is the catalog file inside the cache directory.
	VoicesFileName = "voices.json"
	// AppName is used for the cache directory name.
	AppName = "speakturbo"
)

// Cache manages disk-based caching of the voice catalog.
type Cache struct {
	baseDir string
	expiry  time.Duration
}

// NewCache creates a Cache instance with the default expiry.
func NewCache() (*Cache, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return nil, err
	}

	return &Cache{
		baseDir: cacheDir,
		expiry:  DefaultExpiry,
	}, nil
}

// GetCacheDir returns the platform-specific cache directory for the application.
func GetCacheDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}

	return filepath.Join(userCacheDir, AppName), nil
}

// GetVoices retrieves the cached voice catalog. Returns nil if the cache is
// missing, expired, or unreadable.
func (c *Cache) GetVoices() *voice.Catalog {
	voicesPath := filepath.Join(c.baseDir, VoicesFileName)

	info, err := os.Stat(voicesPath)
	if err != nil {
		return nil
	}

	if time.Since(info.ModTime()) > c.expiry {
		if err := os.Remove(voicesPath); err != nil {
			log.Debug().Err(err).Str("file", voicesPath).Msg("Failed to remove expired cache file")
		}
		return nil
	}

	data, err := os.ReadFile(voicesPath)
	if err != nil {
		return nil
	}

	var catalog voice.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Debug().Err(err).Str("file", voicesPath).Msg("Failed to decode cached voice catalog")
		return nil
	}

	return &catalog
}

// SaveVoices stores the voice catalog in the cache.
func (c *Cache) SaveVoices(catalog *voice.Catalog) error {
	if err := os.MkdirAll(c.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode voice catalog: %w", err)
	}

	voicesPath := filepath.Join(c.baseDir, VoicesFileName)
	if err := os.WriteFile(voicesPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}
