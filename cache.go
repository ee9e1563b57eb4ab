package repat

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tt "github.com/gnolang/repat/internal/types"
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

type cacheEntry struct {
	Metadata     fileMetadata
	Suggestions  []tt.Suggestion
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache remembers the suggestions produced for a fragment file so that
// repeated runs over an unchanged file skip the engine. An entry is
// dropped when the fragment file or the configuration file changes.
type Cache struct {
	entries    map[string]cacheEntry
	mutex      sync.RWMutex
	maxAge     time.Duration
	configFile string
	configHash string
}

// NewCache returns an empty cache. Entries invalidate whenever
// configFile's content changes; pass the path the suggestions were
// produced under, or "" to skip the configuration check.
func NewCache(configFile string) *Cache {
	c := &Cache{
		entries:    make(map[string]cacheEntry),
		configFile: configFile,
	}
	if configFile != "" {
		if hash, err := getFileHash(configFile); err == nil {
			c.configHash = hash
		}
	}
	return c
}

func (c *Cache) Set(filename string, suggestions []tt.Suggestion) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.entries[filename] = cacheEntry{
		Metadata:     metadata,
		Suggestions:  suggestions,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	return nil
}

func (c *Cache) Get(filename string) ([]tt.Suggestion, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Suggestions, true
}

func (c *Cache) isEntryInvalid(filename string, entry cacheEntry) bool {
	// too old
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	currentMetadata, err := getFileMetadata(filename)
	if err != nil || currentMetadata != entry.Metadata {
		return true
	}

	if c.configChanged() {
		return true
	}

	return false
}

// configChanged reports whether the configuration file's content
// differs from what it was when the cache was built. Suggestions
// depend on the configured symbols, constants, and rule severities,
// so a config edit invalidates every entry.
func (c *Cache) configChanged() bool {
	if c.configFile == "" {
		return false
	}

	hash, err := getFileHash(c.configFile)
	if err != nil {
		hash = ""
	}
	return hash != c.configHash
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]cacheEntry)
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         fmt.Sprintf("%x", hash.Sum(nil)),
		LastModified: info.ModTime(),
	}, nil
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
