package content

import (
	"io/fs"
	"sync"
	"time"

	"github.com/Lexer747/folio/types"
)

type cacheEntry struct {
	modTime time.Time
	size    int64
	post    types.Post
}

// postCache holds parsed posts until their file's mtime or size changes.
type postCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newPostCache() *postCache {
	return &postCache{entries: map[string]cacheEntry{}}
}

func (c *postCache) get(slug string, info fs.FileInfo) (types.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[slug]
	if !ok || !entry.modTime.Equal(info.ModTime()) || entry.size != info.Size() {
		return types.Post{}, false
	}
	return entry.post, true
}

func (c *postCache) put(slug string, info fs.FileInfo, post types.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = cacheEntry{modTime: info.ModTime(), size: info.Size(), post: post}
}

func (c *postCache) invalidate(slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, slug)
}

func (c *postCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
