/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package snapshot

import (
	"sync"

	"bennypowers.dev/cargo-new-deps/metadata"
)

// Cache holds loaded snapshots keyed by Source.Key, so comparing a source
// with itself only acquires it once.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// cacheEntry holds a cached value and coordinates concurrent loading.
type cacheEntry struct {
	m    *metadata.Metadata
	err  error
	once sync.Once
}

// NewCache creates an empty snapshot cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// GetOrLoad returns the snapshot cached under key, calling loader at most
// once per key. Failed loads are not cached.
func (c *Cache) GetOrLoad(key string, loader func() (*metadata.Metadata, error)) (*metadata.Metadata, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	// Only one goroutine executes the loader; others block until once.Do completes
	entry.once.Do(func() {
		entry.m, entry.err = loader()
	})

	if entry.err != nil {
		c.forget(key, entry)
		return nil, entry.err
	}
	return entry.m, nil
}

// forget drops entry if it is still the one stored under key.
func (c *Cache) forget(key string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[key] == entry {
		delete(c.entries, key)
	}
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
