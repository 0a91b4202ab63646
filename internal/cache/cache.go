// Package cache holds the time-bound page cache used by the anonymous list
// views. Keys derive from request path plus query; the TTL is fixed at
// construction so tests can expire entries without sleeping through the
// production window.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const maxEntries = 512

// Entry is one cached page render.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

// Pages is a read-through cache of rendered pages.
type Pages struct {
	lru *expirable.LRU[string, Entry]
}

func New(ttl time.Duration) *Pages {
	return &Pages{lru: expirable.NewLRU[string, Entry](maxEntries, nil, ttl)}
}

// Key derives the cache key for a request path and raw query.
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

func (p *Pages) Get(key string) (Entry, bool) { return p.lru.Get(key) }

func (p *Pages) Set(key string, e Entry) { p.lru.Add(key, e) }

func (p *Pages) Purge() { p.lru.Purge() }
