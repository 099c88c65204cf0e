// Package cache provides a generic, thread-safe LRU cache used for
// remote context documents. Statistics are always collected; Prometheus
// metrics export is optional via functional options.
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache is a generic key/value cache with LRU eviction.
type Cache[V any] interface {
	// Get retrieves a value by key.
	Get(key string) (V, bool)
	// Set stores a value, reporting whether a new entry was created.
	Set(key string, value V) bool
	// Delete removes an entry, reporting whether it existed.
	Delete(key string) bool
	// Len returns the number of cached entries.
	Len() int
	// Stats returns a snapshot of hit/miss/eviction counters.
	Stats() Stats
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Option configures cache behavior.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	namespace  string
	subsystem  string
}

// WithMetrics exports cache statistics as Prometheus metrics under the
// given namespace and subsystem. A nil registerer disables export.
func WithMetrics(reg prometheus.Registerer, namespace, subsystem string) Option {
	return func(o *options) {
		o.registerer = reg
		o.namespace = namespace
		o.subsystem = subsystem
	}
}

type lruEntry[V any] struct {
	key   string
	value V
}

type lruCache[V any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List // front = most recently used

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	metricHits      prometheus.Counter
	metricMisses    prometheus.Counter
	metricEvictions prometheus.Counter
}

// NewLRU creates an LRU cache bounded to maxSize entries.
func NewLRU[V any](maxSize int, opts ...Option) (Cache[V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("cache: max size must be positive, got %d", maxSize)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &lruCache[V]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}

	if o.registerer != nil {
		counter := func(name, help string) prometheus.Counter {
			return prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: o.namespace,
				Subsystem: o.subsystem,
				Name:      name,
				Help:      help,
			})
		}
		c.metricHits = counter("cache_hits_total", "Total cache hits")
		c.metricMisses = counter("cache_misses_total", "Total cache misses")
		c.metricEvictions = counter("cache_evictions_total", "Total cache evictions")
		for _, m := range []prometheus.Collector{c.metricHits, c.metricMisses, c.metricEvictions} {
			if err := o.registerer.Register(m); err != nil {
				return nil, fmt.Errorf("cache: metrics registration: %w", err)
			}
		}
	}
	return c, nil
}

func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.items[key]
	if !exists {
		var zero V
		c.misses.Add(1)
		if c.metricMisses != nil {
			c.metricMisses.Inc()
		}
		return zero, false
	}

	c.order.MoveToFront(element)
	c.hits.Add(1)
	if c.metricHits != nil {
		c.metricHits.Inc()
	}
	return element.Value.(*lruEntry[V]).value, true
}

func (c *lruCache[V]) Set(key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		element.Value.(*lruEntry[V]).value = value
		c.order.MoveToFront(element)
		return false
	}

	c.items[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value})

	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry[V]).key)
			c.evictions.Add(1)
			if c.metricEvictions != nil {
				c.metricEvictions.Inc()
			}
		}
	}
	return true
}

func (c *lruCache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.items[key]
	if !exists {
		return false
	}
	c.order.Remove(element)
	delete(c.items, key)
	return true
}

func (c *lruCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
