// Package cache provides small in-process caches.
package cache

// Cache is a keyed store with best-effort retention.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Size() int
}
