package cache

import "sync"

// keyed is the guarded map behind every cache in this package.
type keyed[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func newKeyed[V any]() *keyed[V] {
	return &keyed[V]{items: make(map[string]V)}
}

func (k *keyed[V]) get(key string) (V, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.items[key]
	return v, ok
}

func (k *keyed[V]) put(key string, v V) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.items[key] = v
}

// putIfAbsent stores the value built by create unless key is present.
func (k *keyed[V]) putIfAbsent(key string, create func() V) (V, bool) {
	if v, ok := k.get(key); ok {
		return v, false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if v, ok := k.items[key]; ok {
		return v, false
	}
	v := create()
	k.items[key] = v
	return v, true
}

func (k *keyed[V]) remove(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.items, key)
}

// removeWhere deletes matching entries and returns their keys.
func (k *keyed[V]) removeWhere(match func(V) bool) []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	var removed []string
	for key, v := range k.items {
		if match(v) {
			delete(k.items, key)
			removed = append(removed, key)
		}
	}
	return removed
}

func (k *keyed[V]) len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.items)
}
