package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-process fallback backing, used when no
// Redis address is configured. Each scope gets a bounded map with
// insertion-order eviction once the scope's capacity is reached, and
// TTL enforced lazily on read. Decisions are local to one worker
// process only.
type MemoryStore struct {
	mu     sync.Mutex
	scopes map[Scope]*memoryScope
	now    func() time.Time
}

type memoryScope struct {
	entries map[string]*list.Element
	order   *list.List // front = oldest insertion
	policy  Policy
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-process store covering all scopes.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		scopes: make(map[Scope]*memoryScope),
		now:    time.Now,
	}
	for _, s := range Scopes() {
		m.scopes[s] = &memoryScope{
			entries: make(map[string]*list.Element),
			order:   list.New(),
			policy:  PolicyFor(s),
		}
	}
	return m
}

// Get implements Store. Expired entries are removed on read.
func (m *MemoryStore) Get(_ context.Context, scope Scope, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sc := m.scope(scope)
	el, ok := sc.entries[key]
	if !ok {
		return nil, false, nil
	}
	ent := el.Value.(*memoryEntry)
	if m.now().After(ent.expiresAt) {
		sc.order.Remove(el)
		delete(sc.entries, key)
		return nil, false, nil
	}
	return ent.value, true, nil
}

// Set implements Store. Replacing a key refreshes its insertion order;
// once the scope is full the oldest insertion is evicted.
func (m *MemoryStore) Set(_ context.Context, scope Scope, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sc := m.scope(scope)
	if el, ok := sc.entries[key]; ok {
		sc.order.Remove(el)
		delete(sc.entries, key)
	}
	for sc.policy.Capacity > 0 && sc.order.Len() >= sc.policy.Capacity {
		oldest := sc.order.Front()
		sc.order.Remove(oldest)
		delete(sc.entries, oldest.Value.(*memoryEntry).key)
	}
	ent := &memoryEntry{
		key:       key,
		value:     value,
		expiresAt: m.now().Add(sc.policy.TTL),
	}
	sc.entries[key] = sc.order.PushBack(ent)
	return nil
}

// Len reports the number of live-or-expired entries held for a scope.
func (m *MemoryStore) Len(scope Scope) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scope(scope).order.Len()
}

func (m *MemoryStore) scope(s Scope) *memoryScope {
	sc, ok := m.scopes[s]
	if !ok {
		sc = &memoryScope{
			entries: make(map[string]*list.Element),
			order:   list.New(),
			policy:  PolicyFor(s),
		}
		m.scopes[s] = sc
	}
	return sc
}
