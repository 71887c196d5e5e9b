package conversation

import (
	"sync"
	"time"

	"github.com/julianstephens/confmate/internal/models"
)

// Registry tracks in-flight conversations keyed by id with TTL eviction.
// It replaces a process-wide singleton: handlers receive it by reference, so
// tests can run isolated registries side by side.
type Registry struct {
	mu      sync.Mutex
	entries map[string]registryEntry
	ttl     time.Duration
	now     func() time.Time
}

type registryEntry struct {
	conv     models.Conversation
	lastSeen time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores or refreshes a conversation.
func (r *Registry) Put(conv models.Conversation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[conv.ID] = registryEntry{conv: conv, lastSeen: r.now()}
}

// Get returns the conversation if present and unexpired, refreshing its TTL.
func (r *Registry) Get(id string) (models.Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return models.Conversation{}, false
	}
	if r.now().Sub(entry.lastSeen) > r.ttl {
		delete(r.entries, id)
		return models.Conversation{}, false
	}
	entry.lastSeen = r.now()
	r.entries[id] = entry
	return entry.conv, true
}

// Remove drops a conversation, typically once it reaches a terminal phase.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Sweep evicts every expired entry and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	cutoff := r.now().Add(-r.ttl)
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live entries without touching TTLs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
