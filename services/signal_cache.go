package services

import "sync"

// SignalCache records which (viewer, candidate) pairs have already been
// surfaced, so a signal is never delivered twice.
type SignalCache interface {
	HasSeen(viewerID, candidateID string) bool
	// MarkSeen is idempotent; marking an already-seen pair is a no-op.
	MarkSeen(viewerID, candidateID string)
}

type seenPair struct {
	viewerID    string
	candidateID string
}

// MemorySignalCache is the process-local SignalCache implementation.
type MemorySignalCache struct {
	mu   sync.RWMutex
	seen map[seenPair]struct{}
}

func NewMemorySignalCache() *MemorySignalCache {
	return &MemorySignalCache{seen: make(map[seenPair]struct{})}
}

func (c *MemorySignalCache) HasSeen(viewerID, candidateID string) bool {
	c.mu.RLock()
	_, ok := c.seen[seenPair{viewerID, candidateID}]
	c.mu.RUnlock()
	return ok
}

func (c *MemorySignalCache) MarkSeen(viewerID, candidateID string) {
	c.mu.Lock()
	c.seen[seenPair{viewerID, candidateID}] = struct{}{}
	c.mu.Unlock()
}
