package services

import "testing"

func TestSignalCache_MarkSeenIsIdempotent(t *testing.T) {
	cache := NewMemorySignalCache()

	if cache.HasSeen("a", "b") {
		t.Fatal("new cache must report unseen")
	}

	cache.MarkSeen("a", "b")
	cache.MarkSeen("a", "b")

	if !cache.HasSeen("a", "b") {
		t.Fatal("pair must be seen after marking")
	}
}

func TestSignalCache_PairsAreOrdered(t *testing.T) {
	cache := NewMemorySignalCache()
	cache.MarkSeen("a", "b")

	if cache.HasSeen("b", "a") {
		t.Fatal("seen pairs are ordered; the reverse pair must stay unseen")
	}
}
