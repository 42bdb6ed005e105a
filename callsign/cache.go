/*
NAME
  cache.go

DESCRIPTION
  cache.go implements the callsign hash-resolution cache: a three-way FIFO
  store (10/12/22-bit hash -> plain callsign text) threaded explicitly
  through callers rather than held as package-level state.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package callsign

import "sync"

// DefaultCacheCapacity bounds each of a Cache's three hash stores. The 22-bit
// store is the one spec calls out explicitly; the 10 and 12-bit stores share
// the same bound for simplicity, though their much smaller key spaces (1024
// and 4096 possible hashes) mean they rarely approach it in practice.
const DefaultCacheCapacity = 1000

// Cache resolves a callsign hash back to the plain text it was computed
// from, learned from callsigns seen spelled out in full elsewhere in a
// decode session. It is safe for concurrent use.
type Cache struct {
	mu  sync.Mutex
	h10 fifoStore
	h12 fifoStore
	h22 fifoStore
}

// NewCache returns an empty Cache with the default per-store capacity.
func NewCache() *Cache {
	return &Cache{
		h10: newFIFOStore(DefaultCacheCapacity),
		h12: newFIFOStore(DefaultCacheCapacity),
		h22: newFIFOStore(DefaultCacheCapacity),
	}
}

// Insert registers call under all three of its hashes. call should be the
// plain token (no "<...>", no "/R" or "/P"); Hash10/12/22 normalize it the
// same way a lookup value was derived, so later hashed references to the
// same station resolve regardless of case.
func (c *Cache) Insert(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	norm := normalizeForHash(call)
	c.h10.put(uint32(hashCallsign(norm, 10)), call)
	c.h12.put(uint32(hashCallsign(norm, 12)), call)
	c.h22.put(uint32(hashCallsign(norm, 22)), call)
}

// Lookup10 resolves a 10-bit hash, if this cache has seen a matching callsign.
func (c *Cache) Lookup10(hash uint16) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h10.get(uint32(hash))
}

// Lookup12 resolves a 12-bit hash, if this cache has seen a matching callsign.
func (c *Cache) Lookup12(hash uint16) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h12.get(uint32(hash))
}

// Lookup22 resolves a 22-bit hash, if this cache has seen a matching callsign.
func (c *Cache) Lookup22(hash uint32) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h22.get(hash)
}

// fifoStore is a fixed-capacity map with FIFO eviction by insertion order.
// Re-inserting an existing key updates its value but does not move it back
// to the end of the eviction queue - a stale entry can still be evicted
// ahead of one inserted more recently, matching documented WSJT-X behavior.
type fifoStore struct {
	capacity int
	order    []uint32
	values   map[uint32]string
}

func newFIFOStore(capacity int) fifoStore {
	return fifoStore{capacity: capacity, values: make(map[uint32]string)}
}

func (s *fifoStore) put(key uint32, value string) {
	if _, exists := s.values[key]; exists {
		s.values[key] = value
		return
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.values, oldest)
	}
	s.order = append(s.order, key)
	s.values[key] = value
}

func (s *fifoStore) get(key uint32) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}
