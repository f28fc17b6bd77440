package memory

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/nacodez/hotel-booking-app/cache"
	"github.com/nacodez/hotel-booking-app/model"
)

// entry holds one cached value together with the structured key it was
// stored under, its insertion time and its time-to-live. The timer evicts
// the entry when the TTL elapses; reads also check expiry themselves in
// case the timer has not fired yet.
type entry struct {
	key      cache.Key
	value    []byte
	storedAt time.Time
	ttl      time.Duration
	timer    *time.Timer
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) >= e.ttl
}

// MemoryCacheRepository is a process-local cache with per-entry TTL timers.
// All methods are safe for concurrent use; a single mutex guards the whole
// instance since get-then-evict and set are each multi-step.
type MemoryCacheRepository struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{
		entries: make(map[string]*entry),
	}
}

// set stores value under key, overwriting any existing entry and resetting
// its expiry. The previous timer is stopped before the new one is armed; an
// already-fired timer is harmless because eviction checks entry identity.
func (c *MemoryCacheRepository) set(key cache.Key, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks := key.String()
	if old, ok := c.entries[ks]; ok {
		old.timer.Stop()
	}

	e := &entry{
		key:      key,
		value:    value,
		storedAt: time.Now(),
		ttl:      ttl,
	}
	e.timer = time.AfterFunc(ttl, func() {
		c.evict(ks, e)
	})
	c.entries[ks] = e
}

// evict removes an entry when its timer fires. The identity check makes the
// last writer win: a timer left over from an overwritten entry must not
// remove the entry that replaced it.
func (c *MemoryCacheRepository) evict(ks string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.entries[ks]; ok && cur == e {
		delete(c.entries, ks)
	}
}

// get returns the stored bytes if present and unexpired. A stale entry found
// at read time is evicted as a side effect and reported as a miss.
func (c *MemoryCacheRepository) get(key cache.Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks := key.String()
	e, ok := c.entries[ks]
	if !ok {
		return nil, false
	}

	if e.expired(time.Now()) {
		c.removeLocked(ks, e)
		return nil, false
	}

	return e.value, true
}

// removeLocked deletes one entry and cancels its pending eviction. Caller
// must hold the mutex.
func (c *MemoryCacheRepository) removeLocked(ks string, e *entry) {
	e.timer.Stop()
	delete(c.entries, ks)
}

// GetAvailability retrieves a cached batch availability result
func (c *MemoryCacheRepository) GetAvailability(roomIDs []string, checkIn, checkOut string) (map[string]bool, error) {
	data, ok := c.get(cache.AvailabilityKey(roomIDs, checkIn, checkOut))
	if !ok {
		return nil, nil // Cache miss
	}

	var results map[string]bool
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SetAvailability stores a batch availability result
func (c *MemoryCacheRepository) SetAvailability(roomIDs []string, checkIn, checkOut string, results map[string]bool, ttl time.Duration) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}

	c.set(cache.AvailabilityKey(roomIDs, checkIn, checkOut), data, ttl)
	return nil
}

// GetRoomPage retrieves a cached room listing page
func (c *MemoryCacheRepository) GetRoomPage(page, limit int, searchMode bool) (*model.RoomListResponse, error) {
	data, ok := c.get(cache.RoomPageKey(page, limit, searchMode))
	if !ok {
		return nil, nil // Cache miss
	}

	var response model.RoomListResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SetRoomPage stores a room listing page
func (c *MemoryCacheRepository) SetRoomPage(page, limit int, searchMode bool, response *model.RoomListResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	c.set(cache.RoomPageKey(page, limit, searchMode), data, ttl)
	return nil
}

// GetSearchResults retrieves a cached search result page
func (c *MemoryCacheRepository) GetSearchResults(req model.RoomSearchRequest, page, limit int) (*model.RoomListResponse, error) {
	data, ok := c.get(cache.SearchKey(req, page, limit))
	if !ok {
		return nil, nil // Cache miss
	}

	var response model.RoomListResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SetSearchResults stores a search result page, scoped to the rooms it was
// computed over so InvalidateRoom can match it.
func (c *MemoryCacheRepository) SetSearchResults(req model.RoomSearchRequest, page, limit int, roomIDs []string, response *model.RoomListResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	c.set(cache.SearchKey(req, page, limit).ScopeRooms(roomIDs), data, ttl)
	return nil
}

// GetTotalCount retrieves a cached total room count, -1 on miss
func (c *MemoryCacheRepository) GetTotalCount(searchMode bool) (int, error) {
	data, ok := c.get(cache.CountKey(searchMode))
	if !ok {
		return -1, nil // Cache miss
	}

	var count int
	if err := json.Unmarshal(data, &count); err != nil {
		return -1, err
	}
	return count, nil
}

// SetTotalCount stores a total room count
func (c *MemoryCacheRepository) SetTotalCount(searchMode bool, count int, ttl time.Duration) error {
	data, err := json.Marshal(count)
	if err != nil {
		return err
	}

	c.set(cache.CountKey(searchMode), data, ttl)
	return nil
}

// InvalidateRoom removes every availability and search entry whose
// structured key covers the given room ID. The scan is linear over all
// entries, which is acceptable for the small single-process working sets
// this cache holds.
func (c *MemoryCacheRepository) InvalidateRoom(roomID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for ks, e := range c.entries {
		if e.key.MatchesRoom(roomID) {
			c.removeLocked(ks, e)
			deleted++
		}
	}
	return deleted, nil
}

// InvalidateRoomCaches removes all room-derived entries: listings, counts,
// search results and availability.
func (c *MemoryCacheRepository) InvalidateRoomCaches() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for ks, e := range c.entries {
		switch e.key.Kind {
		case cache.KindAvailability, cache.KindRoomPage, cache.KindCount, cache.KindSearch:
			c.removeLocked(ks, e)
			deleted++
		}
	}
	return deleted, nil
}

// Clear removes all entries and cancels all pending evictions
func (c *MemoryCacheRepository) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for ks, e := range c.entries {
		c.removeLocked(ks, e)
	}
	return nil
}

// Ping reports the cache as healthy; a process-local map has no connection
// to probe.
func (c *MemoryCacheRepository) Ping() error {
	return nil
}

// CacheStats describes the current contents of the cache
type CacheStats struct {
	Size        int      `json:"size"`
	Keys        []string `json:"keys"`
	MemoryUsage int      `json:"memory_usage"`
}

// Stats returns a snapshot of cache size, keys and approximate memory usage
func (c *MemoryCacheRepository) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{Keys: make([]string, 0, len(c.entries))}
	for ks, e := range c.entries {
		stats.Keys = append(stats.Keys, ks)
		stats.MemoryUsage += len(ks) + len(e.value)
	}
	stats.Size = len(c.entries)
	return stats
}
