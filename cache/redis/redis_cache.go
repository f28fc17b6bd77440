package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nacodez/hotel-booking-app/cache"
	"github.com/nacodez/hotel-booking-app/model"
	"github.com/redis/go-redis/v9"
)

// RedisCacheRepository backs the cache contract with Redis for deployments
// that run more than one API process. TTL handling is delegated to Redis
// itself; room-scoped invalidation scans the availability keyspace and
// matches embedded room IDs exactly.
type RedisCacheRepository struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCacheRepository(redisURL, password string, db int) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheRepository{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisCacheRepository) getJSON(key cache.Key, out interface{}) (bool, error) {
	data, err := r.client.Get(r.ctx, key.String()).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil // Cache miss
		}
		return false, err
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisCacheRepository) setJSON(key cache.Key, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, key.String(), data, ttl).Err()
}

// GetAvailability retrieves a cached batch availability result
func (r *RedisCacheRepository) GetAvailability(roomIDs []string, checkIn, checkOut string) (map[string]bool, error) {
	var results map[string]bool
	ok, err := r.getJSON(cache.AvailabilityKey(roomIDs, checkIn, checkOut), &results)
	if err != nil || !ok {
		return nil, err
	}
	return results, nil
}

// SetAvailability stores a batch availability result
func (r *RedisCacheRepository) SetAvailability(roomIDs []string, checkIn, checkOut string, results map[string]bool, ttl time.Duration) error {
	return r.setJSON(cache.AvailabilityKey(roomIDs, checkIn, checkOut), results, ttl)
}

// GetRoomPage retrieves a cached room listing page
func (r *RedisCacheRepository) GetRoomPage(page, limit int, searchMode bool) (*model.RoomListResponse, error) {
	var response model.RoomListResponse
	ok, err := r.getJSON(cache.RoomPageKey(page, limit, searchMode), &response)
	if err != nil || !ok {
		return nil, err
	}
	return &response, nil
}

// SetRoomPage stores a room listing page
func (r *RedisCacheRepository) SetRoomPage(page, limit int, searchMode bool, response *model.RoomListResponse, ttl time.Duration) error {
	return r.setJSON(cache.RoomPageKey(page, limit, searchMode), response, ttl)
}

// GetSearchResults retrieves a cached search result page
func (r *RedisCacheRepository) GetSearchResults(req model.RoomSearchRequest, page, limit int) (*model.RoomListResponse, error) {
	var response model.RoomListResponse
	ok, err := r.getJSON(cache.SearchKey(req, page, limit), &response)
	if err != nil || !ok {
		return nil, err
	}
	return &response, nil
}

// SetSearchResults stores a search result page. The room scope is not
// representable in a flat Redis key, so room-scoped invalidation drops the
// whole search keyspace instead.
func (r *RedisCacheRepository) SetSearchResults(req model.RoomSearchRequest, page, limit int, roomIDs []string, response *model.RoomListResponse, ttl time.Duration) error {
	return r.setJSON(cache.SearchKey(req, page, limit), response, ttl)
}

// GetTotalCount retrieves a cached total room count, -1 on miss
func (r *RedisCacheRepository) GetTotalCount(searchMode bool) (int, error) {
	countStr, err := r.client.Get(r.ctx, cache.CountKey(searchMode).String()).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, nil // Cache miss
		}
		return -1, err
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// SetTotalCount stores a total room count
func (r *RedisCacheRepository) SetTotalCount(searchMode bool, count int, ttl time.Duration) error {
	return r.client.Set(r.ctx, cache.CountKey(searchMode).String(), count, ttl).Err()
}

// InvalidateRoom removes every availability entry embedding the room ID,
// plus all cached search pages. Flattened search keys do not record which
// rooms they cover, so the search keyspace is dropped coarsely rather than
// risking a stale page that still offers the room.
func (r *RedisCacheRepository) InvalidateRoom(roomID string) (int, error) {
	keys, err := r.client.Keys(r.ctx, "availability:*").Result()
	if err != nil {
		return 0, err
	}

	var toDelete []string
	for _, key := range keys {
		for _, id := range cache.ParseAvailabilityRooms(key) {
			if id == roomID {
				toDelete = append(toDelete, key)
				break
			}
		}
	}

	searchKeys, err := r.client.Keys(r.ctx, "search:*").Result()
	if err != nil {
		return 0, err
	}
	toDelete = append(toDelete, searchKeys...)

	if len(toDelete) == 0 {
		return 0, nil
	}

	deleted, err := r.client.Del(r.ctx, toDelete...).Result()
	return int(deleted), err
}

// InvalidateRoomCaches removes all room-derived entries
func (r *RedisCacheRepository) InvalidateRoomCaches() (int, error) {
	deleted := 0
	for _, pattern := range []string{"availability:*", "rooms:*", "count:*", "search:*"} {
		keys, err := r.client.Keys(r.ctx, pattern).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) == 0 {
			continue
		}

		n, err := r.client.Del(r.ctx, keys...).Result()
		deleted += int(n)
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

// Clear removes all entries in the configured database
func (r *RedisCacheRepository) Clear() error {
	return r.client.FlushDB(r.ctx).Err()
}

// Ping checks if Redis is healthy
func (r *RedisCacheRepository) Ping() error {
	return r.client.Ping(r.ctx).Err()
}
