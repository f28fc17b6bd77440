package cache

import (
	"time"

	"github.com/nacodez/hotel-booking-app/model"
)

// CacheRepository defines the caching operations used by the room search and
// booking paths. Get methods return the zero value with a nil error on cache
// miss. The cache is a pure performance layer: callers log failures and carry
// on as if the lookup missed, they never surface cache errors to users.
type CacheRepository interface {
	// Batch availability results keyed by room set + date range
	GetAvailability(roomIDs []string, checkIn, checkOut string) (map[string]bool, error)
	SetAvailability(roomIDs []string, checkIn, checkOut string, results map[string]bool, ttl time.Duration) error

	// Paginated room listings (browse and search mode)
	GetRoomPage(page, limit int, searchMode bool) (*model.RoomListResponse, error)
	SetRoomPage(page, limit int, searchMode bool, response *model.RoomListResponse, ttl time.Duration) error

	// Full search result pages keyed by criteria + page + limit. roomIDs
	// lists every room the page was computed over (the candidate set, not
	// just the rooms that came back available) so room-scoped invalidation
	// can drop the page when any of them changes.
	GetSearchResults(req model.RoomSearchRequest, page, limit int) (*model.RoomListResponse, error)
	SetSearchResults(req model.RoomSearchRequest, page, limit int, roomIDs []string, response *model.RoomListResponse, ttl time.Duration) error

	// Total room counts; Get returns -1 on miss
	GetTotalCount(searchMode bool) (int, error)
	SetTotalCount(searchMode bool, count int, ttl time.Duration) error

	// InvalidateRoom removes every availability and search entry covering
	// the given room ID, so the next read observes the booking state that
	// triggered the invalidation. Returns the number of entries removed.
	InvalidateRoom(roomID string) (int, error)

	// InvalidateRoomCaches removes all room-derived entries (listings,
	// counts, search results and availability). Used when room metadata
	// itself changes. Returns the number of entries removed.
	InvalidateRoomCaches() (int, error)

	// Clear removes all entries. Full resets only, never the request path.
	Clear() error

	// Health check
	Ping() error
}
