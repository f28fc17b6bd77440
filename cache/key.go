package cache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nacodez/hotel-booking-app/model"
)

// Kind identifies which logical query a cache key memoizes.
type Kind string

const (
	KindAvailability Kind = "availability"
	KindRoomPage     Kind = "rooms"
	KindCount        Kind = "count"
	KindSearch       Kind = "search"
)

// Key is the structured form of a cache key. Keys are composed from the
// logical query they memoize and only flattened to a string at the storage
// boundary, so room-scoped invalidation can match the RoomIDs field exactly
// instead of substring-searching opaque strings (room "R1" never matches a
// key holding "R10").
type Key struct {
	Kind     Kind
	RoomIDs  []string // sorted; the rooms the cached value covers
	CheckIn  string
	CheckOut string
	Mode     string // "search" or "browse"; room page and count keys
	Criteria string // encoded search criteria; search keys only
	Page     int
	Limit    int
}

// AvailabilityKey derives the key for a batch availability result. Room IDs
// are sorted before composing so two logically identical queries always
// produce the same key regardless of argument ordering.
func AvailabilityKey(roomIDs []string, checkIn, checkOut string) Key {
	sorted := make([]string, len(roomIDs))
	copy(sorted, roomIDs)
	sort.Strings(sorted)

	return Key{
		Kind:     KindAvailability,
		RoomIDs:  sorted,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
}

// RoomPageKey derives the key for a paginated room listing.
func RoomPageKey(page, limit int, searchMode bool) Key {
	return Key{
		Kind:  KindRoomPage,
		Mode:  pageMode(searchMode),
		Page:  page,
		Limit: limit,
	}
}

// CountKey derives the key for a cached total room count.
func CountKey(searchMode bool) Key {
	return Key{
		Kind: KindCount,
		Mode: pageMode(searchMode),
	}
}

// SearchKey derives the key for a full search result page. The criteria are
// encoded from a fixed-field struct so the encoding is stable for equal
// queries.
func SearchKey(req model.RoomSearchRequest, page, limit int) Key {
	return Key{
		Kind:     KindSearch,
		Criteria: encodeCriteria(req),
		Page:     page,
		Limit:    limit,
	}
}

// ScopeRooms returns a copy of the key annotated with the room IDs the
// cached value covers, sorted. The annotation does not change the flattened
// key; it exists so room-scoped invalidation can match the entry exactly.
func (k Key) ScopeRooms(roomIDs []string) Key {
	sorted := make([]string, len(roomIDs))
	copy(sorted, roomIDs)
	sort.Strings(sorted)

	k.RoomIDs = sorted
	return k
}

func pageMode(searchMode bool) string {
	if searchMode {
		return "search"
	}
	return "browse"
}

func encodeCriteria(req model.RoomSearchRequest) string {
	criteria := struct {
		DestinationCity string `json:"destinationCity"`
		CheckInDate     string `json:"checkInDate"`
		CheckOutDate    string `json:"checkOutDate"`
		GuestCount      int    `json:"guestCount"`
		RoomCount       int    `json:"roomCount"`
	}{
		DestinationCity: req.DestinationCity,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		GuestCount:      req.GuestCount,
		RoomCount:       req.RoomCount,
	}

	data, err := json.Marshal(criteria)
	if err != nil {
		// Marshalling a flat struct of strings and ints cannot fail; keep
		// the cache on the safe side anyway and fall back to a literal key.
		return fmt.Sprintf("%s:%s:%s:%d", req.DestinationCity, req.CheckInDate, req.CheckOutDate, req.GuestCount)
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// MatchesRoom reports whether this key covers the given room ID. True for
// availability keys embedding the ID and for search keys scoped to a room
// set containing it.
func (k Key) MatchesRoom(roomID string) bool {
	i := sort.SearchStrings(k.RoomIDs, roomID)
	return i < len(k.RoomIDs) && k.RoomIDs[i] == roomID
}

// String flattens the key for the storage boundary.
func (k Key) String() string {
	switch k.Kind {
	case KindAvailability:
		return fmt.Sprintf("availability:%s:%s:%s", strings.Join(k.RoomIDs, ","), k.CheckIn, k.CheckOut)
	case KindRoomPage:
		return fmt.Sprintf("rooms:%s:%d:%d", k.Mode, k.Page, k.Limit)
	case KindCount:
		return fmt.Sprintf("count:%s", k.Mode)
	case KindSearch:
		return fmt.Sprintf("search:%s:%d:%d", k.Criteria, k.Page, k.Limit)
	default:
		return string(k.Kind)
	}
}

// ParseAvailabilityRooms extracts the room IDs embedded in a flattened
// availability key. Used by backends that only see string keys (Redis) so
// their room-scoped invalidation still matches IDs exactly.
func ParseAvailabilityRooms(key string) []string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 || parts[0] != string(KindAvailability) {
		return nil
	}
	return strings.Split(parts[1], ",")
}
