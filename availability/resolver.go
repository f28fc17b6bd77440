package availability

import (
	"log"
	"math"
	"time"

	"github.com/nacodez/hotel-booking-app/cache"
	"github.com/nacodez/hotel-booking-app/model"
	"github.com/nacodez/hotel-booking-app/repository"
)

const dateLayout = "2006-01-02"

// Default page size bounds for search and listing requests
const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// batchChunkSize bounds how many room IDs go into one booking query. Keeps
// each query under document-store IN-clause cardinality limits.
const batchChunkSize = 30

// TTLConfig holds the per-entry lifetimes the resolver uses when caching.
// Availability and search entries expire sooner than room pages and counts
// because booking state changes more often than room metadata.
type TTLConfig struct {
	Availability time.Duration
	Search       time.Duration
	RoomPage     time.Duration
	Count        time.Duration
}

// DefaultTTLConfig mirrors the production defaults.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Availability: 2 * time.Minute,
		Search:       time.Minute,
		RoomPage:     3 * time.Minute,
		Count:        5 * time.Minute,
	}
}

// Resolver computes which rooms have no conflicting reservation for a
// requested date range and produces paginated, priced results. The cache is
// consulted before any store work and populated after; cache failures only
// ever degrade to recomputation.
type Resolver struct {
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	cache    cache.CacheRepository
	ttl      TTLConfig
}

func NewResolver(rooms repository.RoomRepository, bookings repository.BookingRepository, cacheRepo cache.CacheRepository, ttl TTLConfig) *Resolver {
	return &Resolver{
		rooms:    rooms,
		bookings: bookings,
		cache:    cacheRepo,
		ttl:      ttl,
	}
}

// SearchAvailableRooms resolves a search query into the page of rooms with
// no conflicting confirmed or checked-in reservation, each annotated with
// nightly and total price. Returns *ValidationError for bad queries and
// *ResolutionError when a store read fails.
func (r *Resolver) SearchAvailableRooms(req model.RoomSearchRequest) (*model.RoomListResponse, error) {
	checkIn, checkOut, err := r.validateQuery(req)
	if err != nil {
		return nil, err
	}

	page, limit := normalizePage(req.Page, req.Limit)

	// Cache consultation happens before any store work
	if cached, cerr := r.cache.GetSearchResults(req, page, limit); cerr != nil {
		log.Printf("Cache read failed for search results, treating as miss: %v", cerr)
	} else if cached != nil {
		return cached, nil
	}

	// Step 1: candidate selection, one page of bookable rooms with enough
	// capacity. The store filters capacity natively; the in-process filter
	// below covers stores that cannot.
	rooms, err := r.rooms.QueryAvailableRooms(model.RoomPageFilter{
		MinCapacity: req.GuestCount,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	})
	if err != nil {
		return nil, &ResolutionError{Op: "query candidate rooms", Err: err}
	}

	totalCount, err := r.rooms.CountAvailableRooms(req.GuestCount)
	if err != nil {
		return nil, &ResolutionError{Op: "count candidate rooms", Err: err}
	}

	candidates := make([]model.Room, 0, len(rooms))
	for _, room := range rooms {
		if req.GuestCount > 0 && room.Capacity < req.GuestCount {
			continue
		}
		candidates = append(candidates, room)
	}

	// Steps 2-3: batch conflict check over the candidate set
	roomIDs := make([]string, len(candidates))
	for i, room := range candidates {
		roomIDs[i] = room.ID
	}
	availabilityResults, resolved := r.checkBatchRoomAvailability(roomIDs, checkIn, checkOut)

	// Step 4: pricing for the rooms that passed the conflict test. Output
	// order follows the store's fetch order.
	nights := stayNights(checkIn, checkOut)
	available := make([]model.RoomSummary, 0, len(candidates))
	for _, room := range candidates {
		if !availabilityResults[room.ID] {
			continue
		}

		summary := room.ToRoomSummary()
		summary.Nights = nights
		summary.Price = float64(nights) * room.Price
		available = append(available, summary)
	}

	response := &model.RoomListResponse{
		Rooms:      available,
		Pagination: paginationMeta(page, limit, totalCount),
	}

	// A degraded conflict check (every room reported unavailable because
	// the booking store errored) is a safety fallback, not an answer worth
	// memoizing. The entry is scoped to the full candidate set so a booking
	// write against any of those rooms drops it.
	if resolved {
		if cerr := r.cache.SetSearchResults(req, page, limit, roomIDs, response, r.ttl.Search); cerr != nil {
			log.Printf("Cache write failed for search results: %v", cerr)
		}
	}

	return response, nil
}

// ListRooms returns one page of the unfiltered room listing. Listing pages
// carry the nightly rate only and are cached longer than date-range
// searches, since room metadata changes rarely. The total count is cached
// separately so a listing for a new page within the count TTL skips the
// count query.
func (r *Resolver) ListRooms(page, limit int) (*model.RoomListResponse, error) {
	page, limit = normalizePage(page, limit)

	if cached, cerr := r.cache.GetRoomPage(page, limit, false); cerr != nil {
		log.Printf("Cache read failed for room page, treating as miss: %v", cerr)
	} else if cached != nil {
		return cached, nil
	}

	totalCount, cerr := r.cache.GetTotalCount(false)
	if cerr != nil {
		log.Printf("Cache read failed for total count, treating as miss: %v", cerr)
		totalCount = -1
	}
	if totalCount < 0 {
		counted, err := r.rooms.CountAvailableRooms(0)
		if err != nil {
			return nil, &ResolutionError{Op: "count room listing", Err: err}
		}
		totalCount = counted
		if cerr := r.cache.SetTotalCount(false, totalCount, r.ttl.Count); cerr != nil {
			log.Printf("Cache write failed for total count: %v", cerr)
		}
	}

	rooms, err := r.rooms.QueryAvailableRooms(model.RoomPageFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, &ResolutionError{Op: "query room listing", Err: err}
	}

	summaries := make([]model.RoomSummary, len(rooms))
	for i, room := range rooms {
		summaries[i] = room.ToRoomSummary()
	}

	response := &model.RoomListResponse{
		Rooms:      summaries,
		Pagination: paginationMeta(page, limit, totalCount),
	}

	if cerr := r.cache.SetRoomPage(page, limit, false, response, r.ttl.RoomPage); cerr != nil {
		log.Printf("Cache write failed for room page: %v", cerr)
	}

	return response, nil
}

// CheckRoomAvailability reports whether a single room is free of active
// reservations over [checkIn, checkOut).
func (r *Resolver) CheckRoomAvailability(roomID string, checkInDate, checkOutDate string) (bool, error) {
	checkIn, err := parseDate(checkInDate)
	if err != nil {
		return false, &ValidationError{Field: "checkInDate", Message: "invalid date format, expected YYYY-MM-DD"}
	}
	checkOut, err := parseDate(checkOutDate)
	if err != nil {
		return false, &ValidationError{Field: "checkOutDate", Message: "invalid date format, expected YYYY-MM-DD"}
	}

	results, _ := r.checkBatchRoomAvailability([]string{roomID}, checkIn, checkOut)
	return results[roomID], nil
}

// checkBatchRoomAvailability determines, for each candidate room, whether
// any active booking's stay overlaps the requested half-open interval. On a
// booking-store failure every room in the batch is reported unavailable
// rather than risking a double-booking; the degraded result is flagged by
// the second return value and never cached.
func (r *Resolver) checkBatchRoomAvailability(roomIDs []string, checkIn, checkOut time.Time) (map[string]bool, bool) {
	if len(roomIDs) == 0 {
		return map[string]bool{}, true
	}

	checkInStr := checkIn.Format(dateLayout)
	checkOutStr := checkOut.Format(dateLayout)

	if cached, cerr := r.cache.GetAvailability(roomIDs, checkInStr, checkOutStr); cerr != nil {
		log.Printf("Cache read failed for availability, treating as miss: %v", cerr)
	} else if cached != nil {
		return cached, true
	}

	var bookings []model.Booking
	for _, chunk := range chunkIDs(roomIDs, batchChunkSize) {
		chunkBookings, err := r.bookings.QueryBookingsForRooms(chunk, model.ActiveBookingStatuses)
		if err != nil {
			log.Printf("Batch availability check failed, marking %d rooms unavailable: %v", len(roomIDs), err)
			results := make(map[string]bool, len(roomIDs))
			for _, id := range roomIDs {
				results[id] = false
			}
			return results, false
		}
		bookings = append(bookings, chunkBookings...)
	}

	// Group bookings by room, then apply the overlap test per room
	bookingsByRoom := make(map[string][]model.Booking)
	for _, booking := range bookings {
		bookingsByRoom[booking.RoomID] = append(bookingsByRoom[booking.RoomID], booking)
	}

	results := make(map[string]bool, len(roomIDs))
	for _, roomID := range roomIDs {
		conflict := false
		for _, booking := range bookingsByRoom[roomID] {
			if datesOverlap(checkIn, checkOut, booking.CheckInDate, booking.CheckOutDate) {
				conflict = true
				break
			}
		}
		results[roomID] = !conflict
	}

	if cerr := r.cache.SetAvailability(roomIDs, checkInStr, checkOutStr, results, r.ttl.Availability); cerr != nil {
		log.Printf("Cache write failed for availability: %v", cerr)
	}

	return results, true
}

// OnBookingCreated drops cached availability for the affected room so the
// next search observes the new booking. Invalidation failure never fails
// the write that triggered it.
func (r *Resolver) OnBookingCreated(roomID string) {
	r.invalidateRoom(roomID, "creation")
}

// OnBookingCancelled drops cached availability for the affected room so the
// next search observes the freed dates.
func (r *Resolver) OnBookingCancelled(roomID string) {
	r.invalidateRoom(roomID, "cancellation")
}

func (r *Resolver) invalidateRoom(roomID, event string) {
	count, err := r.cache.InvalidateRoom(roomID)
	if err != nil {
		log.Printf("Cache invalidation after booking %s failed for room %s: %v", event, roomID, err)
		return
	}
	log.Printf("Invalidated %d availability cache entries for room %s after booking %s", count, roomID, event)
}

func (r *Resolver) validateQuery(req model.RoomSearchRequest) (time.Time, time.Time, error) {
	if req.DestinationCity == "" || req.CheckInDate == "" || req.CheckOutDate == "" {
		return time.Time{}, time.Time{}, &ValidationError{Message: "Missing required search parameters"}
	}

	return ValidateStayDates(req.CheckInDate, req.CheckOutDate)
}

// ValidateStayDates parses and validates a requested stay range: dates must
// be well formed, check-in must not be in the past and check-out must fall
// after check-in. Shared by the search path and booking creation so both
// enforce the same rules. Returns *ValidationError on rejection.
func ValidateStayDates(checkInDate, checkOutDate string) (time.Time, time.Time, error) {
	checkIn, err := parseDate(checkInDate)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "checkInDate", Message: "invalid date format, expected YYYY-MM-DD"}
	}

	checkOut, err := parseDate(checkOutDate)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "checkOutDate", Message: "invalid date format, expected YYYY-MM-DD"}
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, &ValidationError{Field: "checkInDate", Message: "Check-in date cannot be in the past"}
	}

	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, &ValidationError{Field: "checkOutDate", Message: "Check-out date must be after check-in date"}
	}

	return checkIn, checkOut, nil
}

// datesOverlap tests two half-open [checkIn, checkOut) intervals. Touching
// boundaries do not overlap: a checkout on day X and a check-in on day X is
// a valid back-to-back pair.
func datesOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// stayNights counts billable nights for a stay, always at least 1.
func stayNights(checkIn, checkOut time.Time) int {
	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	return nights
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func chunkIDs(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}

	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func paginationMeta(page, limit, totalCount int) model.Pagination {
	totalPages := (totalCount + limit - 1) / limit
	return model.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
