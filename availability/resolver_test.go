package availability

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/nacodez/hotel-booking-app/cache/memory"
	"github.com/nacodez/hotel-booking-app/model"
	"gorm.io/gorm"
)

// futureDate returns a YYYY-MM-DD string n days from now, far enough out
// that validation never trips on the past-date guard.
func futureDate(n int) string {
	return time.Now().UTC().AddDate(0, 0, 30+n).Format(dateLayout)
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

type fakeRoomRepo struct {
	rooms      []model.Room
	queryCalls int
	countCalls int
	err        error
}

func (f *fakeRoomRepo) matching(minCapacity int) []model.Room {
	var matched []model.Room
	for _, room := range f.rooms {
		if minCapacity > 0 && room.Capacity < minCapacity {
			continue
		}
		matched = append(matched, room)
	}
	return matched
}

func (f *fakeRoomRepo) QueryAvailableRooms(filter model.RoomPageFilter) ([]model.Room, error) {
	f.queryCalls++
	if f.err != nil {
		return nil, f.err
	}

	matched := f.matching(filter.MinCapacity)
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (f *fakeRoomRepo) CountAvailableRooms(minCapacity int) (int, error) {
	f.countCalls++
	if f.err != nil {
		return 0, f.err
	}
	return len(f.matching(minCapacity)), nil
}

func (f *fakeRoomRepo) GetRoomByID(roomID string) (*model.Room, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == roomID {
			return &f.rooms[i], nil
		}
	}
	return nil, errors.New("room not found")
}

func (f *fakeRoomRepo) GetRoomsByIDs(roomIDs []string) ([]model.Room, error) {
	var rooms []model.Room
	for _, id := range roomIDs {
		if room, err := f.GetRoomByID(id); err == nil {
			rooms = append(rooms, *room)
		}
	}
	return rooms, nil
}

func (f *fakeRoomRepo) CreateRoom(req model.CreateRoomRequest) (*model.Room, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRoomRepo) GetDB() *gorm.DB { return nil }

type fakeBookingRepo struct {
	bookings   []model.Booking
	queryCalls int
	chunkSizes []int
	err        error
}

func (f *fakeBookingRepo) QueryBookingsForRooms(roomIDs []string, statuses []string) ([]model.Booking, error) {
	f.queryCalls++
	f.chunkSizes = append(f.chunkSizes, len(roomIDs))
	if f.err != nil {
		return nil, f.err
	}

	inSet := make(map[string]bool, len(roomIDs))
	for _, id := range roomIDs {
		inSet[id] = true
	}
	statusSet := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		statusSet[s] = true
	}

	var matched []model.Booking
	for _, booking := range f.bookings {
		if inSet[booking.RoomID] && statusSet[booking.Status] {
			matched = append(matched, booking)
		}
	}
	return matched, nil
}

func (f *fakeBookingRepo) CreateBooking(req model.CreateBookingRequest) (*model.Booking, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBookingRepo) GetBookingByID(bookingID string) (*model.Booking, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBookingRepo) ListUserBookings(filter model.BookingFilter) ([]model.Booking, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeBookingRepo) CancelBooking(bookingID string) error {
	return errors.New("not implemented")
}

func (f *fakeBookingRepo) GetDB() *gorm.DB { return nil }

func testRoom(id string, capacity int, price float64) model.Room {
	return model.Room{
		ID:         id,
		Name:       "Room " + id,
		Type:       "standard",
		Capacity:   capacity,
		Price:      price,
		Available:  true,
		RoomStatus: "available",
	}
}

func newTestResolver(rooms *fakeRoomRepo, bookings *fakeBookingRepo) *Resolver {
	return NewResolver(rooms, bookings, memory.NewMemoryCacheRepository(), DefaultTTLConfig())
}

func TestSearchValidation(t *testing.T) {
	resolver := newTestResolver(&fakeRoomRepo{}, &fakeBookingRepo{})

	cases := []struct {
		name string
		req  model.RoomSearchRequest
	}{
		{"missing city", model.RoomSearchRequest{CheckInDate: futureDate(1), CheckOutDate: futureDate(3)}},
		{"missing check-in", model.RoomSearchRequest{DestinationCity: "Lisbon", CheckOutDate: futureDate(3)}},
		{"missing check-out", model.RoomSearchRequest{DestinationCity: "Lisbon", CheckInDate: futureDate(1)}},
		{"bad date format", model.RoomSearchRequest{DestinationCity: "Lisbon", CheckInDate: "01/06/2025", CheckOutDate: futureDate(3)}},
		{"past check-in", model.RoomSearchRequest{DestinationCity: "Lisbon", CheckInDate: "2020-01-01", CheckOutDate: futureDate(3)}},
		{"check-out equals check-in", model.RoomSearchRequest{DestinationCity: "Lisbon", CheckInDate: futureDate(1), CheckOutDate: futureDate(1)}},
		{"inverted range", model.RoomSearchRequest{DestinationCity: "Lisbon", CheckInDate: futureDate(3), CheckOutDate: futureDate(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.SearchAvailableRooms(tc.req)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestDatesOverlapHalfOpen(t *testing.T) {
	existingIn := mustParse(t, "2025-06-01")
	existingOut := mustParse(t, "2025-06-05")

	// Adjacent ranges share a boundary day but do not overlap
	if datesOverlap(mustParse(t, "2025-06-05"), mustParse(t, "2025-06-08"), existingIn, existingOut) {
		t.Error("adjacent ranges must not overlap")
	}

	// One shared night overlaps
	if !datesOverlap(mustParse(t, "2025-06-04"), mustParse(t, "2025-06-08"), existingIn, existingOut) {
		t.Error("ranges sharing a night must overlap")
	}

	// Containment overlaps
	if !datesOverlap(mustParse(t, "2025-05-30"), mustParse(t, "2025-06-10"), existingIn, existingOut) {
		t.Error("containing range must overlap")
	}

	// The mirrored boundary case: existing checkout on the requested
	// check-in day
	if datesOverlap(mustParse(t, "2025-05-28"), mustParse(t, "2025-06-01"), existingIn, existingOut) {
		t.Error("range ending at existing check-in must not overlap")
	}
}

func TestStayNights(t *testing.T) {
	if got := stayNights(mustParse(t, "2025-01-01"), mustParse(t, "2025-01-04")); got != 3 {
		t.Errorf("got %d nights, want 3", got)
	}
	if got := stayNights(mustParse(t, "2025-01-01"), mustParse(t, "2025-01-02")); got != 1 {
		t.Errorf("got %d nights, want 1", got)
	}
}

func TestSearchPricesAvailableRooms(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{testRoom("R1", 2, 100)}}
	resolver := newTestResolver(rooms, &fakeBookingRepo{})

	response, err := resolver.SearchAvailableRooms(model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(3),
		GuestCount:      2,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(response.Rooms) != 1 {
		t.Fatalf("got %d rooms, want 1", len(response.Rooms))
	}

	room := response.Rooms[0]
	if room.Nights != 3 {
		t.Errorf("got %d nights, want 3", room.Nights)
	}
	if room.PricePerNight != 100 {
		t.Errorf("got nightly price %v, want 100", room.PricePerNight)
	}
	if room.Price != 300 {
		t.Errorf("got total price %v, want 300", room.Price)
	}
}

func TestSearchExcludesConflictingRooms(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{
		testRoom("R1", 2, 100),
		testRoom("R2", 2, 150),
		testRoom("R3", 2, 200),
	}}
	bookings := &fakeBookingRepo{bookings: []model.Booking{
		{
			// Overlaps the requested range by one night
			ID: "B1", RoomID: "R1", Status: model.BookingStatusConfirmed,
			CheckInDate:  mustParse(t, futureDate(2)),
			CheckOutDate: mustParse(t, futureDate(6)),
		},
		{
			// Checks out exactly on the requested check-in day
			ID: "B2", RoomID: "R2", Status: model.BookingStatusCheckedIn,
			CheckInDate:  mustParse(t, futureDate(-5)),
			CheckOutDate: mustParse(t, futureDate(0)),
		},
		{
			// Overlapping dates but cancelled, so it does not occupy
			ID: "B3", RoomID: "R3", Status: model.BookingStatusCancelled,
			CheckInDate:  mustParse(t, futureDate(0)),
			CheckOutDate: mustParse(t, futureDate(3)),
		},
	}}
	resolver := newTestResolver(rooms, bookings)

	response, err := resolver.SearchAvailableRooms(model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(3),
		GuestCount:      2,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	ids := make([]string, len(response.Rooms))
	for i, room := range response.Rooms {
		ids[i] = room.ID
	}
	if !reflect.DeepEqual(ids, []string{"R2", "R3"}) {
		t.Errorf("got rooms %v, want [R2 R3]", ids)
	}
}

func TestSearchFiltersByCapacity(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{
		testRoom("R1", 1, 100),
		testRoom("R2", 4, 250),
	}}
	resolver := newTestResolver(rooms, &fakeBookingRepo{})

	response, err := resolver.SearchAvailableRooms(model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(2),
		GuestCount:      3,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(response.Rooms) != 1 || response.Rooms[0].ID != "R2" {
		t.Errorf("got %+v, want only R2", response.Rooms)
	}
}

func TestFailClosedOnConflictCheckError(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{
		testRoom("R1", 2, 100),
		testRoom("R2", 2, 150),
	}}
	bookings := &fakeBookingRepo{err: errors.New("booking store down")}
	resolver := newTestResolver(rooms, bookings)

	req := model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(2),
		GuestCount:      2,
	}

	response, err := resolver.SearchAvailableRooms(req)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(response.Rooms) != 0 {
		t.Errorf("got %d rooms during booking-store outage, want 0", len(response.Rooms))
	}
	if response.Pagination.TotalCount != 2 {
		t.Errorf("pagination totalCount %d, want 2", response.Pagination.TotalCount)
	}

	// The degraded result must not be served from cache once the store
	// recovers
	bookings.err = nil
	response, err = resolver.SearchAvailableRooms(req)
	if err != nil {
		t.Fatalf("search failed after recovery: %v", err)
	}
	if len(response.Rooms) != 2 {
		t.Errorf("got %d rooms after recovery, want 2", len(response.Rooms))
	}
}

func TestCandidateFetchErrorSurfaces(t *testing.T) {
	rooms := &fakeRoomRepo{err: errors.New("room store down")}
	resolver := newTestResolver(rooms, &fakeBookingRepo{})

	_, err := resolver.SearchAvailableRooms(model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(2),
	})

	var resolutionErr *ResolutionError
	if !errors.As(err, &resolutionErr) {
		t.Fatalf("got %v, want ResolutionError", err)
	}
}

func TestIdempotentRequeryServedFromCache(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{testRoom("R1", 2, 100)}}
	bookings := &fakeBookingRepo{}
	resolver := newTestResolver(rooms, bookings)

	req := model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(3),
		GuestCount:      2,
	}

	first, err := resolver.SearchAvailableRooms(req)
	if err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	roomCalls, bookingCalls := rooms.queryCalls, bookings.queryCalls

	second, err := resolver.SearchAvailableRooms(req)
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}

	if rooms.queryCalls != roomCalls || bookings.queryCalls != bookingCalls {
		t.Errorf("second identical search hit the stores: rooms %d->%d, bookings %d->%d",
			roomCalls, rooms.queryCalls, bookingCalls, bookings.queryCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestBatchConflictCheckChunksRoomIDs(t *testing.T) {
	var roomSet []model.Room
	for i := 0; i < 45; i++ {
		roomSet = append(roomSet, testRoom(fmt.Sprintf("R%02d", i), 2, 100))
	}
	rooms := &fakeRoomRepo{rooms: roomSet}
	bookings := &fakeBookingRepo{}
	resolver := newTestResolver(rooms, bookings)

	_, err := resolver.SearchAvailableRooms(model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(2),
		Limit:           50,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if !reflect.DeepEqual(bookings.chunkSizes, []int{30, 15}) {
		t.Errorf("got chunk sizes %v, want [30 15]", bookings.chunkSizes)
	}
}

func TestCheckRoomAvailabilityCachesAndInvalidates(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{testRoom("R1", 2, 100)}}
	bookings := &fakeBookingRepo{}
	resolver := newTestResolver(rooms, bookings)

	checkIn, checkOut := futureDate(0), futureDate(3)

	available, err := resolver.CheckRoomAvailability("R1", checkIn, checkOut)
	if err != nil || !available {
		t.Fatalf("expected available, got %v, %v", available, err)
	}
	calls := bookings.queryCalls

	// Second probe within TTL is a cache hit
	if _, err := resolver.CheckRoomAvailability("R1", checkIn, checkOut); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if bookings.queryCalls != calls {
		t.Errorf("cached probe hit the store: %d -> %d calls", calls, bookings.queryCalls)
	}

	// A booking write invalidates the room's cached availability
	bookings.bookings = append(bookings.bookings, model.Booking{
		ID: "B1", RoomID: "R1", Status: model.BookingStatusConfirmed,
		CheckInDate:  mustParse(t, checkIn),
		CheckOutDate: mustParse(t, checkOut),
	})
	resolver.OnBookingCreated("R1")

	available, err = resolver.CheckRoomAvailability("R1", checkIn, checkOut)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if bookings.queryCalls != calls+1 {
		t.Errorf("invalidated probe did not hit the store")
	}
	if available {
		t.Error("room should be unavailable after the new booking")
	}
}

func TestSearchDropsCachedPageAfterBookingWrite(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{testRoom("R1", 2, 100)}}
	bookings := &fakeBookingRepo{}
	resolver := newTestResolver(rooms, bookings)

	req := model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(3),
		GuestCount:      2,
	}

	first, err := resolver.SearchAvailableRooms(req)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(first.Rooms) != 1 {
		t.Fatalf("got %d rooms before booking, want 1", len(first.Rooms))
	}

	// A booking write against R1 must drop the cached search page, not
	// just the availability entry
	bookings.bookings = append(bookings.bookings, model.Booking{
		ID: "B1", RoomID: "R1", Status: model.BookingStatusConfirmed,
		CheckInDate:  mustParse(t, futureDate(0)),
		CheckOutDate: mustParse(t, futureDate(3)),
	})
	resolver.OnBookingCreated("R1")

	second, err := resolver.SearchAvailableRooms(req)
	if err != nil {
		t.Fatalf("search after booking failed: %v", err)
	}
	if len(second.Rooms) != 0 {
		t.Errorf("second identical search still offers %d room(s) just booked", len(second.Rooms))
	}
}

func TestPaginationMetadata(t *testing.T) {
	var roomSet []model.Room
	for i := 0; i < 25; i++ {
		roomSet = append(roomSet, testRoom(fmt.Sprintf("R%02d", i), 2, 100))
	}
	rooms := &fakeRoomRepo{rooms: roomSet}
	resolver := newTestResolver(rooms, &fakeBookingRepo{})

	response, err := resolver.SearchAvailableRooms(model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(2),
		Page:            2,
		Limit:           10,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	want := model.Pagination{
		CurrentPage: 2,
		TotalPages:  3,
		TotalCount:  25,
		Limit:       10,
		HasNextPage: true,
		HasPrevPage: true,
	}
	if response.Pagination != want {
		t.Errorf("got %+v, want %+v", response.Pagination, want)
	}
	if len(response.Rooms) != 10 {
		t.Errorf("got %d rooms on page 2, want 10", len(response.Rooms))
	}
}

func TestSearchEmptyCandidateSet(t *testing.T) {
	resolver := newTestResolver(&fakeRoomRepo{}, &fakeBookingRepo{})

	response, err := resolver.SearchAvailableRooms(model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     futureDate(0),
		CheckOutDate:    futureDate(2),
	})
	if err != nil {
		t.Fatalf("empty result must be a success, got %v", err)
	}
	if len(response.Rooms) != 0 || response.Pagination.TotalCount != 0 {
		t.Errorf("got %+v, want empty result", response)
	}
}

func TestListRoomsCachedWithNightlyRate(t *testing.T) {
	rooms := &fakeRoomRepo{rooms: []model.Room{testRoom("R1", 2, 100)}}
	resolver := newTestResolver(rooms, &fakeBookingRepo{})

	first, err := resolver.ListRooms(1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if first.Rooms[0].Price != 100 || first.Rooms[0].Nights != 0 {
		t.Errorf("listing must carry the nightly rate only, got %+v", first.Rooms[0])
	}

	calls := rooms.queryCalls
	second, err := resolver.ListRooms(1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if rooms.queryCalls != calls {
		t.Error("second listing hit the store")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached listing differs from computed listing")
	}
}

func TestListRoomsCountSharedAcrossPages(t *testing.T) {
	var roomSet []model.Room
	for i := 0; i < 25; i++ {
		roomSet = append(roomSet, testRoom(fmt.Sprintf("R%02d", i), 2, 100))
	}
	rooms := &fakeRoomRepo{rooms: roomSet}
	resolver := newTestResolver(rooms, &fakeBookingRepo{})

	if _, err := resolver.ListRooms(1, 10); err != nil {
		t.Fatalf("list page 1 failed: %v", err)
	}
	if rooms.countCalls != 1 {
		t.Fatalf("got %d count queries after first page, want 1", rooms.countCalls)
	}

	// A different page misses the page cache but reuses the cached count
	response, err := resolver.ListRooms(2, 10)
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if rooms.countCalls != 1 {
		t.Errorf("got %d count queries after second page, want 1", rooms.countCalls)
	}
	if response.Pagination.TotalCount != 25 || response.Pagination.TotalPages != 3 {
		t.Errorf("unexpected pagination: %+v", response.Pagination)
	}
}
