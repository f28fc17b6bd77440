package cache

import (
	"reflect"
	"testing"

	"github.com/nacodez/hotel-booking-app/model"
)

func TestAvailabilityKeyDeterministicUnderReordering(t *testing.T) {
	a := AvailabilityKey([]string{"R2", "R1"}, "2025-01-01", "2025-01-05")
	b := AvailabilityKey([]string{"R1", "R2"}, "2025-01-01", "2025-01-05")

	if a.String() != b.String() {
		t.Errorf("keys differ under reordering: %q vs %q", a.String(), b.String())
	}
	if a.String() != "availability:R1,R2:2025-01-01:2025-01-05" {
		t.Errorf("unexpected key form: %q", a.String())
	}
}

func TestAvailabilityKeyDoesNotMutateInput(t *testing.T) {
	ids := []string{"R2", "R1"}
	AvailabilityKey(ids, "2025-01-01", "2025-01-05")

	if !reflect.DeepEqual(ids, []string{"R2", "R1"}) {
		t.Errorf("input slice was mutated: %v", ids)
	}
}

func TestMatchesRoomExact(t *testing.T) {
	key := AvailabilityKey([]string{"R1", "R10"}, "2025-01-01", "2025-01-05")

	if !key.MatchesRoom("R1") {
		t.Error("expected key to match R1")
	}
	if !key.MatchesRoom("R10") {
		t.Error("expected key to match R10")
	}
	if key.MatchesRoom("R") {
		t.Error("prefix of an ID must not match")
	}

	// R1 appears only as a prefix of R100 here; a substring match would
	// report a false positive
	key = AvailabilityKey([]string{"R100"}, "2025-01-01", "2025-01-05")
	if key.MatchesRoom("R1") {
		t.Error("R1 must not match key containing only R100")
	}
}

func TestMatchesRoomUnscopedKinds(t *testing.T) {
	key := RoomPageKey(1, 10, false)
	if key.MatchesRoom("R1") {
		t.Error("room page keys embed no rooms")
	}
}

func TestScopeRoomsMatchesExactly(t *testing.T) {
	req := model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     "2025-06-01",
		CheckOutDate:    "2025-06-05",
	}

	plain := SearchKey(req, 1, 10)
	scoped := plain.ScopeRooms([]string{"R10", "R2"})

	// The annotation must not change which slot the entry occupies
	if scoped.String() != plain.String() {
		t.Errorf("scoping changed the flattened key: %q vs %q", scoped.String(), plain.String())
	}

	if !scoped.MatchesRoom("R2") || !scoped.MatchesRoom("R10") {
		t.Error("scoped search key must match its rooms")
	}
	if scoped.MatchesRoom("R1") {
		t.Error("R1 must not match a key scoped to R10 and R2")
	}
	if plain.MatchesRoom("R2") {
		t.Error("unscoped search key must not match any room")
	}
}

func TestSearchKeyStableForEqualCriteria(t *testing.T) {
	req := model.RoomSearchRequest{
		DestinationCity: "Lisbon",
		CheckInDate:     "2025-06-01",
		CheckOutDate:    "2025-06-05",
		GuestCount:      2,
	}

	a := SearchKey(req, 1, 10)
	b := SearchKey(req, 1, 10)
	if a.String() != b.String() {
		t.Errorf("equal criteria produced different keys: %q vs %q", a.String(), b.String())
	}

	other := req
	other.GuestCount = 3
	if SearchKey(other, 1, 10).String() == a.String() {
		t.Error("different criteria must produce different keys")
	}

	if SearchKey(req, 2, 10).String() == a.String() {
		t.Error("different pages must produce different keys")
	}
}

func TestPageAndCountKeyModes(t *testing.T) {
	if got := RoomPageKey(2, 10, true).String(); got != "rooms:search:2:10" {
		t.Errorf("unexpected search page key: %q", got)
	}
	if got := RoomPageKey(2, 10, false).String(); got != "rooms:browse:2:10" {
		t.Errorf("unexpected browse page key: %q", got)
	}
	if got := CountKey(true).String(); got != "count:search" {
		t.Errorf("unexpected count key: %q", got)
	}
}

func TestParseAvailabilityRooms(t *testing.T) {
	key := AvailabilityKey([]string{"R2", "R1"}, "2025-01-01", "2025-01-05")

	got := ParseAvailabilityRooms(key.String())
	if !reflect.DeepEqual(got, []string{"R1", "R2"}) {
		t.Errorf("unexpected rooms: %v", got)
	}

	if ParseAvailabilityRooms("rooms:browse:1:10") != nil {
		t.Error("non-availability keys must parse to nil")
	}
}
