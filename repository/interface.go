package repository

import (
	"errors"

	"github.com/nacodez/hotel-booking-app/model"
	"gorm.io/gorm"
)

// Sentinel errors shared by repository implementations
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")

	// ErrRoomUnavailable is returned when booking creation finds a
	// conflicting reservation for the requested dates.
	ErrRoomUnavailable = errors.New("room is not available for the selected dates")

	// ErrBookingCancelled is returned when cancelling an already
	// cancelled booking.
	ErrBookingCancelled = errors.New("booking is already cancelled")
)

// RoomRepository defines the interface for room data operations
type RoomRepository interface {
	// QueryAvailableRooms fetches one page of bookable rooms. MinCapacity
	// filtering beyond what the store expresses natively is the caller's
	// concern.
	QueryAvailableRooms(filter model.RoomPageFilter) ([]model.Room, error)

	// CountAvailableRooms counts bookable rooms with at least minCapacity
	// guests of capacity; zero means no capacity filter. Kept separate from
	// QueryAvailableRooms so callers can serve the count from cache.
	CountAvailableRooms(minCapacity int) (int, error)
	GetRoomByID(roomID string) (*model.Room, error)
	GetRoomsByIDs(roomIDs []string) ([]model.Room, error)
	CreateRoom(req model.CreateRoomRequest) (*model.Room, error)

	// Health check
	GetDB() *gorm.DB
}

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// CreateBooking inserts a booking after re-verifying inside the same
	// transaction that no active reservation overlaps the requested
	// dates. Returns ErrRoomUnavailable on conflict.
	CreateBooking(req model.CreateBookingRequest) (*model.Booking, error)
	GetBookingByID(bookingID string) (*model.Booking, error)

	// QueryBookingsForRooms fetches every booking whose room ID is in the
	// given set and whose status is one of the given statuses.
	QueryBookingsForRooms(roomIDs []string, statuses []string) ([]model.Booking, error)
	ListUserBookings(filter model.BookingFilter) ([]model.Booking, int, error)
	CancelBooking(bookingID string) error

	// Health check
	GetDB() *gorm.DB
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(req model.CreateUserRequest) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(userID string) (*model.User, error)
	ValidatePassword(user *model.User, password string) bool

	// Health check
	GetDB() *gorm.DB
}
