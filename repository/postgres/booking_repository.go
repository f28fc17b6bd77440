package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nacodez/hotel-booking-app/model"
	"github.com/nacodez/hotel-booking-app/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresBookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(databaseURL string) (*PostgresBookingRepository, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate the booking table
	if err := db.AutoMigrate(&model.Booking{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &PostgresBookingRepository{db: db}, nil
}

// NewBookingRepositoryWithDB wraps an existing connection so all
// repositories can share a single pool.
func NewBookingRepositoryWithDB(db *gorm.DB) (*PostgresBookingRepository, error) {
	if err := db.AutoMigrate(&model.Booking{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &PostgresBookingRepository{db: db}, nil
}

// CreateBooking inserts a booking after re-verifying inside the same
// transaction that no active reservation overlaps [checkIn, checkOut).
// The overlap predicate uses half-open semantics, so back-to-back stays
// on the same room do not conflict.
func (r *PostgresBookingRepository) CreateBooking(req model.CreateBookingRequest) (*model.Booking, error) {
	booking := &model.Booking{
		ID:                 uuid.New().String(),
		UserID:             req.UserID,
		RoomID:             req.RoomID,
		RoomName:           req.RoomName,
		CheckInDate:        req.CheckInDate,
		CheckOutDate:       req.CheckOutDate,
		GuestCount:         req.GuestCount,
		GuestName:          req.GuestName,
		GuestEmail:         req.GuestEmail,
		GuestPhone:         req.GuestPhone,
		SpecialRequests:    req.SpecialRequests,
		TotalAmount:        req.TotalAmount,
		PricePerNight:      req.PricePerNight,
		ConfirmationNumber: req.ConfirmationNumber,
		Status:             model.BookingStatusConfirmed,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var conflicts int64
		err := tx.Model(&model.Booking{}).
			Where("room_id = ?", req.RoomID).
			Where("status IN ?", model.ActiveBookingStatuses).
			Where("check_in_date < ? AND check_out_date > ?", req.CheckOutDate, req.CheckInDate).
			Count(&conflicts).Error
		if err != nil {
			return fmt.Errorf("failed to check booking conflicts: %w", err)
		}

		if conflicts > 0 {
			return repository.ErrRoomUnavailable
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBookingByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetBookingByID(bookingID string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.Where("id = ?", bookingID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// QueryBookingsForRooms fetches every booking whose room ID is in the given
// set with one of the given statuses.
func (r *PostgresBookingRepository) QueryBookingsForRooms(roomIDs []string, statuses []string) ([]model.Booking, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	var bookings []model.Booking
	err := r.db.
		Where("room_id IN ?", roomIDs).
		Where("status IN ?", statuses).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for rooms: %w", err)
	}

	return bookings, nil
}

// ListUserBookings retrieves bookings for a specific user with filtering
func (r *PostgresBookingRepository) ListUserBookings(filter model.BookingFilter) ([]model.Booking, int, error) {
	var bookings []model.Booking
	var total int64

	query := r.db.Model(&model.Booking{}).Where("user_id = ?", filter.UserID)

	// Apply status filter if specified
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	// Apply pagination and ordering
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, int(total), nil
}

// CancelBooking marks a booking as cancelled
func (r *PostgresBookingRepository) CancelBooking(bookingID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var booking model.Booking
		err := tx.Where("id = ?", bookingID).First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrBookingNotFound
			}
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.Status == model.BookingStatusCancelled {
			return repository.ErrBookingCancelled
		}

		err = tx.Model(&model.Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":       model.BookingStatusCancelled,
				"cancelled_at": tx.NowFunc(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}
		return nil
	})
}

// GetDB returns the database instance for health checks
func (r *PostgresBookingRepository) GetDB() *gorm.DB {
	return r.db
}
