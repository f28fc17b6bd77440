package model

import (
	"time"
)

// Booking statuses. Only confirmed and checked-in bookings occupy a date
// range for conflict purposes.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCheckedIn = "checked-in"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// ActiveBookingStatuses lists the statuses that block a room's dates.
var ActiveBookingStatuses = []string{BookingStatusConfirmed, BookingStatusCheckedIn}

// ============================================================================
// DATABASE ENTITIES (Internal - GORM only, no JSON tags)
// ============================================================================

// Booking represents the booking entity in the database. CheckInDate and
// CheckOutDate form a half-open interval [checkIn, checkOut).
type Booking struct {
	ID                 string    `gorm:"type:text;primary_key"`
	UserID             string    `gorm:"type:text;not null;index"`
	RoomID             string    `gorm:"type:text;not null;index"`
	RoomName           string    `gorm:"type:varchar(255)"`
	CheckInDate        time.Time `gorm:"not null"`
	CheckOutDate       time.Time `gorm:"not null"`
	GuestCount         int       `gorm:"not null;default:1"`
	GuestName          string    `gorm:"type:varchar(255);not null"`
	GuestEmail         string    `gorm:"type:varchar(255);not null"`
	GuestPhone         string    `gorm:"type:varchar(50)"`
	SpecialRequests    string    `gorm:"type:text"`
	TotalAmount        float64   `gorm:"type:decimal(10,2);not null"`
	PricePerNight      float64   `gorm:"type:decimal(10,2);not null"`
	ConfirmationNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Status             string    `gorm:"type:varchar(20);not null;default:'confirmed';index"`
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName sets the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// ============================================================================
// REPOSITORY DATA TRANSFER OBJECTS (Internal - no JSON tags)
// ============================================================================

// CreateBookingRequest represents the data needed to create a booking
type CreateBookingRequest struct {
	UserID             string
	RoomID             string
	RoomName           string
	CheckInDate        time.Time
	CheckOutDate       time.Time
	GuestCount         int
	GuestName          string
	GuestEmail         string
	GuestPhone         string
	SpecialRequests    string
	TotalAmount        float64
	PricePerNight      float64
	ConfirmationNumber string
}

// BookingFilter represents filtering options for booking queries
type BookingFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// GuestInformation represents guest contact details in a booking request
type GuestInformation struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"specialRequests"`
}

// CreateBookingAPIRequest represents the API request to create a booking
type CreateBookingAPIRequest struct {
	RoomID           string           `json:"roomId" binding:"required"`
	RoomName         string           `json:"roomName"`
	CheckInDate      string           `json:"checkInDate" binding:"required"`
	CheckOutDate     string           `json:"checkOutDate" binding:"required"`
	GuestCount       int              `json:"guestCount"`
	GuestInformation GuestInformation `json:"guestInformation" binding:"required"`
	TotalAmount      float64          `json:"totalAmount"`
	PricePerNight    float64          `json:"pricePerNight"`
}

// BookingResponse represents booking data in API responses
type BookingResponse struct {
	BookingID          string     `json:"bookingId"`
	ConfirmationNumber string     `json:"confirmationNumber"`
	RoomID             string     `json:"roomId"`
	RoomName           string     `json:"roomName"`
	CheckInDate        string     `json:"checkInDate"`
	CheckOutDate       string     `json:"checkOutDate"`
	GuestCount         int        `json:"guestCount"`
	GuestName          string     `json:"guestName"`
	GuestEmail         string     `json:"guestEmail"`
	TotalAmount        float64    `json:"totalAmount"`
	PricePerNight      float64    `json:"pricePerNight"`
	Status             string     `json:"status"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// UserBookingsResponse represents the list of a user's bookings
type UserBookingsResponse struct {
	Bookings []BookingResponse `json:"data"`
	Total    int               `json:"total"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ============================================================================
// KAFKA MESSAGE STRUCTURES
// ============================================================================

// Notification types published to the notification topic
const (
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingCancelled = "booking_cancelled"
)

// NotificationRequest represents the message sent to the notification topic
type NotificationRequest struct {
	Type           string                  `json:"type"`
	RecipientEmail string                  `json:"recipient_email"`
	BookingData    NotificationBookingData `json:"booking_data"`
	Timestamp      time.Time               `json:"timestamp"`
}

// NotificationBookingData represents booking data for notifications
type NotificationBookingData struct {
	BookingID          string  `json:"booking_id"`
	ConfirmationNumber string  `json:"confirmation_number"`
	RoomName           string  `json:"room_name"`
	CheckInDate        string  `json:"check_in_date"`
	CheckOutDate       string  `json:"check_out_date"`
	TotalAmount        float64 `json:"total_amount"`
	GuestName          string  `json:"guest_name"`
}

// EmailTemplate represents a rendered email ready for delivery
type EmailTemplate struct {
	To      string
	Subject string
	Body    string
}

// ============================================================================
// CONVERSION METHODS
// ============================================================================

const dateLayout = "2006-01-02"

// ToBookingResponse converts a Booking entity to an API response
func (b *Booking) ToBookingResponse() BookingResponse {
	return BookingResponse{
		BookingID:          b.ID,
		ConfirmationNumber: b.ConfirmationNumber,
		RoomID:             b.RoomID,
		RoomName:           b.RoomName,
		CheckInDate:        b.CheckInDate.Format(dateLayout),
		CheckOutDate:       b.CheckOutDate.Format(dateLayout),
		GuestCount:         b.GuestCount,
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		TotalAmount:        b.TotalAmount,
		PricePerNight:      b.PricePerNight,
		Status:             b.Status,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
	}
}

// ToNotificationRequest builds the notification message for this booking
func (b *Booking) ToNotificationRequest(notificationType string) NotificationRequest {
	return NotificationRequest{
		Type:           notificationType,
		RecipientEmail: b.GuestEmail,
		BookingData: NotificationBookingData{
			BookingID:          b.ID,
			ConfirmationNumber: b.ConfirmationNumber,
			RoomName:           b.RoomName,
			CheckInDate:        b.CheckInDate.Format(dateLayout),
			CheckOutDate:       b.CheckOutDate.Format(dateLayout),
			TotalAmount:        b.TotalAmount,
			GuestName:          b.GuestName,
		},
		Timestamp: time.Now(),
	}
}
