package model

import (
	"time"

	"github.com/lib/pq"
)

// ============================================================================
// DATABASE ENTITIES (Internal - GORM only, no JSON tags)
// ============================================================================

// Room represents the room entity in the database
type Room struct {
	ID           string         `gorm:"type:text;primary_key"`
	HotelID      string         `gorm:"type:text;not null;index"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Description  string         `gorm:"type:text"`
	Type         string         `gorm:"type:varchar(50);not null"`
	RoomNumber   string         `gorm:"type:varchar(20)"`
	BedType      string         `gorm:"type:varchar(50)"`
	Capacity     int            `gorm:"not null"`
	MaxOccupancy int            `gorm:"not null"`
	Price        float64        `gorm:"type:decimal(10,2);not null"`
	Amenities    pq.StringArray `gorm:"type:text[]"`
	Images       pq.StringArray `gorm:"type:text[]"`
	Available    bool           `gorm:"not null;default:true;index"`
	RoomStatus   string         `gorm:"type:varchar(20);not null;default:'available'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName sets the table name for GORM
func (Room) TableName() string {
	return "rooms"
}

// ============================================================================
// REPOSITORY DATA TRANSFER OBJECTS (Internal - no JSON tags)
// ============================================================================

// RoomPageFilter represents pagination options for room queries
type RoomPageFilter struct {
	MinCapacity int
	Limit       int
	Offset      int
}

// CreateRoomRequest represents the data needed to create a room
type CreateRoomRequest struct {
	HotelID      string
	Name         string
	Description  string
	Type         string
	RoomNumber   string
	BedType      string
	Capacity     int
	MaxOccupancy int
	Price        float64
	Amenities    []string
	Images       []string
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// RoomSearchRequest represents the API request for searching rooms
type RoomSearchRequest struct {
	DestinationCity string `json:"destinationCity" binding:"required"`
	CheckInDate     string `json:"checkInDate" binding:"required"`
	CheckOutDate    string `json:"checkOutDate" binding:"required"`
	GuestCount      int    `json:"guestCount"`
	RoomCount       int    `json:"roomCount"`
	Page            int    `json:"page"`
	Limit           int    `json:"limit"`
}

// RoomSummary represents room data in API responses
type RoomSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Description   string   `json:"description,omitempty"`
	Image         string   `json:"image"`
	Price         float64  `json:"price"`
	PricePerNight float64  `json:"pricePerNight"`
	Nights        int      `json:"nights,omitempty"`
	Amenities     []string `json:"amenities"`
	RoomType      string   `json:"roomType"`
	Capacity      int      `json:"capacity"`
	MaxOccupancy  int      `json:"maxOccupancy"`
	BedType       string   `json:"bedType,omitempty"`
	RoomNumber    string   `json:"roomNumber,omitempty"`
	HotelID       string   `json:"hotelId,omitempty"`
}

// Pagination represents pagination metadata in API responses
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// RoomListResponse represents a paginated page of rooms
type RoomListResponse struct {
	Rooms      []RoomSummary `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// ============================================================================
// CONVERSION METHODS
// ============================================================================

// ToRoomSummary converts a Room entity to its listing representation.
// Price carries the nightly rate; search results overwrite it with the
// stay total.
func (r *Room) ToRoomSummary() RoomSummary {
	image := "/placeholder-room.jpg"
	if len(r.Images) > 0 {
		image = r.Images[0]
	}

	maxOccupancy := r.MaxOccupancy
	if maxOccupancy == 0 {
		maxOccupancy = r.Capacity
	}

	return RoomSummary{
		ID:            r.ID,
		Title:         r.Name,
		Subtitle:      titleCase(r.Type) + " Room",
		Description:   r.Description,
		Image:         image,
		Price:         r.Price,
		PricePerNight: r.Price,
		Amenities:     r.Amenities,
		RoomType:      r.Type,
		Capacity:      r.Capacity,
		MaxOccupancy:  maxOccupancy,
		BedType:       r.BedType,
		RoomNumber:    r.RoomNumber,
		HotelID:       r.HotelID,
	}
}

func titleCase(s string) string {
	if s == "" {
		return "Standard"
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
