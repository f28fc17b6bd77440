package main

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nacodez/hotel-booking-app/availability"
	"github.com/nacodez/hotel-booking-app/model"
	"github.com/nacodez/hotel-booking-app/repository"
	"github.com/segmentio/kafka-go"
)

type BookingHandler struct {
	bookings    repository.BookingRepository
	rooms       repository.RoomRepository
	resolver    *availability.Resolver
	kafkaWriter *kafka.Writer
}

func NewBookingHandler(bookings repository.BookingRepository, rooms repository.RoomRepository, resolver *availability.Resolver, kafkaWriter *kafka.Writer) *BookingHandler {
	return &BookingHandler{
		bookings:    bookings,
		rooms:       rooms,
		resolver:    resolver,
		kafkaWriter: kafkaWriter,
	}
}

func generateConfirmationNumber() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	random := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:4])
	return "HB" + timestamp[len(timestamp)-6:] + random
}

// CreateBooking handles booking creation. The room's dates are probed
// against the availability resolver first, then re-verified transactionally
// at insert time so two concurrent requests cannot both book the same
// overlapping range.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Error:   "unauthorized",
			Message: "User ID not found in token",
		})
		return
	}

	// Same date rules as the search path: well-formed, not in the past,
	// check-out after check-in
	checkIn, checkOut, err := availability.ValidateStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		var validationErr *availability.ValidationError
		message := "Invalid stay dates"
		if errors.As(err, &validationErr) {
			message = validationErr.Message
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: message,
		})
		return
	}

	room, err := h.rooms.GetRoomByID(req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to verify room",
		})
		return
	}

	// Fast-path conflict probe; the repository re-checks inside the insert
	// transaction.
	available, err := h.resolver.CheckRoomAvailability(req.RoomID, req.CheckInDate, req.CheckOutDate)
	if err == nil && !available {
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Error:   "room_unavailable",
			Message: "Room is not available for the selected dates",
		})
		return
	}

	// Price is computed server-side from the authoritative nightly rate
	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}

	roomName := req.RoomName
	if roomName == "" {
		roomName = room.Name
	}

	guestCount := req.GuestCount
	if guestCount < 1 {
		guestCount = 1
	}

	createReq := model.CreateBookingRequest{
		UserID:             userID,
		RoomID:             req.RoomID,
		RoomName:           roomName,
		CheckInDate:        checkIn,
		CheckOutDate:       checkOut,
		GuestCount:         guestCount,
		GuestName:          req.GuestInformation.Name,
		GuestEmail:         req.GuestInformation.Email,
		GuestPhone:         req.GuestInformation.Phone,
		SpecialRequests:    req.GuestInformation.SpecialRequests,
		TotalAmount:        float64(nights) * room.Price,
		PricePerNight:      room.Price,
		ConfirmationNumber: generateConfirmationNumber(),
	}

	booking, err := h.bookings.CreateBooking(createReq)
	if err != nil {
		if errors.Is(err, repository.ErrRoomUnavailable) {
			c.JSON(http.StatusConflict, model.ErrorResponse{
				Error:   "room_unavailable",
				Message: "Room is not available for the selected dates",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create booking reservation",
		})
		return
	}

	// Drop cached availability for this room so subsequent searches see
	// the new booking
	h.resolver.OnBookingCreated(booking.RoomID)

	h.publishNotification(c, booking, model.NotificationBookingConfirmed)

	c.JSON(http.StatusCreated, booking.ToBookingResponse())
}

// ListUserBookings returns the booking history for the authenticated user
func (h *BookingHandler) ListUserBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Error:   "unauthorized",
			Message: "User ID not found in token",
		})
		return
	}

	filter := model.BookingFilter{
		UserID: userID,
		Status: c.Query("status"),
		Limit:  50,
		Offset: 0,
	}

	bookings, total, err := h.bookings.ListUserBookings(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch booking history",
		})
		return
	}

	responses := make([]model.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = booking.ToBookingResponse()
	}

	c.JSON(http.StatusOK, model.UserBookingsResponse{
		Bookings: responses,
		Total:    total,
	})
}

// GetBookingDetails returns a single booking owned by the caller
func (h *BookingHandler) GetBookingDetails(c *gin.Context) {
	booking, ok := h.ownedBooking(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, booking.ToBookingResponse())
}

// CancelBooking cancels a booking owned by the caller
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, ok := h.ownedBooking(c)
	if !ok {
		return
	}

	if err := h.bookings.CancelBooking(booking.ID); err != nil {
		if errors.Is(err, repository.ErrBookingCancelled) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Error:   "already_cancelled",
				Message: "Booking is already cancelled",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to cancel booking",
		})
		return
	}

	// Drop cached availability for this room so the freed dates are
	// searchable again
	h.resolver.OnBookingCancelled(booking.RoomID)

	h.publishNotification(c, booking, model.NotificationBookingCancelled)

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

// SendBookingEmail queues a confirmation email for a booking owned by the caller
func (h *BookingHandler) SendBookingEmail(c *gin.Context) {
	booking, ok := h.ownedBooking(c)
	if !ok {
		return
	}

	h.publishNotification(c, booking, model.NotificationBookingConfirmed)

	c.JSON(http.StatusAccepted, gin.H{
		"message":   "Booking confirmation email queued",
		"recipient": booking.GuestEmail,
	})
}

// ownedBooking loads the booking from the path parameter and verifies the
// caller owns it, writing the error response itself when not.
func (h *BookingHandler) ownedBooking(c *gin.Context) (*model.Booking, bool) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_id",
			Message: "Booking ID is required",
		})
		return nil, false
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Error:   "unauthorized",
			Message: "User ID not found in token",
		})
		return nil, false
	}

	booking, err := h.bookings.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Error:   "not_found",
				Message: "Booking not found",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch booking",
		})
		return nil, false
	}

	if booking.UserID != userID {
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Error:   "forbidden",
			Message: "Not authorized to access this booking",
		})
		return nil, false
	}

	return booking, true
}

// publishNotification sends the booking notification to Kafka. Delivery
// failure is logged, never surfaced: the booking write already succeeded.
func (h *BookingHandler) publishNotification(c *gin.Context, booking *model.Booking, notificationType string) {
	if h.kafkaWriter == nil {
		return
	}

	msg := booking.ToNotificationRequest(notificationType)
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal notification for booking %s: %v", booking.ID, err)
		return
	}

	err = h.kafkaWriter.WriteMessages(c.Request.Context(), kafka.Message{
		Key:   []byte(booking.ID),
		Value: msgBytes,
	})
	if err != nil {
		log.Printf("Failed to publish %s notification for booking %s: %v", notificationType, booking.ID, err)
	}
}
