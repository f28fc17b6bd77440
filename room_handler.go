package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nacodez/hotel-booking-app/availability"
	"github.com/nacodez/hotel-booking-app/cache"
	"github.com/nacodez/hotel-booking-app/model"
	"github.com/nacodez/hotel-booking-app/repository"
)

type RoomHandler struct {
	rooms    repository.RoomRepository
	resolver *availability.Resolver
	cache    cache.CacheRepository
}

func NewRoomHandler(rooms repository.RoomRepository, resolver *availability.Resolver, cacheRepo cache.CacheRepository) *RoomHandler {
	return &RoomHandler{
		rooms:    rooms,
		resolver: resolver,
		cache:    cacheRepo,
	}
}

// SearchAvailableRooms handles availability search requests
func (h *RoomHandler) SearchAvailableRooms(c *gin.Context) {
	var req model.RoomSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.resolver.SearchAvailableRooms(req)
	if err != nil {
		var validationErr *availability.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Error:   "validation_failed",
				Message: validationErr.Message,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to search available rooms",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListRooms returns one page of the room catalog for browsing
func (h *RoomHandler) ListRooms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	response, err := h.resolver.ListRooms(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch rooms",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetRoomDetails returns full details for a single room
func (h *RoomHandler) GetRoomDetails(c *gin.Context) {
	roomID := c.Param("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_id",
			Message: "Room ID is required",
		})
		return
	}

	room, err := h.rooms.GetRoomByID(roomID)
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
			Message: "Failed to fetch room details",
		})
		return
	}

	c.JSON(http.StatusOK, room.ToRoomSummary())
}

// HealthCheck handles health check endpoint
func (h *RoomHandler) HealthCheck(c *gin.Context) {
	sqlDB, err := h.rooms.GetDB().DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Database connection failed",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Database ping failed",
		})
		return
	}

	if err := h.cache.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Cache ping failed",
		})
		return
	}

	response := model.HealthResponse{
		Status:    "healthy",
		Service:   "hotel-booking",
		Timestamp: time.Now(),
	}

	c.JSON(http.StatusOK, response)
}
