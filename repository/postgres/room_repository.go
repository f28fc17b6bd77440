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

type PostgresRoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(databaseURL string) (*PostgresRoomRepository, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate the room table
	if err := db.AutoMigrate(&model.Room{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &PostgresRoomRepository{db: db}, nil
}

// NewRoomRepositoryWithDB wraps an existing connection so all repositories
// can share a single pool.
func NewRoomRepositoryWithDB(db *gorm.DB) (*PostgresRoomRepository, error) {
	if err := db.AutoMigrate(&model.Room{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &PostgresRoomRepository{db: db}, nil
}

// QueryAvailableRooms fetches one page of bookable rooms, applying the
// capacity filter natively.
func (r *PostgresRoomRepository) QueryAvailableRooms(filter model.RoomPageFilter) ([]model.Room, error) {
	var rooms []model.Room

	err := r.bookableRooms(filter.MinCapacity).
		Order("created_at ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}

	return rooms, nil
}

// CountAvailableRooms counts bookable rooms matching the capacity filter
func (r *PostgresRoomRepository) CountAvailableRooms(minCapacity int) (int, error) {
	var total int64
	if err := r.bookableRooms(minCapacity).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return int(total), nil
}

func (r *PostgresRoomRepository) bookableRooms(minCapacity int) *gorm.DB {
	query := r.db.Model(&model.Room{}).
		Where("available = ?", true).
		Where("room_status = ?", "available")

	if minCapacity > 0 {
		query = query.Where("capacity >= ?", minCapacity)
	}
	return query
}

// GetRoomByID retrieves a room by its ID
func (r *PostgresRoomRepository) GetRoomByID(roomID string) (*model.Room, error) {
	var room model.Room
	err := r.db.Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return &room, nil
}

// GetRoomsByIDs retrieves all rooms in the given ID set
func (r *PostgresRoomRepository) GetRoomsByIDs(roomIDs []string) ([]model.Room, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	var rooms []model.Room
	if err := r.db.Where("id IN ?", roomIDs).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	return rooms, nil
}

// CreateRoom creates a new room record
func (r *PostgresRoomRepository) CreateRoom(req model.CreateRoomRequest) (*model.Room, error) {
	maxOccupancy := req.MaxOccupancy
	if maxOccupancy == 0 {
		maxOccupancy = req.Capacity
	}

	room := &model.Room{
		ID:           uuid.New().String(),
		HotelID:      req.HotelID,
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		RoomNumber:   req.RoomNumber,
		BedType:      req.BedType,
		Capacity:     req.Capacity,
		MaxOccupancy: maxOccupancy,
		Price:        req.Price,
		Amenities:    req.Amenities,
		Images:       req.Images,
		Available:    true,
		RoomStatus:   "available",
	}

	if err := r.db.Create(room).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

// GetDB returns the database instance for health checks
func (r *PostgresRoomRepository) GetDB() *gorm.DB {
	return r.db
}
