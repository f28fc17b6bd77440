package main

import (
	"fmt"
	"log"

	"github.com/nacodez/hotel-booking-app/cache/redis"
	"github.com/nacodez/hotel-booking-app/config"
	"github.com/nacodez/hotel-booking-app/model"
	"github.com/nacodez/hotel-booking-app/repository/postgres"
)

var rooms = []model.CreateRoomRequest{
	{
		Name:         "Deluxe Ocean View",
		Type:         "deluxe",
		Price:        250,
		Capacity:     2,
		MaxOccupancy: 2,
		BedType:      "king",
		Amenities:    []string{"Ocean View", "King Bed", "Mini Bar", "WiFi", "Air Conditioning"},
		Description:  "Luxurious room with stunning ocean views and premium amenities",
		Images:       []string{"https://images.unsplash.com/photo-1566665797739-1674de7a421a?w=800&q=80"},
		HotelID:      "main-hotel",
		RoomNumber:   "201",
	},
	{
		Name:         "Standard City View",
		Type:         "standard",
		Price:        150,
		Capacity:     2,
		MaxOccupancy: 2,
		BedType:      "queen",
		Amenities:    []string{"City View", "Queen Bed", "WiFi", "Air Conditioning"},
		Description:  "Comfortable room with city views and essential amenities",
		Images:       []string{"https://images.unsplash.com/photo-1566665797739-1674de7a421a?w=800&q=80"},
		HotelID:      "main-hotel",
		RoomNumber:   "101",
	},
	{
		Name:         "Family Suite",
		Type:         "suite",
		Price:        400,
		Capacity:     4,
		MaxOccupancy: 4,
		BedType:      "multiple",
		Amenities:    []string{"Living Room", "2 Bedrooms", "Kitchen", "WiFi", "Air Conditioning", "Balcony"},
		Description:  "Spacious suite perfect for families with separate living area",
		Images:       []string{"https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=800&q=80"},
		HotelID:      "main-hotel",
		RoomNumber:   "301",
	},
	{
		Name:         "Executive Business Suite",
		Type:         "executive",
		Price:        350,
		Capacity:     2,
		MaxOccupancy: 3,
		BedType:      "king",
		Amenities:    []string{"Business Center", "King Bed", "Work Desk", "Mini Bar", "WiFi", "Air Conditioning", "City View"},
		Description:  "Perfect for business travelers with dedicated work space and premium amenities",
		Images:       []string{"https://images.unsplash.com/photo-1631049307264-da0ec9d70304?w=800&q=80"},
		HotelID:      "main-hotel",
		RoomNumber:   "401",
	},
	{
		Name:         "Budget Room",
		Type:         "budget",
		Price:        100,
		Capacity:     1,
		MaxOccupancy: 2,
		BedType:      "single",
		Amenities:    []string{"Single Bed", "WiFi", "Air Conditioning", "Shared Bathroom"},
		Description:  "Affordable accommodation with essential amenities for budget travelers",
		Images:       []string{"https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=800&q=80"},
		HotelID:      "main-hotel",
		RoomNumber:   "102",
	},
	{
		Name:         "Deluxe Garden View",
		Type:         "deluxe",
		Price:        220,
		Capacity:     2,
		MaxOccupancy: 3,
		BedType:      "queen",
		Amenities:    []string{"Garden View", "Queen Bed", "Balcony", "WiFi", "Room Service"},
		Description:  "Elegant room overlooking the hotel gardens",
		Images:       []string{"https://images.unsplash.com/photo-1590490360182-c33d57733427?w=800&q=80"},
		HotelID:      "main-hotel",
		RoomNumber:   "202",
	},
}

func main() {
	fmt.Println("Seeding hotel room catalog")

	cfg, err := config.Initialise("config.yaml", false)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	repo, err := postgres.NewRoomRepository(cfg.Database.GetDatabaseURL())
	if err != nil {
		log.Fatal("Failed to initialize room repository:", err)
	}

	created := 0
	for _, req := range rooms {
		room, err := repo.CreateRoom(req)
		if err != nil {
			log.Printf("Failed to create room %q: %v", req.Name, err)
			continue
		}
		log.Printf("Created room %s (%s, $%.0f/night)", room.Name, room.ID, room.Price)
		created++
	}

	if created > 0 {
		invalidateRoomCaches(cfg)
	}

	fmt.Printf("Seeded %d of %d rooms\n", created, len(rooms))
}

// invalidateRoomCaches drops room-derived cache entries after the catalog
// changes. Only the redis backend is shared across processes; an in-memory
// cache belongs to the API process and is unreachable from here.
func invalidateRoomCaches(cfg *config.Config) {
	if cfg.Cache.Backend != "redis" {
		return
	}

	cacheRepo, err := redis.NewRedisCacheRepository(cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Failed to connect to cache for invalidation: %v", err)
		return
	}

	count, err := cacheRepo.InvalidateRoomCaches()
	if err != nil {
		log.Printf("Failed to invalidate room caches: %v", err)
		return
	}
	log.Printf("Invalidated %d room cache entries", count)
}
