package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nacodez/hotel-booking-app/availability"
	"github.com/nacodez/hotel-booking-app/cache"
	"github.com/nacodez/hotel-booking-app/cache/memory"
	rediscache "github.com/nacodez/hotel-booking-app/cache/redis"
	"github.com/nacodez/hotel-booking-app/config"
	"github.com/nacodez/hotel-booking-app/repository/postgres"
	"github.com/segmentio/kafka-go"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	// Single shared connection pool for all repositories
	db, err := gorm.Open(gormpostgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	roomRepo, err := postgres.NewRoomRepositoryWithDB(db)
	if err != nil {
		log.Fatal("Failed to initialize room repository:", err)
	}

	bookingRepo, err := postgres.NewBookingRepositoryWithDB(db)
	if err != nil {
		log.Fatal("Failed to initialize booking repository:", err)
	}

	userRepo, err := postgres.NewUserRepositoryWithDB(db)
	if err != nil {
		log.Fatal("Failed to initialize user repository:", err)
	}

	// Initialize cache backend
	cacheRepo := newCacheRepository(cfg)

	// Initialize the availability resolver on top of the stores and cache
	resolver := availability.NewResolver(roomRepo, bookingRepo, cacheRepo, resolverTTLs(cfg))

	// Initialize Kafka writer for notifications
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.NotificationTopic,
		Balancer: &kafka.LeastBytes{},
	}

	// Initialize JWT service
	jwtService := NewJWTService(cfg.JWTSecret)

	// Initialize handlers
	roomHandler := NewRoomHandler(roomRepo, resolver, cacheRepo)
	bookingHandler := NewBookingHandler(bookingRepo, roomRepo, resolver, kafkaWriter)
	userHandler := NewUserHandler(userRepo, jwtService)

	// Setup Gin router
	r := gin.Default()

	// Add middleware
	r.Use(CORSMiddleware())
	r.Use(LoggingMiddleware())

	// Health check endpoint (no auth required)
	r.GET("/health", roomHandler.HealthCheck)

	// API routes
	api := r.Group("/api")

	// Public endpoints
	api.POST("/users/register", userHandler.RegisterUser)
	api.POST("/users/login", userHandler.LoginUser)
	api.POST("/rooms/search", roomHandler.SearchAvailableRooms)
	api.GET("/rooms", roomHandler.ListRooms)
	api.GET("/rooms/:roomId", roomHandler.GetRoomDetails)

	// Protected endpoints (require authentication)
	protected := api.Group("")
	protected.Use(AuthMiddleware(jwtService))

	protected.GET("/users/profile", userHandler.GetProfile)
	protected.POST("/bookings", bookingHandler.CreateBooking)
	protected.GET("/bookings", bookingHandler.ListUserBookings)
	protected.GET("/bookings/:bookingId", bookingHandler.GetBookingDetails)
	protected.POST("/bookings/:bookingId/cancel", bookingHandler.CancelBooking)
	protected.POST("/bookings/:bookingId/email", bookingHandler.SendBookingEmail)

	return r
}

func newCacheRepository(cfg *config.Config) cache.CacheRepository {
	if cfg.Cache.Backend == "redis" {
		cacheRepo, err := rediscache.NewRedisCacheRepository(cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to initialize Redis cache:", err)
		}
		return cacheRepo
	}
	return memory.NewMemoryCacheRepository()
}

func resolverTTLs(cfg *config.Config) availability.TTLConfig {
	return availability.TTLConfig{
		Availability: time.Duration(cfg.Cache.AvailabilityTTLSeconds) * time.Second,
		Search:       time.Duration(cfg.Cache.SearchTTLSeconds) * time.Second,
		RoomPage:     time.Duration(cfg.Cache.RoomPageTTLSeconds) * time.Second,
		Count:        time.Duration(cfg.Cache.CountTTLSeconds) * time.Second,
	}
}
