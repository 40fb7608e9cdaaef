package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"trackbox/internal/config"
	"trackbox/internal/handlers"
	"trackbox/internal/middleware"
	"trackbox/internal/models"
	"trackbox/internal/repositories"
	"trackbox/internal/services"
	"trackbox/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Loaded once; a missing signing secret means the process must not
	// serve traffic at all.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Track{}, &models.Playlist{}, &models.PlaylistTrack{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Event publishing is supplementary: with no RABBITMQ_URL configured
	// the services simply skip it.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	trackRepo := repositories.NewGORMTrackRepository(db)
	playlistRepo := repositories.NewGORMPlaylistRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminEmails)
	trackService := services.NewTrackService(trackRepo, authService, mqClient)
	playlistService := services.NewPlaylistService(playlistRepo, trackRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	trackHandler := handlers.NewTrackHandler(trackService)
	playlistHandler := handlers.NewPlaylistHandler(playlistService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	// Public routes: registration, login, catalog listing, health. These
	// must precede the protected group so they sit ahead of the auth
	// middleware in the route stack.
	authHandler.RegisterRoutes(app)
	trackHandler.RegisterPublicRoutes(app)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Every route on this group runs the credential verifier and identity
	// resolver before its handler.
	protected := app.Group("", middleware.AuthRequired(authService))

	trackHandler.RegisterProtectedRoutes(protected)
	playlistHandler.RegisterRoutes(protected)

	// --- Event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for playlist events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received event (tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
