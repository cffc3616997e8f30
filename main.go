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

	"proveedores/internal/handlers"
	"proveedores/internal/middleware"
	"proveedores/internal/models"
	"proveedores/internal/repositories"
	"proveedores/internal/services"
	"proveedores/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("ADMIN_PASSPHRASE", "")
	viper.SetDefault("JWT_SECRET", "proveedores_dev_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("STRICT_NUMERIC_IDS", true)
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	adminPassphrase := viper.GetString("ADMIN_PASSPHRASE")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	strictNumericIDs := viper.GetBool("STRICT_NUMERIC_IDS")

	if adminPassphrase == "" {
		log.Fatal("ADMIN_PASSPHRASE must be configured; the review flow cannot be unlocked without it")
	}

	// --- Initialize Repository ---
	// With a DSN we persist to PostgreSQL; without one we fall back to the
	// in-memory repository, which is enough for local form testing.
	var supplierRepo repositories.SupplierRepository
	if databaseDSN != "" {
		db, err := gorm.Open(postgres.Open(databaseDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.SupplierRecord{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		supplierRepo = repositories.NewGORMSupplierRepository(db)
	} else {
		log.Println("No DATABASE_DSN configured, using in-memory repository")
		supplierRepo = repositories.NewMemorySupplierRepository()
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Registration events are best-effort; the intake form works without a
	// broker, so a missing or unreachable broker only logs a warning.
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: failed to initialize RabbitMQ client, events disabled: %v", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	// --- Initialize Services ---
	supplierService := services.NewSupplierService(supplierRepo, publisher, strictNumericIDs)
	accessService := services.NewAccessService(adminPassphrase, jwtSecret)

	// --- Initialize Handlers ---
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	reviewHandler := handlers.NewReviewHandler(supplierService, accessService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Submission flow (public)
	supplierHandler.RegisterRoutes(apiV1)
	// Review flow, gated behind the session token
	reviewHandler.RegisterRoutes(apiV1, middleware.ReviewAccess(accessService))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// Listens for supplier registration events. Downstream systems (e.g.
	// purchasing notifications) hang off this queue.
	if mqClient != nil && publisher != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for supplier events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received supplier event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeSupplierEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
