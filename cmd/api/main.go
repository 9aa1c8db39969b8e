package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"afyalink/internal/config"
	"afyalink/internal/handler"
	"afyalink/internal/middleware"
	"afyalink/internal/realtime"
	"afyalink/internal/repository"
	"afyalink/internal/service"
	"afyalink/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (audit archiving will not work)", err)
	}

	channel := realtime.NewChannel(cfg.GatewayWSURL, nil)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, channel, cfg)
	handlers := handler.NewHandlers(services, channel)

	// Gateway feeds land on the facility-wide channels; the connection is
	// established in the background so startup never blocks on the gateway.
	channel.Subscribe("dispatch:" + cfg.FacilityID)
	channel.Subscribe("facility:" + cfg.FacilityID)
	channel.Subscribe("county:alerts")
	go channel.Connect()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Add middleware to extract real IP (for Cloudflare) and User-Agent
	app.Use(middleware.RequestInfo())

	setupRoutes(app, handlers, services.Auth)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		channel.Disconnect()
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Post("/auth/logout", h.Auth.Logout)
	protected.Get("/auth/me", h.Auth.Me)
	protected.Post("/auth/users", middleware.RequireRole("admin"), h.Auth.CreateUser)

	patients := protected.Group("/patients")
	patients.Post("/", h.Patient.Create)
	patients.Get("/", h.Patient.List)
	patients.Get("/lookup", h.Patient.GetByShaNumber)
	patients.Get("/:patientId", h.Patient.Get)
	patients.Put("/:patientId", h.Patient.Update)
	patients.Delete("/:patientId", middleware.RequireRole("admin"), h.Patient.Delete)

	dispatch := protected.Group("/dispatch")
	dispatch.Post("/", middleware.RequireAnyRole("admin", "dispatcher"), h.Dispatch.Create)
	dispatch.Get("/", h.Dispatch.List)
	dispatch.Get("/:callId", h.Dispatch.Get)
	dispatch.Post("/:callId/assign", middleware.RequireAnyRole("admin", "dispatcher"), h.Dispatch.AssignAmbulance)
	dispatch.Patch("/:callId/status", middleware.RequireAnyRole("admin", "dispatcher"), h.Dispatch.UpdateStatus)

	ambulances := protected.Group("/ambulances")
	ambulances.Post("/", middleware.RequireRole("admin"), h.Ambulance.Create)
	ambulances.Get("/", h.Ambulance.List)
	ambulances.Get("/:ambulanceId", h.Ambulance.Get)
	ambulances.Patch("/:ambulanceId/status", h.Ambulance.UpdateStatus)

	claims := protected.Group("/claims")
	claims.Post("/", h.Claim.Submit)
	claims.Get("/", h.Claim.List)
	claims.Get("/:claimId", h.Claim.Get)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:notificationId/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	audit := protected.Group("/audit", middleware.RequireRole("admin"))
	audit.Get("/", h.Audit.List)
	audit.Get("/search", h.Audit.Search)
	audit.Get("/statistics", h.Audit.Statistics)
	audit.Get("/export", h.Audit.Export)
	audit.Post("/archive", h.Audit.Archive)

	rt := protected.Group("/realtime")
	rt.Get("/status", h.Realtime.Status)
	rt.Post("/reconnect", middleware.RequireRole("admin"), h.Realtime.Reconnect)
}
