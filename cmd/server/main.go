package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/confera/conference-hub/internal/config"
	"github.com/confera/conference-hub/internal/database"
	"github.com/confera/conference-hub/internal/handler"
	"github.com/confera/conference-hub/internal/repository"
	"github.com/confera/conference-hub/internal/service"
	"github.com/confera/conference-hub/internal/utils"
)

// @title           Conference Hub API
// @version         1.0
// @description     Multi-tenant conference and event management backend.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// ── Database ─────────────────────────────────────────
	db := database.Connect(&cfg.Database)
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	log.Printf("Running migrations from: %s", migrationsPath)
	if err := database.RunMigrations(db, migrationsPath); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	seeder := database.NewSeeder(db)
	if err := seeder.SeedDefaults(context.Background(), cfg.Tenant.DefaultSlug); err != nil {
		log.Printf("Warning: seed failed: %v", err)
	}

	// ── Storage (MinIO) ──────────────────────────────────
	storage, err := utils.NewStorageService(&cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}
	log.Println("MinIO connected successfully")

	// ── Repositories ─────────────────────────────────────
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	speakerRepo := repository.NewSpeakerRepository(db)
	sponsorRepo := repository.NewSponsorRepository(db)

	// ── Services ─────────────────────────────────────────
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	eventService := service.NewEventService(eventRepo, storage)
	registrationService := service.NewRegistrationService(registrationRepo, eventRepo)
	certificateService := service.NewCertificateService(certificateRepo, registrationRepo, eventRepo, storage, cfg.App.URL)
	speakerService := service.NewSpeakerService(speakerRepo, eventRepo, storage)
	sponsorService := service.NewSponsorService(sponsorRepo, eventRepo, storage)

	// ── Handlers ─────────────────────────────────────────
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	eventHandler := handler.NewEventHandler(eventService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	certificateHandler := handler.NewCertificateHandler(certificateService)
	speakerHandler := handler.NewSpeakerHandler(speakerService)
	sponsorHandler := handler.NewSponsorHandler(sponsorService)

	// ── Router ───────────────────────────────────────────
	router := handler.NewRouter(
		authHandler,
		eventHandler,
		registrationHandler,
		certificateHandler,
		speakerHandler,
		sponsorHandler,
		userHandler,
		tenantRepo,
		cfg.Tenant.Header,
		cfg.Tenant.DefaultSlug,
		cfg.JWT.Secret,
	)

	// ── HTTP Server ──────────────────────────────────────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on port %s (mode: %s)", cfg.App.Port, cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
