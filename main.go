package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mclub-backend/config"
	"mclub-backend/database"
	"mclub-backend/internal/api"
	"mclub-backend/internal/middleware"
	"mclub-backend/internal/models"
	"mclub-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := seedAdmin(db, cfg); err != nil {
		log.Fatal("Failed to seed admin member:", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(db, api.RouterConfig{
		JWTSecret:       cfg.JWTSecret,
		JWTExpiration:   cfg.JWTExpiration,
		AllowedOrigins:  cfg.AllowedOrigins,
		AllowAllOrigins: cfg.AllowAllOrigins,
		Security: &middleware.SecurityConfig{
			MaxRequestSize:    1 * 1024 * 1024,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   time.Duration(cfg.RateLimitWindow) * time.Second,
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s (%s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server stopped")
}

// seedAdmin creates the initial administrator account on an empty database
// so there is a login to bootstrap from.
func seedAdmin(db *sql.DB, cfg *config.Config) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM members").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.SeedAdminPassword == "" {
		log.Println("No members and no SEED_ADMIN_PASSWORD set, skipping admin seed")
		return nil
	}

	memberService := services.NewMemberService(db)
	admin, err := memberService.CreateMember(&models.MemberCreate{
		Name:     cfg.SeedAdminName,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
	})
	if err != nil {
		return err
	}
	log.Printf("Seeded admin member %s (%s)", admin.ID, admin.Email)
	return nil
}
