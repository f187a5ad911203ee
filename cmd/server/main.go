package main

import (
	"fmt"
	"log"

	"visitlog/internal/api/routes"
	"visitlog/internal/config"
	"visitlog/internal/models"
	"visitlog/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present, then the configuration file
	_ = godotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Seed companies if the database is empty
	visitService := services.NewVisitService(cfg, db)
	if err := visitService.SeedCompanies(); err != nil {
		log.Printf("Warning: Failed to seed companies: %v", err)
	}

	// Drop stale sessions from previous runs
	authService := services.NewAuthService(cfg, db)
	if err := authService.DeleteExpiredSessions(); err != nil {
		log.Printf("Warning: Failed to delete expired sessions: %v", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// Setup routes
	routes.SetupRoutes(r, cfg, db, services.NewCodeStore(), services.NewSMTPMailer(cfg.Mail))

	// Serve static assets
	r.Static("/assets", "./assets")

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting visit log server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
