package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/impactboard/impactboard/internal/config"
	"github.com/impactboard/impactboard/internal/dashboard"
	"github.com/impactboard/impactboard/internal/db"
	"github.com/impactboard/impactboard/internal/ingestion"
	"github.com/impactboard/impactboard/internal/middleware"
	"github.com/impactboard/impactboard/internal/reports"
	"github.com/impactboard/impactboard/internal/repository"

	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, conn.Pool, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	reportRepo := repository.NewReportRepository(conn.Pool)
	jobRepo := repository.NewImportJobRepository(conn.Pool)

	// Create services
	ingestionService := ingestion.NewService(reportRepo, jobRepo, ingestion.WithRowPause(cfg.Ingestion.RowPause))
	reportService := reports.NewService(reportRepo)
	dashboardService := dashboard.NewService(reportRepo)

	// Create HTTP handlers
	ingestionHandler := ingestion.NewHTTPHandler(ingestionService, cfg.Ingestion.MaxUploadBytes)
	reportHandler := reports.NewHTTPHandler(reportService)
	dashboardHandler := dashboard.NewHTTPHandler(dashboardService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports", reportHandler.HandleSubmit)
	mux.HandleFunc("POST /api/reports/upload", ingestionHandler.HandleUpload)
	mux.HandleFunc("GET /api/reports/upload/{id}", ingestionHandler.HandleJobStatus)
	mux.HandleFunc("GET /api/dashboard", dashboardHandler.HandleDashboard)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      corsHandler.Handler(middleware.LoggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting impact metrics server on %s", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
