// Package main is the entry point for the OCR API server.
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

	"github.com/Shimizu-Technology/ocr-api/internal/config"
	"github.com/Shimizu-Technology/ocr-api/internal/database"
	"github.com/Shimizu-Technology/ocr-api/internal/handlers"
	"github.com/Shimizu-Technology/ocr-api/internal/router"
	"github.com/Shimizu-Technology/ocr-api/internal/services/ocr"
	"github.com/Shimizu-Technology/ocr-api/internal/services/pipeline"
	"github.com/Shimizu-Technology/ocr-api/internal/services/worker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 OCR API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, workers=%d, max_upload=%dMB, gin_mode=%s", cfg.Port, cfg.WorkerCount, cfg.MaxUploadMB, cfg.GinMode)

	os.Setenv("GIN_MODE", cfg.GinMode)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("❌ Failed to create upload dir %s: %v", cfg.UploadDir, err)
	}

	// Step 2: Connect to Database (optional)
	var history handlers.History
	if cfg.HistoryEnabled() {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("✅ Database connected")

		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		history = db
	} else {
		log.Println("⚠️  Extraction history disabled (set DATABASE_URL to enable)")
	}

	// Step 3: Create Services
	dispatcher, tess := pipeline.New(cfg, ocr.NoProgress)
	if tess.Available() {
		log.Printf("✅ Tesseract OCR available (language=%s)", cfg.OCRLanguage)
	} else {
		log.Println("⚠️  Tesseract OCR not found (set TESSERACT_PATH); image uploads will fail")
	}
	log.Printf("📄 PDF strategies: %v", dispatcher.PDFStrategies())

	// Step 4: Create and Start Worker Pool
	wp := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize, dispatcher)
	wp.Start()

	// Step 5: Setup HTTP Router
	h := handlers.NewHandler(history, wp, tess, cfg.UploadDir, cfg.MaxUploadBytes())
	r := router.Setup(h, cfg.RateLimit, cfg.AllowedOrigins)

	// Step 6: Start the HTTP Server
	// The write timeout has to outlast the slowest OCR run.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.OCRTimeout + 60*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 7: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	// Requests have drained, so queued jobs can be failed and their files removed.
	wp.Stop()

	log.Println("👋 Server stopped. Goodbye!")
}
