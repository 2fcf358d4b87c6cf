package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeclash/internal/config"
	"codeclash/internal/database"
	"codeclash/internal/handlers"
	"codeclash/internal/repository"
	"codeclash/internal/security"
	"codeclash/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be configured")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed bad words filter for display name screening
	if err := db.SeedBadWords(); err != nil {
		log.Printf("Warning: Failed to seed bad words filter: %v", err)
	}

	// Initialize repositories
	learnerRepo := repository.NewLearnerRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	boardRepo := repository.NewBoardRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.SessionDuration)
	authService := service.NewAuthService(learnerRepo, tokens, db)
	puzzleService := service.NewPuzzleService(levelRepo, attemptRepo, boardRepo, learnerRepo)
	hintService := service.NewHintService(puzzleService, levelRepo, attemptRepo, boardRepo, learnerRepo, service.HintCosts{
		Syntax:  cfg.HintCostSyntax,
		AutoFix: cfg.HintCostAutoFix,
	})
	reportService, err := service.NewReportService(cfg.AWSRegion, cfg.ReportFromAddress)
	if err != nil {
		log.Fatalf("Failed to initialize report service: %v", err)
	}

	// Seed the starter curriculum
	if err := service.SeedDefaultLevels(levelRepo); err != nil {
		log.Printf("Warning: Failed to seed default levels: %v", err)
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(tokens, limiter)
	authHandler := handlers.NewAuthHandler(authService)
	puzzleHandler := handlers.NewPuzzleHandler(puzzleService, hintService)
	progressHandler := handlers.NewProgressHandler(puzzleService, reportService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/logout", authHandler.Logout)

	mux.HandleFunc("GET /api/levels", middleware.RequireLearner(puzzleHandler.ListLevels))
	mux.HandleFunc("POST /api/puzzle/start/{levelID}", middleware.RequireLearner(puzzleHandler.Start))
	mux.HandleFunc("GET /api/puzzle/board", middleware.RequireLearner(puzzleHandler.Board))
	mux.HandleFunc("POST /api/puzzle/drag", middleware.RequireLearner(puzzleHandler.Drag))
	mux.HandleFunc("POST /api/puzzle/submit", middleware.RequireLearner(puzzleHandler.Submit))
	mux.HandleFunc("POST /api/puzzle/hint/{tier}", middleware.RequireLearner(puzzleHandler.Hint))
	mux.HandleFunc("POST /api/puzzle/reset", middleware.RequireLearner(puzzleHandler.Reset))

	mux.HandleFunc("GET /api/progress", middleware.RequireLearner(progressHandler.Progress))
	mux.HandleFunc("POST /api/progress/report", middleware.RequireLearner(progressHandler.EmailReport))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
