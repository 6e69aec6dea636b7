package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"nexusops/internal/auth"
	"nexusops/internal/blob"
	"nexusops/internal/config"
	"nexusops/internal/handler"
	"nexusops/internal/middleware"
	"nexusops/internal/repository/postgres"
	"nexusops/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier; with no JWKS URL the server runs unauthenticated
	var tokenVerifier auth.TokenVerifier
	if cfg.AuthJWKSURL != "" {
		verifier, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		tokenVerifier = verifier
	} else {
		logger.Warn("AUTH_JWKS_URL not set, bearer-token auth disabled")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	resourceRepo := postgres.NewResourceRepository(repoConfig)
	claimRepo := postgres.NewClaimRepository(repoConfig)
	statsRepo := postgres.NewStatsRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create blob store for uploaded resource files
	blobs, err := blob.New(cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Create services
	projectService := service.NewProjectService(projectRepo, folderRepo, resourceRepo, txManager, blobs, logger)
	folderService := service.NewFolderService(folderRepo, resourceRepo, projectRepo, txManager, blobs, logger)
	resourceService := service.NewResourceService(resourceRepo, folderRepo, blobs, logger)
	ledgerService := service.NewLedgerService(resourceRepo, claimRepo, txManager, logger)
	statsService := service.NewStatsService(statsRepo)

	// Create handlers
	projectHandler := handler.NewProjectHandler(projectService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	resourceHandler := handler.NewResourceHandler(resourceService, logger)
	claimHandler := handler.NewClaimHandler(ledgerService, resourceService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)

	// Folder routes (folders are addressed by name within a project)
	mux.HandleFunc("GET /api/projects/{id}/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/projects/{id}/folders", folderHandler.CreateFolder)
	mux.HandleFunc("DELETE /api/projects/{id}/folders/{name}", folderHandler.DeleteFolder)

	// Resource routes
	mux.HandleFunc("GET /api/projects/{id}/folders/{name}/resources", resourceHandler.ListResources)
	mux.HandleFunc("POST /api/resources", resourceHandler.CreateResource)
	mux.HandleFunc("GET /api/resources/{id}", resourceHandler.GetResource)
	mux.HandleFunc("PATCH /api/resources/{id}", resourceHandler.UpdateResource)
	mux.HandleFunc("DELETE /api/resources/{id}", resourceHandler.DeleteResource)

	// Claim routes
	mux.HandleFunc("POST /api/resources/{id}/claims", claimHandler.SubmitClaim)
	mux.HandleFunc("GET /api/claims", claimHandler.ListClaims)

	// Stats
	mux.HandleFunc("GET /api/stats", statsHandler.GetStats)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(tokenVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // claim responses stream file contents
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
