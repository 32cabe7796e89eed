package server

import (
	"fmt"
	"net/http"
	"time"

	"kidkicks/internal/config"
	"kidkicks/internal/database"
	custommiddleware "kidkicks/internal/middleware"
	"kidkicks/internal/repository"
	"kidkicks/internal/service"
	"kidkicks/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *database.Service
}

func NewServer(cfg *config.Config, logger *zap.Logger, store *database.Service) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	isDevelopment := cfg.Server.Env != "production"

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, isDevelopment))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, store.Health())
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(store.Client(), logger)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, logger)
	authHandler := transport.NewAuthHandler(authService, logger, !isDevelopment)

	// Admin middleware chain for write routes
	adminAuth := custommiddleware.AdminAuthMiddleware(cfg.Auth.JWTSecret, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)

	// Login attempts are rate limited per client
	loginLimiter := custommiddleware.RateLimitMiddleware(store.Client(), custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.LoginRequestsPerMinute,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:login",
	}, logger)

	// Register routes
	productHandler.RegisterRoutes(router, adminAuth, requireAdmin)
	authHandler.RegisterRoutes(router, loginLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close store connection
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close store connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
