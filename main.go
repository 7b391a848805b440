package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/webfindlead/leadworker/config"
	"github.com/webfindlead/leadworker/internal/classify"
	"github.com/webfindlead/leadworker/internal/scan"
	"github.com/webfindlead/leadworker/internal/server"
	"github.com/webfindlead/leadworker/logger"
	"github.com/webfindlead/leadworker/services/cache"
	"github.com/webfindlead/leadworker/services/publisher"
	"github.com/webfindlead/leadworker/services/store"
	"github.com/webfindlead/leadworker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Int("scroll_budget", cfg.ScrollBudget).
		Dur("classify_stagger", cfg.ClassifyStagger).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	scanner := scan.NewScanner(scan.Options{
		ScrollBudget: cfg.ScrollBudget,
		ScrollDelay:  cfg.ScrollDelay,
		BaseURL:      cfg.MapsBaseURL,
		PhoneRegion:  cfg.PhoneRegion,
	})

	classifier := classify.New(classify.Options{
		Timeout:  cfg.ClassifyTimeout,
		SlowLoad: cfg.SlowLoadThreshold,
		Cache:    services.Cache,
		CacheTTL: cfg.AnalysisCacheTTL,
	})

	w := worker.NewWorker(ctx, classifier, services.Store, services.Publisher, cfg.ClassifyStagger, 0)
	go w.Start()

	srv := server.New(cfg, scanner, classifier, w, services.Store)
	e := srv.Echo()

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting HTTP server")
		serverDone <- e.Start(cfg.HTTPAddr)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Store     store.LeadStore
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services. The cache and store
// are optional: the pipeline degrades to uncached, unpersisted operation
// when they are not configured.
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	log := logger.Default
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
	}

	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	log.Info().
		Str("addr", cfg.RedisAddr).
		Int("db", cfg.RedisDB).
		Str("stream", cfg.RedisStream).
		Msg("Connected to Redis")

	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		services.Store = pg
		log.Info().Msg("Connected to Postgres lead store")
	} else {
		log.Warn().Msg("DATABASE_URL not set, lead persistence disabled")
	}

	return services, nil
}
