package config

import (
	"os"
	"strconv"
	"time"

	"github.com/webfindlead/leadworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	HTTPAddr string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Postgres lead store
	DatabaseURL string

	// Scan policy. The scroll loop is a fixed budget, not an adaptive
	// wait; changing it changes observable scan completeness.
	ScrollBudget int
	ScrollDelay  time.Duration

	// Live rendering via a headless browser for scan requests without
	// captured HTML
	LiveScanEnabled bool
	NavigateTimeout time.Duration

	// Classifier policy
	ClassifyTimeout   time.Duration
	SlowLoadThreshold time.Duration
	ClassifyStagger   time.Duration
	AnalysisCacheTTL  time.Duration

	// Phone normalization region
	PhoneRegion string

	// Base URL for resolving relative listing hrefs
	MapsBaseURL string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "10"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	scrollBudget, _ := strconv.Atoi(getEnv("SCROLL_BUDGET", "5"))
	scrollDelay, _ := strconv.Atoi(getEnv("SCROLL_DELAY_MS", "800"))
	navigateTimeout, _ := strconv.Atoi(getEnv("NAVIGATE_TIMEOUT_MS", "30000"))
	classifyTimeout, _ := strconv.Atoi(getEnv("CLASSIFY_TIMEOUT_MS", "5000"))
	slowLoad, _ := strconv.Atoi(getEnv("SLOW_LOAD_THRESHOLD_MS", "3000"))
	classifyStagger, _ := strconv.Atoi(getEnv("CLASSIFY_STAGGER_MS", "800"))
	cacheTTL, _ := strconv.Atoi(getEnv("ANALYSIS_CACHE_TTL_SECONDS", "21600"))

	return Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "leads"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ScrollBudget:         scrollBudget,
		ScrollDelay:          time.Duration(scrollDelay) * time.Millisecond,
		LiveScanEnabled:      getEnv("LIVE_SCAN_ENABLED", "false") == "true",
		NavigateTimeout:      time.Duration(navigateTimeout) * time.Millisecond,
		ClassifyTimeout:      time.Duration(classifyTimeout) * time.Millisecond,
		SlowLoadThreshold:    time.Duration(slowLoad) * time.Millisecond,
		ClassifyStagger:      time.Duration(classifyStagger) * time.Millisecond,
		AnalysisCacheTTL:     time.Duration(cacheTTL) * time.Second,
		PhoneRegion:          getEnv("PHONE_REGION", "US"),
		MapsBaseURL:          getEnv("MAPS_BASE_URL", "https://www.google.com"),
		Environment:          getEnv("LEADWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.ScrollBudget < 0 {
		return errors.NewConfiguration("scroll budget must not be negative", nil)
	}
	if c.ScrollDelay < 0 {
		return errors.NewConfiguration("scroll delay must not be negative", nil)
	}
	if c.ClassifyTimeout <= 0 {
		return errors.NewConfiguration("classify timeout must be positive", nil)
	}
	if c.SlowLoadThreshold <= 0 {
		return errors.NewConfiguration("slow-load threshold must be positive", nil)
	}
	if c.ClassifyStagger < 0 {
		return errors.NewConfiguration("classify stagger must not be negative", nil)
	}
	if c.RedisStreamCount <= 0 {
		return errors.NewConfiguration("redis stream count must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
