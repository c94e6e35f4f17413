package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "grafik"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPassword = ""
	DefaultRedisDB       = 0
	DefaultCacheTTL      = 5 * time.Minute

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// DefaultOrderDurationMin is assumed for orders created without an
	// estimated duration when checking master availability.
	DefaultOrderDurationMin = 60
	// DefaultRestDayWarnDays is the custom-days count at which schedule
	// creation starts warning that the master has no rest day.
	DefaultRestDayWarnDays = 7

	DefaultAdvisoryLockTTL       = 10 * time.Second
	DefaultSlotStepMin           = 30
	DefaultMaxConcurrentAPICalls = 40

	// DefaultSlotTokenSecret seals slot tokens in dev environments only.
	// Deployments must override SLOT_TOKEN_SECRET.
	DefaultSlotTokenSecret = "grafik-dev-slot-token-secret"

	DefaultSchedulesServiceURL    = "http://localhost:8081"
	DefaultOrdersServiceURL       = "http://localhost:8082"
	DefaultAutoServicesServiceURL = "http://localhost:8083"
)

// Schedule validation bounds. These mirror the business rules the platform
// enforces everywhere and are deliberately not environment-tunable.
const (
	MinDailyWorkMinutes   = 60
	MaxDailyWorkMinutes   = 12 * 60
	MaxSchedulePeriodDays = 365
)
