package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"grafik/pkg/client"
	"grafik/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DefaultOrderDurationMin int
	RestDayWarnDays         int
	AdvisoryLockTTL         time.Duration
	SlotStepMin             int
	SlotTokenSecret         string
	MaxConcurrentAPICalls   int

	SchedulesServiceURL    string
	OrdersServiceURL       string
	AutoServicesServiceURL string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// Local runs keep overrides in a .env file; in containers the variables
	// come from the orchestrator and the file is simply absent.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, DefaultRedisPassword),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),
		CacheTTL:      getEnvDuration(EnvCacheTTL, DefaultCacheTTL),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		DefaultOrderDurationMin: getEnvNum(EnvDefaultOrderDurationMin, DefaultOrderDurationMin),
		RestDayWarnDays:         getEnvNum(EnvRestDayWarnDays, DefaultRestDayWarnDays),
		AdvisoryLockTTL:         getEnvDuration(EnvAdvisoryLockTTL, DefaultAdvisoryLockTTL),
		SlotStepMin:             getEnvNum(EnvSlotStepMin, DefaultSlotStepMin),
		SlotTokenSecret:         getEnvStr(EnvSlotTokenSecret, DefaultSlotTokenSecret),
		MaxConcurrentAPICalls:   getEnvNum(EnvMaxConcurrentAPICalls, DefaultMaxConcurrentAPICalls),

		SchedulesServiceURL:    getEnvStr(EnvSchedulesServiceURL, DefaultSchedulesServiceURL),
		OrdersServiceURL:       getEnvStr(EnvOrdersServiceURL, DefaultOrdersServiceURL),
		AutoServicesServiceURL: getEnvStr(EnvAutoServicesServiceURL, DefaultAutoServicesServiceURL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty")
	}
	if cfg.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("CacheTTL must be positive, got: %s", cfg.CacheTTL))
	}

	if cfg.DefaultOrderDurationMin <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultOrderDurationMin must be positive, got: %d", cfg.DefaultOrderDurationMin))
	}
	if cfg.RestDayWarnDays < 1 || cfg.RestDayWarnDays > 7 {
		errors = append(errors, fmt.Sprintf("RestDayWarnDays must be between 1 and 7, got: %d", cfg.RestDayWarnDays))
	}
	if cfg.AdvisoryLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("AdvisoryLockTTL must be positive, got: %s", cfg.AdvisoryLockTTL))
	}
	if cfg.SlotStepMin < 5 || cfg.SlotStepMin > 240 {
		errors = append(errors, fmt.Sprintf("SlotStepMin must be between 5 and 240 minutes, got: %d", cfg.SlotStepMin))
	}
	if cfg.SlotTokenSecret == "" {
		errors = append(errors, "SlotTokenSecret cannot be empty")
	}
	if cfg.MaxConcurrentAPICalls <= 0 {
		errors = append(errors, fmt.Sprintf("MaxConcurrentAPICalls must be positive, got: %d", cfg.MaxConcurrentAPICalls))
	}

	urlRegex := regexp.MustCompile(`^https?://`)
	if !urlRegex.MatchString(cfg.SchedulesServiceURL) {
		errors = append(errors, fmt.Sprintf("SchedulesServiceURL must start with http:// or https://, got: %s", cfg.SchedulesServiceURL))
	}
	if !urlRegex.MatchString(cfg.OrdersServiceURL) {
		errors = append(errors, fmt.Sprintf("OrdersServiceURL must start with http:// or https://, got: %s", cfg.OrdersServiceURL))
	}
	if !urlRegex.MatchString(cfg.AutoServicesServiceURL) {
		errors = append(errors, fmt.Sprintf("AutoServicesServiceURL must start with http:// or https://, got: %s", cfg.AutoServicesServiceURL))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"cache_ttl", cfg.CacheTTL,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_order_duration_min", cfg.DefaultOrderDurationMin,
		"rest_day_warn_days", cfg.RestDayWarnDays,
		"advisory_lock_ttl", cfg.AdvisoryLockTTL,
		"slot_step_min", cfg.SlotStepMin,
		"slot_token_secret_set", cfg.SlotTokenSecret != DefaultSlotTokenSecret,
		"max_concurrent_api_calls", cfg.MaxConcurrentAPICalls,
		"schedules_service_url", cfg.SchedulesServiceURL,
		"orders_service_url", cfg.OrdersServiceURL,
		"autoservices_service_url", cfg.AutoServicesServiceURL,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
