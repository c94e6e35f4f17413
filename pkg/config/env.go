package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvCacheTTL      = "CACHE_TTL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultOrderDurationMin = "DEFAULT_ORDER_DURATION_MIN"
	EnvRestDayWarnDays         = "REST_DAY_WARN_DAYS"
	EnvAdvisoryLockTTL         = "ADVISORY_LOCK_TTL"
	EnvSlotStepMin             = "SLOT_STEP_MIN"
	EnvSlotTokenSecret         = "SLOT_TOKEN_SECRET"
	EnvMaxConcurrentAPICalls   = "MAX_CONCURRENT_API_CALLS"

	EnvSchedulesServiceURL    = "SCHEDULES_SERVICE_URL"
	EnvOrdersServiceURL       = "ORDERS_SERVICE_URL"
	EnvAutoServicesServiceURL = "AUTOSERVICES_SERVICE_URL"
)
