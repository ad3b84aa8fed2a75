package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotIntervalMin      = "SLOT_INTERVAL_MIN"
	EnvBookingHorizonDays   = "BOOKING_HORIZON_DAYS"
	EnvMinLeadTime          = "MIN_LEAD_TIME"
	EnvDefaultServiceDurMin = "DEFAULT_SERVICE_DURATION_MIN"
	EnvDefaultBufferBefore  = "DEFAULT_BUFFER_BEFORE_MIN"
	EnvDefaultBufferAfter   = "DEFAULT_BUFFER_AFTER_MIN"
	EnvDefaultOpenTime      = "DEFAULT_OPEN_TIME"
	EnvDefaultCloseTime     = "DEFAULT_CLOSE_TIME"

	EnvMaxOverlapCheckedRows = "MAX_OVERLAP_CHECKED_ROWS"
	EnvBookingLockTTL        = "BOOKING_LOCK_TTL"

	EnvCatalogCacheSize = "CATALOG_CACHE_SIZE"
	EnvCatalogCacheTTL  = "CATALOG_CACHE_TTL"
)
