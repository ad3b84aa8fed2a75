package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rezzy"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Scheduling defaults. Slots are generated on a fixed grid during
	// open hours; same-day requests must be at least MinLeadTime out.
	DefaultSlotIntervalMin       = 15
	DefaultBookingHorizonDays    = 60
	DefaultMinLeadTime           = 30 * time.Minute
	DefaultDefaultServiceDurMin  = 60
	DefaultDefaultBufferBefore   = 0
	DefaultDefaultBufferAfter    = 5
	DefaultDefaultOpenTime       = "09:00"
	DefaultDefaultCloseTime      = "18:00"
	DefaultPaginationLimit       = 100
	DefaultMaxOverlapCheckedRows = 50
	DefaultBookingLockTTL        = 30 * time.Second

	DefaultCatalogCacheSize = 512
	DefaultCatalogCacheTTL  = 5 * time.Minute
)

// Weekdays a tenant is open when it never configured business hours.
// time.Weekday numbering: 0=Sunday .. 6=Saturday.
var DefaultOpenWeekdays = []int{1, 2, 3, 4, 5}
