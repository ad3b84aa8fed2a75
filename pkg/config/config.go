package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"rezzy/pkg/client"
	"rezzy/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SlotIntervalMin          int
	BookingHorizonDays       int
	MinLeadTime              time.Duration
	DefaultServiceDurMin     int
	DefaultBufferBeforeMin   int
	DefaultBufferAfterMin    int
	DefaultOpenTime          string
	DefaultCloseTime         string

	MaxOverlapCheckedRows int
	BookingLockTTL        time.Duration

	CatalogCacheSize int
	CatalogCacheTTL  time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotIntervalMin:        getEnvNum(EnvSlotIntervalMin, DefaultSlotIntervalMin),
		BookingHorizonDays:     getEnvNum(EnvBookingHorizonDays, DefaultBookingHorizonDays),
		MinLeadTime:            getEnvDuration(EnvMinLeadTime, DefaultMinLeadTime),
		DefaultServiceDurMin:   getEnvNum(EnvDefaultServiceDurMin, DefaultDefaultServiceDurMin),
		DefaultBufferBeforeMin: getEnvNum(EnvDefaultBufferBefore, DefaultDefaultBufferBefore),
		DefaultBufferAfterMin:  getEnvNum(EnvDefaultBufferAfter, DefaultDefaultBufferAfter),
		DefaultOpenTime:        getEnvStr(EnvDefaultOpenTime, DefaultDefaultOpenTime),
		DefaultCloseTime:       getEnvStr(EnvDefaultCloseTime, DefaultDefaultCloseTime),

		MaxOverlapCheckedRows: getEnvNum(EnvMaxOverlapCheckedRows, DefaultMaxOverlapCheckedRows),
		BookingLockTTL:        getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),

		CatalogCacheSize: getEnvNum(EnvCatalogCacheSize, DefaultCatalogCacheSize),
		CatalogCacheTTL:  getEnvDuration(EnvCatalogCacheTTL, DefaultCatalogCacheTTL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.New(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

var (
	clockRegex    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mongoURIRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.SlotIntervalMin <= 0 || cfg.SlotIntervalMin > 60 {
		errs = append(errs, fmt.Sprintf("SlotIntervalMin must be between 1 and 60, got: %d", cfg.SlotIntervalMin))
	}
	if cfg.BookingHorizonDays <= 0 {
		errs = append(errs, fmt.Sprintf("BookingHorizonDays must be positive, got: %d", cfg.BookingHorizonDays))
	}
	if cfg.MinLeadTime < 0 {
		errs = append(errs, fmt.Sprintf("MinLeadTime cannot be negative, got: %s", cfg.MinLeadTime))
	}
	if cfg.DefaultServiceDurMin <= 0 {
		errs = append(errs, fmt.Sprintf("DefaultServiceDurMin must be positive, got: %d", cfg.DefaultServiceDurMin))
	}
	if cfg.DefaultBufferBeforeMin < 0 {
		errs = append(errs, fmt.Sprintf("DefaultBufferBeforeMin cannot be negative, got: %d", cfg.DefaultBufferBeforeMin))
	}
	if cfg.DefaultBufferAfterMin < 0 {
		errs = append(errs, fmt.Sprintf("DefaultBufferAfterMin cannot be negative, got: %d", cfg.DefaultBufferAfterMin))
	}
	if !clockRegex.MatchString(cfg.DefaultOpenTime) {
		errs = append(errs, fmt.Sprintf("DefaultOpenTime must be in HH:MM format, got: %s", cfg.DefaultOpenTime))
	}
	if !clockRegex.MatchString(cfg.DefaultCloseTime) {
		errs = append(errs, fmt.Sprintf("DefaultCloseTime must be in HH:MM format, got: %s", cfg.DefaultCloseTime))
	}

	if cfg.MaxOverlapCheckedRows <= 0 {
		errs = append(errs, fmt.Sprintf("MaxOverlapCheckedRows must be positive, got: %d", cfg.MaxOverlapCheckedRows))
	}
	if cfg.BookingLockTTL <= 0 {
		errs = append(errs, fmt.Sprintf("BookingLockTTL must be positive, got: %s", cfg.BookingLockTTL))
	}

	if cfg.CatalogCacheSize <= 0 {
		errs = append(errs, fmt.Sprintf("CatalogCacheSize must be positive, got: %d", cfg.CatalogCacheSize))
	}
	if cfg.CatalogCacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("CatalogCacheTTL must be positive, got: %s", cfg.CatalogCacheTTL))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
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
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"slot_interval_min", cfg.SlotIntervalMin,
		"booking_horizon_days", cfg.BookingHorizonDays,
		"min_lead_time", cfg.MinLeadTime,
		"default_service_duration_min", cfg.DefaultServiceDurMin,
		"default_buffer_before_min", cfg.DefaultBufferBeforeMin,
		"default_buffer_after_min", cfg.DefaultBufferAfterMin,
		"default_open_time", cfg.DefaultOpenTime,
		"default_close_time", cfg.DefaultCloseTime,
		"max_overlap_checked_rows", cfg.MaxOverlapCheckedRows,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"catalog_cache_size", cfg.CatalogCacheSize,
		"catalog_cache_ttl", cfg.CatalogCacheTTL,
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

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > DefaultPaginationLimit {
		return DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
