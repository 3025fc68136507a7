package config

import (
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"stopshot/pkg/client"
	"stopshot/pkg/logger"

	"github.com/joho/godotenv"
)

// Clock returns the current instant. Tests replace it to pin "today".
type Clock func() time.Time

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

	StoreDriver     string
	LockBackend     string
	LockTTL         time.Duration
	LockWaitTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NotifyBackend   string
	NotifyQueueSize int
	NotifyWorkers   int
	NotifyTimeout   time.Duration
	EventsTopic     string
	EventsDLQTopic  string
	RabbitMQURL     string
	RabbitMQQueue   string

	JWTSecret string

	SpecialEventsSource string
	Venue               Venue

	Clock  Clock
	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	envFile := getEnvStr(EnvFile, ".env")
	envErr := godotenv.Load(envFile)

	venue, venueErrs := loadVenue()

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

		StoreDriver:     strings.ToLower(getEnvStr(EnvStoreDriver, DefaultStoreDriver)),
		LockBackend:     strings.ToLower(getEnvStr(EnvLockBackend, DefaultLockBackend)),
		LockTTL:         getEnvDuration(EnvLockTTL, DefaultLockTTL),
		LockWaitTimeout: getEnvDuration(EnvLockWaitTimeout, DefaultLockWaitTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, 0),

		NotifyBackend:   strings.ToLower(getEnvStr(EnvNotifyBackend, DefaultNotifyBackend)),
		NotifyQueueSize: getEnvNum(EnvNotifyQueueSize, DefaultNotifyQueueSize),
		NotifyWorkers:   getEnvNum(EnvNotifyWorkers, DefaultNotifyWorkers),
		NotifyTimeout:   getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),
		EventsTopic:     getEnvStr(EnvEventsTopic, DefaultEventsTopic),
		EventsDLQTopic:  getEnvStr(EnvEventsDLQTopic, DefaultEventsDLQTopic),
		RabbitMQURL:     getEnvStr(EnvRabbitMQURL, DefaultRabbitMQURL),
		RabbitMQQueue:   getEnvStr(EnvRabbitMQQueue, DefaultRabbitMQQueue),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),

		SpecialEventsSource: strings.ToLower(getEnvStr(EnvSpecialEventsSource, DefaultSpecialEventsSource)),
		Venue:               venue,

		Clock: time.Now,
		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if envErr != nil && !os.IsNotExist(envErr) {
		cfg.Log.Warn("Failed to load env file", "file", envFile, "error", envErr)
	}

	err := cfg.Validate(venueErrs...)
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Now reads the configured clock, falling back to wall time.
func (cfg *Config) Now() time.Time {
	if cfg.Clock == nil {
		return time.Now()
	}
	return cfg.Clock()
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

// UsesMongo reports whether any configured component needs a Mongo connection.
func (cfg *Config) UsesMongo() bool {
	return cfg.StoreDriver == StoreMongo || cfg.LockBackend == LockMongo || cfg.SpecialEventsSource == SpecialEventsMongo
}

// Validate checks every setting and reports all problems at once. Extra
// messages from earlier parsing steps are prepended.
func (cfg *Config) Validate(extra ...string) error {
	errors := append([]string{}, extra...)

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	positive := map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"LockTTL":          cfg.LockTTL,
		"LockWaitTimeout":  cfg.LockWaitTimeout,
		"NotifyTimeout":    cfg.NotifyTimeout,
	}
	for _, name := range slices.Sorted(maps.Keys(positive)) {
		if positive[name] <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, positive[name]))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.NotifyQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyQueueSize must be positive, got: %d", cfg.NotifyQueueSize))
	}
	if cfg.NotifyWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyWorkers must be positive, got: %d", cfg.NotifyWorkers))
	}

	if !oneOf(cfg.StoreDriver, StoreMongo, StoreMemory) {
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of [mongo, memory], got: %s", cfg.StoreDriver))
	}
	if !oneOf(cfg.LockBackend, LockMemory, LockMongo, LockRedis) {
		errors = append(errors, fmt.Sprintf("LockBackend must be one of [memory, mongo, redis], got: %s", cfg.LockBackend))
	}
	if !oneOf(cfg.NotifyBackend, NotifyKafka, NotifyRabbitMQ, NotifyLog) {
		errors = append(errors, fmt.Sprintf("NotifyBackend must be one of [kafka, rabbitmq, log], got: %s", cfg.NotifyBackend))
	}
	if !oneOf(cfg.SpecialEventsSource, SpecialEventsStatic, SpecialEventsMongo) {
		errors = append(errors, fmt.Sprintf("SpecialEventsSource must be one of [static, mongo], got: %s", cfg.SpecialEventsSource))
	}
	if cfg.LockBackend == LockRedis && cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty when LockBackend is redis")
	}
	if cfg.NotifyBackend == NotifyRabbitMQ && !strings.HasPrefix(cfg.RabbitMQURL, "amqp") {
		errors = append(errors, fmt.Sprintf("RabbitMQURL must start with 'amqp://' or 'amqps://', got: %s", cfg.RabbitMQURL))
	}
	if cfg.NotifyBackend == NotifyKafka && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when NotifyBackend is kafka")
	}

	errors = append(errors, cfg.Venue.validate()...)

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
	slots := make([]string, 0, len(cfg.Venue.TimeSlots))
	for _, s := range cfg.Venue.TimeSlots {
		slots = append(slots, s.String())
	}

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
		"store_driver", cfg.StoreDriver,
		"lock_backend", cfg.LockBackend,
		"lock_ttl", cfg.LockTTL,
		"lock_wait_timeout", cfg.LockWaitTimeout,
		"redis_addr", cfg.RedisAddr,
		"notify_backend", cfg.NotifyBackend,
		"notify_queue_size", cfg.NotifyQueueSize,
		"notify_workers", cfg.NotifyWorkers,
		"events_topic", cfg.EventsTopic,
		"rabbitmq_queue", cfg.RabbitMQQueue,
		"jwt_secret_set", cfg.JWTSecret != "",
		"special_events_source", cfg.SpecialEventsSource,
		"venue_timezone", cfg.Venue.TimeZone,
		"business_day_start", cfg.Venue.BusinessDayStart.String(),
		"business_day_end", cfg.Venue.BusinessDayEnd.String(),
		"time_slots", strings.Join(slots, ","),
		"busy_threshold", cfg.Venue.BusyThreshold,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func oneOf(value string, allowed ...string) bool {
	return slices.Contains(allowed, value)
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
	cfg.Client.GracefulShutdown(cfg.Log)
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
