package config

const (
	EnvFile = "ENV_FILE"

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

	EnvStoreDriver     = "STORE_DRIVER"
	EnvLockBackend     = "LOCK_BACKEND"
	EnvLockTTL         = "LOCK_TTL"
	EnvLockWaitTimeout = "LOCK_WAIT_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvNotifyBackend   = "NOTIFY_BACKEND"
	EnvNotifyQueueSize = "NOTIFY_QUEUE_SIZE"
	EnvNotifyWorkers   = "NOTIFY_WORKERS"
	EnvNotifyTimeout   = "NOTIFY_TIMEOUT"
	EnvEventsTopic     = "RESERVATION_EVENTS_TOPIC"
	EnvEventsDLQTopic  = "RESERVATION_EVENTS_DLQ_TOPIC"
	EnvRabbitMQURL     = "RABBITMQ_URL"
	EnvRabbitMQQueue   = "RABBITMQ_QUEUE"

	EnvJWTSecret = "JWT_SECRET"

	EnvVenueTimeZone       = "VENUE_TIMEZONE"
	EnvBusinessDayStart    = "BUSINESS_DAY_START"
	EnvBusinessDayEnd      = "BUSINESS_DAY_END"
	EnvTimeSlots           = "TIME_SLOTS"
	EnvBusyThreshold       = "BUSY_THRESHOLD"
	EnvRoomTypes           = "ROOM_TYPES"
	EnvDefaultDurations    = "DEFAULT_DURATIONS"
	EnvMinimumDurations    = "MINIMUM_DURATIONS"
	EnvSpecialEventDates   = "SPECIAL_EVENT_DATES"
	EnvSpecialEventsSource = "SPECIAL_EVENTS_SOURCE"
)
