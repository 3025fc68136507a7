package config

import (
	"strings"
	"testing"
	"time"

	"stopshot/pkg/model"
)

func validConfig() *Config {
	return &Config{
		MongoURI:            DefaultMongoURI,
		MongoDatabaseName:   DefaultMongoDatabaseName,
		MongoConnTimeout:    DefaultMongoConnTimeout,
		Port:                DefaultPort,
		RateLimitRequests:   DefaultRateLimitRequests,
		RateLimitWindow:     DefaultRateLimitWindow,
		RequestTimeout:      DefaultRequestTimeout,
		IdempotencyTTL:      DefaultIdempotencyTTL,
		MaxRequestSize:      DefaultMaxRequestSize,
		ReadTimeout:         DefaultReadTimeout,
		WriteTimeout:        DefaultWriteTimeout,
		IdleTimeout:         DefaultIdleTimeout,
		ShutdownTimeout:     DefaultShutdownTimeout,
		StoreDriver:         StoreMemory,
		LockBackend:         LockMemory,
		LockTTL:             DefaultLockTTL,
		LockWaitTimeout:     DefaultLockWaitTimeout,
		NotifyBackend:       NotifyLog,
		NotifyQueueSize:     DefaultNotifyQueueSize,
		NotifyWorkers:       DefaultNotifyWorkers,
		NotifyTimeout:       DefaultNotifyTimeout,
		EventsTopic:         DefaultEventsTopic,
		RabbitMQURL:         DefaultRabbitMQURL,
		SpecialEventsSource: SpecialEventsStatic,
		Venue:               DefaultVenue(),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "99999" }, wantError: "Port must be between"},
		{name: "bad mongo uri", mutate: func(c *Config) { c.MongoURI = "postgres://x" }, wantError: "MongoURI must start"},
		{name: "unknown store", mutate: func(c *Config) { c.StoreDriver = "sqlite" }, wantError: "StoreDriver must be one of"},
		{name: "unknown lock backend", mutate: func(c *Config) { c.LockBackend = "etcd" }, wantError: "LockBackend must be one of"},
		{name: "redis without addr", mutate: func(c *Config) { c.LockBackend = LockRedis; c.RedisAddr = "" }, wantError: "RedisAddr cannot be empty"},
		{name: "rabbit url", mutate: func(c *Config) { c.NotifyBackend = NotifyRabbitMQ; c.RabbitMQURL = "http://x" }, wantError: "RabbitMQURL must start"},
		{name: "zero lock ttl", mutate: func(c *Config) { c.LockTTL = 0 }, wantError: "LockTTL must be positive"},
		{name: "busy threshold", mutate: func(c *Config) { c.Venue.BusyThreshold = 1.5 }, wantError: "BusyThreshold must be in"},
		{name: "empty slots", mutate: func(c *Config) { c.Venue.TimeSlots = nil }, wantError: "TimeSlots cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantError) {
				t.Fatalf("expected error containing %q, got %v", tt.wantError, err)
			}
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.NotifyWorkers = 0

	err := cfg.Validate("TimeSlots entry must be in HH:MM format, got: noon")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"1. TimeSlots entry", "Port must be", "NotifyWorkers must be positive"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %s", want, msg)
		}
	}
}

func TestDefaultVenue(t *testing.T) {
	v := DefaultVenue()

	if len(v.TimeSlots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(v.TimeSlots))
	}
	if v.TimeSlots[0].Label() != "4:00 PM" || v.TimeSlots[9].Label() != "1:00 AM" {
		t.Errorf("unexpected slot bounds %s..%s", v.TimeSlots[0].Label(), v.TimeSlots[9].Label())
	}
	if v.DefaultDuration(model.RoomTypeTable) != 60 {
		t.Errorf("table default = %d", v.DefaultDuration(model.RoomTypeTable))
	}
	if v.MinimumDuration(model.RoomTypeKaraoke) != 60 {
		t.Errorf("karaoke minimum = %d", v.MinimumDuration(model.RoomTypeKaraoke))
	}
	if v.MinimumDuration(model.RoomTypeTable) != 0 {
		t.Errorf("table should have no minimum")
	}
	if !v.KnowsRoomType(model.RoomTypeKaraoke) || v.KnowsRoomType("BOOTH") {
		t.Error("room type lookup is wrong")
	}
}

func TestLoadVenue_FromEnv(t *testing.T) {
	t.Setenv(EnvVenueTimeZone, "Asia/Manila")
	t.Setenv(EnvBusinessDayStart, "6:00 PM")
	t.Setenv(EnvBusinessDayEnd, "03:00")
	t.Setenv(EnvTimeSlots, "18:00, 20:00")
	t.Setenv(EnvBusyThreshold, "0.5")
	t.Setenv(EnvDefaultDurations, "TABLE=90,karaoke_room=120")
	t.Setenv(EnvSpecialEventDates, "2025-12-31")

	v, errs := loadVenue()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if v.BusinessDayStart != (model.TimeOfDay{Hour: 18}) || v.BusinessDayEnd != (model.TimeOfDay{Hour: 3}) {
		t.Errorf("business day = %v..%v", v.BusinessDayStart, v.BusinessDayEnd)
	}
	if len(v.TimeSlots) != 2 {
		t.Errorf("slots = %v", v.TimeSlots)
	}
	if v.BusyThreshold != 0.5 {
		t.Errorf("threshold = %v", v.BusyThreshold)
	}
	if v.DefaultDuration(model.RoomTypeKaraoke) != 120 {
		t.Errorf("karaoke default = %d", v.DefaultDuration(model.RoomTypeKaraoke))
	}
	if len(v.SpecialEventDates) != 1 || v.SpecialEventDates[0] != (model.Date{Year: 2025, Month: time.December, Day: 31}) {
		t.Errorf("special dates = %v", v.SpecialEventDates)
	}
	if v.Loc().String() != "Asia/Manila" {
		t.Errorf("location = %s", v.Loc())
	}
}

func TestLoadVenue_ReportsBadEntries(t *testing.T) {
	t.Setenv(EnvVenueTimeZone, "Mars/Olympus")
	t.Setenv(EnvDefaultDurations, "TABLE=-5")
	t.Setenv(EnvBusyThreshold, "lots")

	_, errs := loadVenue()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestNow_UsesClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := &Config{Clock: func() time.Time { return fixed }}
	if !cfg.Now().Equal(fixed) {
		t.Errorf("Now() = %v", cfg.Now())
	}
	if (&Config{}).Now().IsZero() {
		t.Error("nil clock should fall back to wall time")
	}
}
