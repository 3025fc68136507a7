package main

import (
	"stopshot/internal/accounts"
	availabilityhandler "stopshot/internal/availability/handler"
	availabilityservice "stopshot/internal/availability/service"
	"stopshot/internal/calendar"
	"stopshot/internal/notify"
	reservationshandler "stopshot/internal/reservations/handler"
	reservationsrepo "stopshot/internal/reservations/repository"
	reservationsservice "stopshot/internal/reservations/service"
	"stopshot/internal/reservations/validator"
	roomshandler "stopshot/internal/rooms/handler"
	roomsrepo "stopshot/internal/rooms/repository"
	roomsservice "stopshot/internal/rooms/service"
	"stopshot/pkg/app"
	"stopshot/pkg/config"
	"stopshot/pkg/kafka"
	kafka_config "stopshot/pkg/kafka/config"
	kafkamiddleware "stopshot/pkg/kafka/middleware"
	"stopshot/pkg/lock"
)

const ServiceName = "reservations"

type services struct {
	rooms        roomsservice.RoomService
	reservations reservationsservice.ReservationService
	availability availabilityservice.AvailabilityService
	dispatcher   *notify.Dispatcher
}

func main() {
	cfg := config.Load(ServiceName)
	if cfg.UsesMongo() {
		cfg.SetMongo()
	}
	// Redis also backs the shared rate limiter once it is connected.
	if cfg.LockBackend == config.LockRedis {
		cfg.SetRedis()
	}

	cfg.Log.Info("Starting Reservations service")
	svc := initServices(cfg)

	app.NewApplication(cfg).
		SetApp(
			roomshandler.NewRoomHandler(svc.rooms, cfg.Log),
			reservationshandler.NewReservationHandler(svc.reservations, cfg.Log),
			availabilityhandler.NewAvailabilityHandler(svc.availability, cfg.Log),
		).
		OnShutdown(svc.dispatcher.Close).
		Run()
}

func initServices(cfg *config.Config) services {
	var (
		roomRepo        roomsrepo.RoomRepository
		reservationRepo reservationsrepo.ReservationRepository
		directory       accounts.Directory
	)
	if cfg.StoreDriver == config.StoreMongo {
		roomRepo = roomsrepo.NewMongoRoomRepository(cfg)
		reservationRepo = reservationsrepo.NewMongoReservationRepository(cfg)
		directory = accounts.NewMongoDirectory(cfg)
	} else {
		roomRepo = roomsrepo.NewMemoryRoomRepository(roomsrepo.DefaultCatalog()...)
		reservationRepo = reservationsrepo.NewMemoryReservationRepository()
		directory = accounts.NewMemoryDirectory()
	}

	locker := newLocker(cfg)
	dispatcher := notify.NewDispatcher(newSender(cfg), notify.DispatcherConfig{
		QueueSize:   cfg.NotifyQueueSize,
		Workers:     cfg.NotifyWorkers,
		SendTimeout: cfg.NotifyTimeout,
	}, cfg.Log)

	var cal calendar.Calendar
	if cfg.SpecialEventsSource == config.SpecialEventsMongo {
		cal = calendar.NewMongoCalendar(cfg)
	} else {
		cal = calendar.NewStaticCalendar(cfg.Venue.SpecialEventDates)
	}

	rooms := roomsservice.NewRoomService(roomRepo, reservationRepo, locker, cfg)
	reservations := reservationsservice.NewReservationService(
		reservationRepo,
		rooms,
		directory,
		locker,
		dispatcher,
		validator.NewReservationValidator(cfg.Venue, cfg.Log),
		cfg,
	)
	availability := availabilityservice.NewAvailabilityService(reservationRepo, rooms, cal, cfg)

	cfg.Log.Info("Reservation services initialized",
		"store_driver", cfg.StoreDriver,
		"lock_backend", cfg.LockBackend,
		"notify_backend", cfg.NotifyBackend,
		"special_events_source", cfg.SpecialEventsSource,
	)
	return services{
		rooms:        rooms,
		reservations: reservations,
		availability: availability,
		dispatcher:   dispatcher,
	}
}

func newLocker(cfg *config.Config) lock.Locker {
	switch cfg.LockBackend {
	case config.LockRedis:
		return lock.NewRedisLocker(cfg.Client.Redis, cfg.LockTTL, cfg.LockWaitTimeout, cfg.Log)
	case config.LockMongo:
		return lock.NewMongoLocker(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.LockTTL, cfg.LockWaitTimeout, cfg.Log)
	default:
		return lock.NewMemoryLocker(cfg.LockWaitTimeout)
	}
}

func newSender(cfg *config.Config) notify.Sender {
	switch cfg.NotifyBackend {
	case config.NotifyKafka:
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		kafkaCfg.LogConfiguration(cfg.Log)

		producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
		return notify.NewKafkaSender(producer)

	case config.NotifyRabbitMQ:
		sender, err := notify.NewRabbitMQSender(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			cfg.Log.Fatal("Failed to connect to RabbitMQ", "error", err)
		}
		return sender

	default:
		return notify.NewLogSender(cfg.Log)
	}
}
