package main

import (
	"rezzy/internal/availability"
	"rezzy/internal/bookings/events"
	bookingshandler "rezzy/internal/bookings/handler"
	"rezzy/internal/bookings/repository"
	"rezzy/internal/bookings/service"
	"rezzy/internal/bookings/validator"
	catalogrepo "rezzy/internal/catalog/repository"
	catalogsvc "rezzy/internal/catalog/service"
	"rezzy/pkg/app"
	"rezzy/pkg/config"
	"rezzy/pkg/contracts"
	mongodb "rezzy/pkg/db/mongo"
	"rezzy/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	bookingService, availabilityService := initServices(cfg, publisher)

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	counter := mongodb.NewCounterStore(db)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		counter,
		bookingshandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		availability.NewHandler(availabilityService, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !kafka.Enabled() {
		cfg.Log.Warn("KAFKA_BROKERS not set, booking events will not be published")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(kafka.LoadConfig(), contracts.BookingEventsTopic, contracts.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, booking events will not be published", "error", err)
		return events.NewNoopPublisher()
	}

	return events.NewKafkaPublisher(producer, cfg.Log)
}

func initServices(cfg *config.Config, publisher events.Publisher) (service.BookingService, availability.Service) {
	serviceRepo := catalogrepo.NewMongoServiceRepository(cfg)
	hoursRepo := catalogrepo.NewMongoBusinessHoursRepository(cfg)
	catalog := catalogsvc.NewCatalog(serviceRepo, hoursRepo, cfg)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		catalog,
		bookingValidator,
		publisher,
		cfg,
	)
	availabilityService := availability.NewService(catalog, bookingRepo, cfg)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return bookingService, availabilityService
}
