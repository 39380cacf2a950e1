package main

import (
	"context"
	"time"

	"roombook/internal/bookings/handler"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/service"
	"roombook/internal/bookings/validator"
	"roombook/pkg/app"
	"roombook/pkg/auth"
	"roombook/pkg/config"
	"roombook/pkg/events"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Bookings service")
	cfg.SetMongo()

	publisher := initPublisher(cfg)
	bookingService := initServices(cfg, publisher)
	verifier := auth.NewTokenVerifier(cfg.AuthTokenSecret)
	bookingHandler := handler.NewBookingHandler(bookingService, auth.NewMatrixAuthorizer(), cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(bookingHandler, verifier, publisher)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewRoomLockRepository(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := lockRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create lock indexes", "error", err)
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, event publishing disabled")
		return events.Noop{}
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event producer", "error", err)
	}

	cfg.Log.Info("Event producer initialized", "topic", cfg.KafkaBookingTopic)
	return producer
}
