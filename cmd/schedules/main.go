package main

import (
	"grafik/internal/availability"
	ordersrepo "grafik/internal/orders/repository"
	"grafik/internal/schedules/handler"
	"grafik/internal/schedules/repository"
	"grafik/internal/schedules/service"
	"grafik/internal/schedules/validator"
	"grafik/pkg/app"
	"grafik/pkg/config"
	"grafik/pkg/kafka"
	kafka_config "grafik/pkg/kafka/config"
	"grafik/pkg/kafka/middleware"
)

const ServiceName = "schedules"

// @title Grafik Schedules API
// @version 1.0
// @description API documentation for the Work Schedules microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Schedules service")
	scheduleService, producer := initServices(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewWorkScheduleHandler(scheduleService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.WorkScheduleService, *kafka.Producer) {
	scheduleRepo := repository.NewMongoWorkScheduleRepository(cfg)
	lockRepo := repository.NewScheduleLockRepository(cfg)

	// The availability engine reads orders straight from the shared
	// database; this service never writes them.
	orderSource := ordersrepo.NewMongoOrderRepository(cfg)
	engine := availability.NewEngine(scheduleRepo, orderSource, cfg.Log, cfg.DefaultOrderDurationMin)

	scheduleValidator := validator.NewWorkScheduleValidator(cfg.Log)
	producer := newScheduleEventsProducer(cfg)

	scheduleService := service.NewWorkScheduleService(
		scheduleRepo,
		lockRepo,
		scheduleValidator,
		engine,
		producer,
		cfg,
	)

	cfg.Log.Info("Schedules service initialized", "database", cfg.MongoDatabaseName)
	return scheduleService, producer
}

func newScheduleEventsProducer(cfg *config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kafka_config.Load(), kafka.TopicScheduleEvents, kafka.TopicScheduleEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(middleware.MetricsProducerMiddleware())
	return producer
}
