package main

import (
	"grafik/internal/availability"
	"grafik/internal/orders/handler"
	"grafik/internal/orders/repository"
	"grafik/internal/orders/service"
	"grafik/internal/orders/validator"
	schedulesrepo "grafik/internal/schedules/repository"
	"grafik/pkg/app"
	"grafik/pkg/config"
	"grafik/pkg/kafka"
	kafka_config "grafik/pkg/kafka/config"
	"grafik/pkg/kafka/middleware"
)

const ServiceName = "orders"

// @title Grafik Orders API
// @version 1.0
// @description API documentation for the Orders microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Orders service")
	orderService, producer := initServices(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewOrderHandler(orderService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.OrderService, *kafka.Producer) {
	orderRepo := repository.NewMongoOrderRepository(cfg)
	lockRepo := repository.NewAssignmentLockRepository(cfg)

	// Assignment checks consult the masters' schedules straight from the
	// shared database; this service never writes them.
	scheduleSource := schedulesrepo.NewMongoWorkScheduleRepository(cfg)
	engine := availability.NewEngine(scheduleSource, orderRepo, cfg.Log, cfg.DefaultOrderDurationMin)

	orderValidator := validator.NewOrderValidator(cfg.Log)
	producer := newOrderEventsProducer(cfg)

	orderService := service.NewOrderService(
		orderRepo,
		lockRepo,
		orderValidator,
		engine,
		producer,
		cfg,
	)

	cfg.Log.Info("Orders service initialized", "database", cfg.MongoDatabaseName)
	return orderService, producer
}

func newOrderEventsProducer(cfg *config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kafka_config.Load(), kafka.TopicOrderEvents, kafka.TopicOrderEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(middleware.MetricsProducerMiddleware())
	return producer
}
