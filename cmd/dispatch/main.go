package main

import (
	"context"

	"grafik/internal/dispatch/cache"
	"grafik/internal/dispatch/core"
	"grafik/internal/dispatch/flows"
	"grafik/internal/dispatch/handler"
	"grafik/internal/dispatch/service"
	"grafik/pkg/app"
	"grafik/pkg/client"
	"grafik/pkg/config"
	kafka_config "grafik/pkg/kafka/config"
	"grafik/pkg/sealer"
)

const ServiceName = "dispatch"

// @title Grafik Dispatch API
// @version 1.0
// @description Read-side orchestration over the schedules, orders and registry services.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Dispatch service")

	dispatchService, scheduleCache := initServices(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startInvalidator(ctx, cfg, scheduleCache)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewFlowHandler(dispatchService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.DispatchService, *cache.ScheduleCache) {
	clients := client.NewSet(cfg.SchedulesServiceURL, cfg.OrdersServiceURL, cfg.AutoServicesServiceURL)
	scheduleCache := cache.NewScheduleCache(cfg.Client.Redis, clients.Schedules, cfg.CacheTTL, cfg.Log)

	deps := &flows.Deps{
		Clients:            clients,
		Schedules:          scheduleCache,
		Sealer:             sealer.New(cfg.SlotTokenSecret),
		Limiter:            core.NewLimiter(cfg.MaxConcurrentAPICalls),
		Log:                cfg.Log,
		DefaultDurationMin: cfg.DefaultOrderDurationMin,
		SlotStepMin:        cfg.SlotStepMin,
	}

	engine := core.NewEngine(cfg.Log, flows.All(deps)...)
	dispatchService := service.NewDispatch(engine, cfg)

	cfg.Log.Info("Dispatch service initialized",
		"flows", engine.Flows(),
		"max_concurrent_calls", cfg.MaxConcurrentAPICalls,
	)
	return dispatchService, scheduleCache
}

// startInvalidator launches the schedule-events consumer that keeps the
// Redis cache honest. Dispatch still works without it; entries then age
// out on TTL alone.
func startInvalidator(ctx context.Context, cfg *config.Config, scheduleCache *cache.ScheduleCache) {
	invalidator, err := cache.NewScheduleInvalidator(kafka_config.Load(), scheduleCache, cfg.Log)
	if err != nil {
		cfg.Log.Error("Failed to create schedule cache invalidator, relying on TTL expiry", "error", err)
		return
	}

	go func() {
		defer func() {
			if err := invalidator.Close(); err != nil {
				cfg.Log.Error("Failed to close schedule cache invalidator", "error", err)
			}
		}()
		if err := invalidator.Start(ctx); err != nil && err != context.Canceled {
			cfg.Log.Error("Schedule cache invalidator stopped", "error", err)
		}
	}()
}
