package main

import (
	"grafik/internal/autoservices/handler"
	"grafik/internal/autoservices/repository"
	"grafik/internal/autoservices/service"
	"grafik/internal/autoservices/validator"
	"grafik/pkg/app"
	"grafik/pkg/config"
)

const ServiceName = "autoservices"

// @title Grafik Auto Services API
// @version 1.0
// @description API documentation for the registry microservice: regions, auto services and masters.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Auto Services registry")

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, initHandlers(cfg))
	serverApp.Run()
}

func initHandlers(cfg *config.Config) *handler.RegistryHandler {
	regionRepo := repository.NewMongoRegionRepository(cfg)
	autoServiceRepo := repository.NewMongoAutoServiceRepository(cfg)
	masterRepo := repository.NewMongoMasterRepository(cfg)

	registryValidator := validator.NewRegistryValidator(cfg.Log)

	regionService := service.NewRegionService(regionRepo, autoServiceRepo, registryValidator, cfg)
	autoServiceService := service.NewAutoServiceService(autoServiceRepo, regionRepo, masterRepo, registryValidator, cfg)
	masterService := service.NewMasterService(masterRepo, autoServiceRepo, registryValidator, cfg)

	cfg.Log.Info("Registry services initialized", "database", cfg.MongoDatabaseName)

	return handler.NewRegistryHandler(
		handler.NewRegionHandler(regionService, cfg.Log),
		handler.NewAutoServiceHandler(autoServiceService, cfg.Log),
		handler.NewMasterHandler(masterService, cfg.Log),
	)
}
