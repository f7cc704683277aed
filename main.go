package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"agendly/config"
	"agendly/database"
	agendaRepoPkg "agendly/database/repository/agenda"
	availabilityRepoPkg "agendly/database/repository/availability"
	blockedRepoPkg "agendly/database/repository/blocked"
	bookingRepoPkg "agendly/database/repository/booking"
	catalogRepoPkg "agendly/database/repository/catalog"
	"agendly/handlers"
	"agendly/routes"
	bookingSvc "agendly/services/booking"
	planningSvc "agendly/services/planning"
	providerSvc "agendly/services/provider"
	"agendly/services/scheduling"
	"agendly/services/tasks"
	"agendly/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitPlanningCache()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// repositories.
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	blockedRepo := blockedRepoPkg.NewMongoBlockedRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	agendaRepo := agendaRepoPkg.NewMongoAgendaRepo()

	for name, ensure := range map[string]func() error{
		"catalog":      catalogRepo.EnsureIndexes,
		"availability": availabilityRepo.EnsureIndexes,
		"blocked":      blockedRepo.EnsureIndexes,
		"booking":      bookingRepo.EnsureIndexes,
		"agenda":       agendaRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// task queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	defer asynqClient.Close()
	enqueuer := tasks.NewEnqueuer(asynqClient)

	// services.
	engine := scheduling.NewSchedulingEngine(catalogRepo, availabilityRepo, blockedRepo, bookingRepo)
	bookingService := bookingSvc.NewBookingService(catalogRepo, bookingRepo, agendaRepo, engine)
	providerService := providerSvc.NewProviderService(catalogRepo, availabilityRepo, blockedRepo, bookingRepo)
	planningService := planningSvc.NewPlanningService(catalogRepo, bookingRepo, utils.GetPlanningCacheClient())

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ProviderService: providerService,
		BookingService:  bookingService,
		PlanningService: planningService,
		Engine:          engine,
		Enqueuer:        enqueuer,
	}

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetPlanningCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
