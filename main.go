// File: techmate/main.go
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
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"techmate/config"
	"techmate/cron"
	"techmate/database"
	bookingRepo "techmate/database/repository/booking"
	commissionRepo "techmate/database/repository/commission"
	scheduleRepo "techmate/database/repository/schedule"
	subscriptionRepo "techmate/database/repository/subscription"
	technicianRepo "techmate/database/repository/technician"
	"techmate/handlers"
	"techmate/middleware"
	"techmate/routes"
	"techmate/services/availability"
	"techmate/services/payment"
	"techmate/services/scheduling"
	"techmate/services/subscription"
	"techmate/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: database unavailable", zap.Error(err))
	}
	if err := utils.InitRedis(); err != nil {
		logger.Fatal("main: redis unavailable", zap.Error(err))
	}
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	db := database.DB()
	schedules := scheduleRepo.NewMongoScheduleRepo(db)
	technicians := technicianRepo.NewMongoTechnicianRepo(db)
	subscriptions := subscriptionRepo.NewMongoSubscriptionRepo(db)
	packages := commissionRepo.NewMongoPackageRepo(db)
	activities := bookingRepo.NewMongoActivityLookup(db)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		scheduleRepo.CollectionName:     schedules.EnsureIndexes,
		technicianRepo.CollectionName:   technicians.EnsureIndexes,
		subscriptionRepo.CollectionName: subscriptions.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Fatal("main: could not ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	cancelIndexes()

	// services.
	facade := scheduling.NewSchedulingFacade(schedules, activities, logger.Named("scheduling"))

	var gateway payment.Gateway
	if config.AppConfig.StripeKey != "" {
		gateway = payment.NewStripeGateway(logger.Named("payment"))
	} else {
		logger.Warn("main: STRIPE_KEY not set, CARD payments are disabled")
	}
	ledger := subscription.NewLedger(
		subscriptions, packages, technicians,
		database.NewMongoTransactor(database.MongoClient),
		gateway,
		logger.Named("subscriptions"),
		config.AppConfig.Currency,
	)

	availabilitySweep := availability.NewReconciler(technicians, schedules, logger.Named("availability"), config.AppConfig.AvailabilityLookback)
	availabilitySweep.BatchSize = config.AppConfig.SweepBatchSize
	availabilitySweep.Concurrency = config.AppConfig.SweepConcurrency
	expirySweep := subscription.NewReconciler(subscriptions, logger.Named("expiry"))
	expirySweep.BatchSize = config.AppConfig.SweepBatchSize

	// Shared by the scheduled ticks and the queued manual runs.
	runAvailability := cron.Exclusive("availability", logger, func(ctx context.Context) error {
		_, err := availabilitySweep.Sweep(ctx)
		return err
	})
	runExpiry := cron.Exclusive("subscriptions", logger, func(ctx context.Context) error {
		_, err := expirySweep.Sweep(ctx)
		return err
	})

	// background work.
	supervisor := cron.NewSupervisor(logger, config.AppConfig.SweepTimeout)
	if err := supervisor.Register("availability", config.AppConfig.AvailabilitySweepInterval, runAvailability); err != nil {
		logger.Fatal("main: could not schedule availability sweep", zap.Error(err))
	}
	if err := supervisor.Register("subscriptions", config.AppConfig.SubscriptionSweepInterval, runExpiry); err != nil {
		logger.Fatal("main: could not schedule subscription sweep", zap.Error(err))
	}
	supervisor.Start()

	queueOpt := cron.QueueRedisOpt()
	worker := cron.NewWorker(queueOpt, logger, config.AppConfig.SweepTimeout, runAvailability, runExpiry)
	if err := worker.Start(); err != nil {
		logger.Fatal("main: sweep worker failed to start", zap.Error(err))
	}
	enqueuer := cron.NewEnqueuer(queueOpt, config.AppConfig.SweepTimeout)

	healthCtx, stopHealth := context.WithCancel(context.Background())
	utils.StartHealthMonitor(healthCtx, []*redis.Client{utils.GetRedisClient()}, database.MongoClient, time.Minute)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, config.AppConfig.ProxyIPHeaders))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewScheduleHandler(facade),
		handlers.NewSubscriptionHandler(ledger),
		handlers.NewAdminHandler(enqueuer, utils.GetHealthStatus),
	)
	routes.RegisterRoutes(router, handlerBundle)

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := supervisor.Stop(ctx); err != nil {
		logger.Warn("main: sweeps interrupted", zap.Error(err))
	}
	worker.Shutdown()
	if err := enqueuer.Close(); err != nil {
		logger.Warn("main: queue client close failed", zap.Error(err))
	}
	stopHealth()
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
