// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cinema-tickets/cmd"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/notifier"
	"cinema-tickets/internal/payment"
	"cinema-tickets/internal/reaper"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/internal/wire"
	"cinema-tickets/pkg/cache"
	"cinema-tickets/pkg/database"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Availability snapshot cache. The system works without it, just slower.
	var availabilityCache usecase.AvailabilityCache
	redisCache, err := cache.InitRedis(config.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, availability reads go to the database", zap.Error(err))
	} else {
		availabilityCache = redisCache
		defer redisCache.Close()
	}

	// Booking event publisher, optional as well.
	var notify notifier.Notifier = notifier.NopNotifier{}
	if config.AMQP.URL != "" {
		amqpNotifier, err := notifier.NewNotifier(config.AMQP, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, booking events are dropped", zap.Error(err))
		} else {
			notify = amqpNotifier
			defer amqpNotifier.Close()
		}
	}

	gateway := payment.NewGateway(config.Payment, logger)

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(repos, config, availabilityCache, gateway, notify, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Confirmation consumer, only when the broker is up.
	if config.AMQP.URL != "" {
		consumer, err := notifier.NewConsumer(config.AMQP, logger)
		if err != nil {
			logger.Warn("Confirmation consumer disabled", zap.Error(err))
		} else {
			defer consumer.Close()
			go func() {
				if err := consumer.Run(ctx); err != nil {
					logger.Error("Confirmation consumer failed", zap.Error(err))
				}
			}()
		}
	}

	// Background sweep of expired holds.
	go reaper.New(repos.Hold, config.Reservation.ReapInterval, logger).Run(ctx)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(ctx, app.Router, config.App.Port, logger)
}
