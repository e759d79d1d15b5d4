package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/database"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/airlines"
	"github.com/Domenick1991/flightbooking/internal/service/airplanes"
	"github.com/Domenick1991/flightbooking/internal/service/airports"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/users"
	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath, err := config.ConfigPath()
	if err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog, closer, err := logger.Open(cfg.Log.Dir, "api", cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	appLog.LogDatabase("connect", cfg.Database.Name, "pool ready")

	redisClient := cache.NewClient(cfg.Redis)
	defer redisClient.Close()
	flightCache := cache.NewRedisCache(redisClient, cfg.Booking.FlightsCacheTTL())

	var limiter api.Limiter
	if cfg.RateLimit.Enabled {
		limiter = cache.NewRateLimiter(redisClient, cfg.RateLimit)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, appLog)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		appLog.Warn("KAFKA", "brokers unreachable, events will be dropped: "+err.Error())
	}

	userRepo := repository.NewUserRepository(pool)
	airlineRepo := repository.NewAirlineRepository(pool)
	airportRepo := repository.NewAirportRepository(pool)
	airplaneRepo := repository.NewAirplaneRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool,
		repository.WithTxRetries(cfg.Booking.TxRetries),
		repository.WithRetryBackoff(cfg.Booking.RetryBackoff()),
		repository.WithReferenceAttempts(cfg.Booking.ReferenceAttempts),
	)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, nil)

	userService := users.NewUserService(userRepo, tokens, cfg.Auth.BcryptCost, appLog)
	flightService := flights.NewFlightService(flightRepo, airlineRepo, airportRepo, airplaneRepo, flightCache,
		flights.WithLogger(appLog),
	)
	bookingService := booking.NewBookingService(bookingRepo, producer,
		booking.WithCutoff(cfg.Booking.Cutoff()),
		booking.WithTopics(cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic),
		booking.WithLogger(appLog),
	)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterConfig{
		Tokens:     tokens,
		Users:      userService,
		Limiter:    limiter,
		Log:        appLog,
		SwaggerDir: cfg.HTTP.SwaggerDir,
	}, api.Handlers{
		Users:     api.NewUserHandler(userService),
		Airlines:  api.NewAirlineHandler(airlines.NewAirlineService(airlineRepo)),
		Airports:  api.NewAirportHandler(airports.NewAirportService(airportRepo)),
		Airplanes: api.NewAirplaneHandler(airplanes.NewAirplaneService(airplaneRepo)),
		Flights:   api.NewFlightHandler(flightService),
		Bookings:  api.NewBookingHandler(bookingService),
	})

	if err := bootstrap.Run(ctx, cfg.HTTP, router, appLog); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
