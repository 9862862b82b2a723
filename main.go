package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/airport-ground-ops/config"
	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/Eursukkul/airport-ground-ops/internal/consumer"
	"github.com/Eursukkul/airport-ground-ops/internal/eligibility"
	"github.com/Eursukkul/airport-ground-ops/internal/handler"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/Eursukkul/airport-ground-ops/internal/statemachine"
	"github.com/Eursukkul/airport-ground-ops/pkg/database"
	"github.com/Eursukkul/airport-ground-ops/pkg/logger"
	"github.com/Eursukkul/airport-ground-ops/pkg/metrics"
	"github.com/Eursukkul/airport-ground-ops/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger is configured from cfg, so this one goes to stderr
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DSN(), database.DefaultPool)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}

	m := metrics.NewMetrics(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)

	// RabbitMQ is optional: without it status changes are not published and
	// the schedule feed is not consumed.
	var publisher service.Publisher
	var mqConsumer *rabbitmq.Consumer
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", "error", err)
		}
		defer p.Close()
		publisher = p

		mqConsumer, err = rabbitmq.NewConsumer(cfg.RabbitMQ.URL, rabbitmq.ScheduleQueueName, rabbitmq.ScheduleBindingKey, log)
		if err != nil {
			log.Fatal("failed to set up schedule consumer", "error", err)
		}
		defer mqConsumer.Close()
	} else {
		log.Warn("RABBITMQ_URL not set, messaging disabled")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, idempotency keys will fail open", "error", err)
		}
	}

	// Repositories
	txm := repository.NewTxManager(db)
	flightRepo := repository.NewFlightRepository(db)
	deskRepo := repository.NewDeskRepository(db)
	gateRepo := repository.NewGateRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	passengerRepo := repository.NewPassengerRepository(db)

	machine := statemachine.New()
	if cfg.Flights.BoardingOpenOnGateOn {
		machine = statemachine.NewBoardingOpenOnGate()
		log.Warn("gate activation skips check_in_closed", "status", machine.GateOpenStatus().String())
	}
	rules := eligibility.NewRules(flightRepo)
	notifier := service.NewNotifier(publisher, m, log)

	// Services
	assignmentSvc := service.NewAssignmentService(txm, flightRepo, deskRepo, gateRepo, machine, notifier)
	flightSvc := service.NewFlightService(txm, flightRepo, notifier, cfg.Flights.HomeAirport)
	deskSvc := service.NewDeskService(deskRepo, workerRepo, rules)
	gateSvc := service.NewGateService(gateRepo, workerRepo, rules)
	workerSvc := service.NewWorkerService(txm, workerRepo, assignmentSvc, notifier)
	passengerSvc := service.NewPassengerService(txm, passengerRepo, flightRepo)

	var consumerDone <-chan struct{}
	if mqConsumer != nil {
		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatal("failed to start consuming", "error", err)
		}
		consumerDone = consumer.NewScheduleConsumer(flightSvc, log).Start(ctx, msgs)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(log)
	e.Validator = middleware.NewRequestValidator()
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "ground-ops"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	az := auth.NewAuthorizer()
	api := e.Group("/api/v1", middleware.Authenticate([]byte(cfg.Auth.JWTSecret)))
	handler.NewFlightHandler(flightSvc, az).RegisterRoutes(api)
	handler.NewDeskHandler(deskSvc, assignmentSvc, az).RegisterRoutes(api)
	handler.NewGateHandler(gateSvc, assignmentSvc, az).RegisterRoutes(api)
	handler.NewAssignmentHandler(assignmentSvc, az).RegisterRoutes(api, middleware.Idempotency(redisClient, log))
	handler.NewWorkerHandler(workerSvc, az).RegisterRoutes(api)
	handler.NewPassengerHandler(passengerSvc, az).RegisterRoutes(api)

	go func() {
		log.Info("ground-ops service starting", "port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	if consumerDone != nil {
		select {
		case <-consumerDone:
		case <-shutdownCtx.Done():
			log.Warn("schedule consumer did not stop in time")
		}
	}
}
