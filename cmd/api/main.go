package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fleet-rental/reservation-service/internal/config"
	"github.com/fleet-rental/reservation-service/internal/domain"
	"github.com/fleet-rental/reservation-service/internal/handlers"
	"github.com/fleet-rental/reservation-service/internal/messaging"
	"github.com/fleet-rental/reservation-service/internal/metrics"
	"github.com/fleet-rental/reservation-service/internal/repository"
	"github.com/fleet-rental/reservation-service/internal/service"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := newLogger(cfg.Logging)
	defer log.Sync()

	log.Info("starting reservation service",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Name),
		zap.Int("max_rental_days", cfg.Policy.MaxRentalDays),
		zap.Int("max_advance_days", cfg.Policy.MaxAdvanceDays))

	db, err := repository.NewDB(repository.DBConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.RabbitMQ.Enabled {
		client := messaging.NewClient(messaging.Config{
			Host:     cfg.RabbitMQ.Host,
			Port:     cfg.RabbitMQ.Port,
			Username: cfg.RabbitMQ.Username,
			Password: cfg.RabbitMQ.Password,
			VHost:    cfg.RabbitMQ.VHost,
			Exchange: cfg.RabbitMQ.Exchange,
		}, log)
		if err := client.Connect(); err != nil {
			log.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer client.Close()
		notifier = messaging.NewPublisher(client, log)
	}

	bookingService := service.NewBookingService(
		repository.NewBookingRepository(db, cfg.Store.LockTimeout, log),
		repository.NewVehicleRepository(db),
		repository.NewUserRepository(db),
		notifier,
		domain.Policy{
			MaxRentalDays:  cfg.Policy.MaxRentalDays,
			MaxAdvanceDays: cfg.Policy.MaxAdvanceDays,
		},
		domain.RealClock{},
		m,
		log,
	)

	bookingHandler := handlers.NewBookingHandler(bookingService, log)

	app := newFiberApp(cfg.Server)
	setupRoutes(app, bookingHandler)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry, log)
		metricsServer.Start()
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan

		log.Info("shutting down", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Warn("metrics server shutdown failed", zap.Error(err))
			}
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	log.Info("reservation service listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newFiberApp(cfg config.ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Reservation Service v1.0",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))

	return app
}

func setupRoutes(app *fiber.App, bookingHandler *handlers.BookingHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", bookingHandler.HealthCheck)
	api.Get("/vehicles/availability", bookingHandler.CheckAvailability)
	api.Post("/bookings", bookingHandler.CreateBooking)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}

func newLogger(cfg config.LoggingConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zapCfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return log
}
