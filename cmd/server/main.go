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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/application"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/config"
	travelEvents "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/events"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/handler"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/auth"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/database"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/health"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/kafka"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/logger"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/middleware"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/repository"
)

const serviceName = "travel-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.HotelModel{},
			&repository.VehicleModel{},
			&repository.PackageModel{},
			&repository.BookingModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.TTL)

	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	hotelRepo := repository.NewGormHotelRepository(db)
	vehicleRepo := repository.NewGormVehicleRepository(db, bookingRepo, log)
	packageRepo := repository.NewGormPackageRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	engine := query.NewEngine(query.Limits{
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
	}, cfg.Query.Timeout)

	// Application services
	bookingService := application.NewBookingService(
		bookingRepo,
		hotelRepo,
		vehicleRepo,
		packageRepo,
		engine,
		kafkaProducer,
		log,
		application.WithCancellationWindow(cfg.CancellationWindow),
	)
	catalogService := application.NewCatalogService(hotelRepo, vehicleRepo, packageRepo, engine, log)
	userService := application.NewUserService(userRepo, engine)

	paymentConsumer := travelEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupPrefix+serviceName,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	metrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer, "travel")

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(metrics.Middleware())
	router.Use(middleware.CORSMiddleware(cfg.HTTP.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))
	router.Use(middleware.TimeoutMiddleware(cfg.HTTP.RequestTimeout))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	health.NewHandler(db, serviceName).RegisterRoutes(router)

	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminHandler(bookingService, userService).RegisterRoutes(&router.RouterGroup, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("payment event consumer: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down " + serviceName + "...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server forced shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error(serviceName+" stopped with error", zap.Error(err))
		return
	}
	log.Info(serviceName + " stopped")
}
