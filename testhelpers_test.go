//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/application"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/contract/events"
	travelEvents "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/events"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/database"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/kafka"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/repository"
)

// testDB holds a migrated PostgreSQL container.
type testDB struct {
	DB      *gorm.DB
	Cleanup func()
}

// travelStack holds wired-up service components.
type travelStack struct {
	Bookings        *repository.GormBookingRepository
	Hotels          *repository.GormHotelRepository
	Vehicles        *repository.GormVehicleRepository
	Service         *application.BookingService
	Catalog         *application.CatalogService
	Consumer        *travelEvents.PaymentEventConsumer
	CleanupProducer func()
}

// setupPostgres starts a PostgreSQL container and applies the SQL migrations.
func setupPostgres(t *testing.T) *testDB {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_travel",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_travel",
		SSLMode:  "disable",
	}
	logger := zap.NewNop()

	// Poll until the server accepts connections.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, logger)
		return err == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), "migrations", logger))

	return &testDB{
		DB: db,
		Cleanup: func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Logf("failed to terminate PostgreSQL container: %v", err)
			}
		},
	}
}

// setupKafka starts a Kafka container and pre-creates the service topics.
func setupKafka(t *testing.T) ([]string, func()) {
	t.Helper()
	ctx := context.Background()

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, brokers, events.TopicBookingEvents, events.TopicPaymentEvents)

	return brokers, func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	}
}

// setupTravelStack wires repositories and services. With no brokers the
// booking service runs without a publisher.
func setupTravelStack(t *testing.T, db *gorm.DB, brokers []string) *travelStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	bookingRepo := repository.NewGormBookingRepository(db)
	hotelRepo := repository.NewGormHotelRepository(db)
	vehicleRepo := repository.NewGormVehicleRepository(db, bookingRepo, logger)
	packageRepo := repository.NewGormPackageRepository(db)
	engine := query.NewEngine(query.DefaultLimits, 5*time.Second)

	stack := &travelStack{
		Bookings:        bookingRepo,
		Hotels:          hotelRepo,
		Vehicles:        vehicleRepo,
		Catalog:         application.NewCatalogService(hotelRepo, vehicleRepo, packageRepo, engine, logger),
		CleanupProducer: func() {},
	}

	if len(brokers) == 0 {
		stack.Service = application.NewBookingService(bookingRepo, hotelRepo, vehicleRepo, packageRepo, engine, nil, logger)
		return stack
	}

	producer := kafka.NewProducer(brokers, logger)
	stack.Service = application.NewBookingService(bookingRepo, hotelRepo, vehicleRepo, packageRepo, engine, producer, logger)
	stack.CleanupProducer = func() { _ = producer.Close() }

	groupID := fmt.Sprintf("test-travel-%s", uuid.New().String()[:8])
	stack.Consumer = travelEvents.NewPaymentEventConsumer(brokers, groupID, stack.Service, logger)
	return stack
}

// seedHotel inserts an active hotel row.
func seedHotel(t *testing.T, db *gorm.DB, name, city string, stars int, price float64, createdAt time.Time) uuid.UUID {
	t.Helper()
	model := repository.HotelModel{
		ID:            uuid.New(),
		Name:          name,
		Description:   name + " in " + city,
		City:          city,
		Country:       "Ghana",
		StarRating:    stars,
		PricePerNight: price,
		IsActive:      true,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed hotel")
	return model.ID
}

// seedVehicle inserts an available vehicle row.
func seedVehicle(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	model := repository.VehicleModel{
		ID:          uuid.New(),
		Make:        "Toyota",
		Model:       "Land Cruiser",
		Type:        "suv",
		Year:        2023,
		Seats:       7,
		PricePerDay: 120,
		City:        "Accra",
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed vehicle")
	return model.ID
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, key, eventType string, data interface{}) {
	t.Helper()
	producer := kafka.NewProducer(brokers, zap.NewNop())
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent("service-payment", eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	require.NoError(t, producer.PublishEvent(context.Background(), topic, key, ce), "failed to publish event")
}

// waitForBooking polls the bookings table until match accepts the row.
func waitForBooking(t *testing.T, db *gorm.DB, bookingID uuid.UUID, timeout time.Duration, match func(repository.BookingModel) bool) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		if err := db.Where("id = ?", bookingID).First(&model).Error; err != nil {
			return false
		}
		if match(model) {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking %s never reached the expected state", bookingID)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     fmt.Sprintf("test-assert-%s", uuid.New().String()[:8]),
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		var ce kafka.CloudEvent
		if err := json.Unmarshal(msg.Value, &ce); err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}
	}
	require.NoError(t, controllerConn.CreateTopics(configs...), "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(time.Second)
}
