package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/application"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/contract/events"
	bookingDomain "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/booking"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/kafka"
)

// Processed event ids are remembered this long to drop redeliveries.
const (
	seenTTL     = 30 * time.Minute
	seenCleanup = 10 * time.Minute
)

// PaymentStatusApplier records payment outcomes on bookings.
// *application.BookingService satisfies it.
type PaymentStatusApplier interface {
	ApplyPaymentStatus(ctx context.Context, bookingID uuid.UUID, status bookingDomain.PaymentStatus) (*application.BookingDTO, error)
}

// paymentStatuses maps payment event types to the status they record.
var paymentStatuses = map[string]bookingDomain.PaymentStatus{
	events.PaymentSucceeded:     bookingDomain.PaymentPaid,
	events.PaymentPartiallyPaid: bookingDomain.PaymentPartiallyPaid,
	events.PaymentRefunded:      bookingDomain.PaymentRefunded,
}

// PaymentEventConsumer listens to payment events and updates booking payment status.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  PaymentStatusApplier
	seen     *gocache.Cache
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service PaymentStatusApplier,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return newPaymentEventConsumer(consumer, service, logger)
}

func newPaymentEventConsumer(consumer *kafka.Consumer, service PaymentStatusApplier, logger *zap.Logger) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		seen:     gocache.New(seenTTL, seenCleanup),
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	status, ok := paymentStatuses[cloudEvent.Type]
	if !ok {
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	if _, dup := c.seen.Get(cloudEvent.ID); dup {
		c.logger.Debug("dropping redelivered payment event", zap.String("event_id", cloudEvent.ID))
		return nil
	}

	if err := c.handlePaymentEvent(ctx, cloudEvent, status); err != nil {
		return err
	}
	c.seen.SetDefault(cloudEvent.ID, struct{}{})
	return nil
}

func (c *PaymentEventConsumer) handlePaymentEvent(ctx context.Context, cloudEvent kafka.CloudEvent, status bookingDomain.PaymentStatus) error {
	var evt events.PaymentEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentEvent data",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}
	if evt.BookingID == uuid.Nil {
		c.logger.Error("payment event without booking id", zap.String("event_id", cloudEvent.ID))
		return nil
	}

	c.logger.Info("processing payment event",
		zap.String("type", cloudEvent.Type),
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if _, err := c.service.ApplyPaymentStatus(ctx, evt.BookingID, status); err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindNotFound, apperror.KindValidation:
			c.logger.Warn("payment event rejected",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to apply payment status",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
