package rmqconsumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"photo-manager-api/config"
	"photo-manager-api/internal/application/ports"
	"photo-manager-api/internal/infrastructure/metrics"
	"photo-manager-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

var ErrMissingPublicID = errors.New("orphan event without remote_public_id")

// Consumer reads photo lifecycle events from the shared connection and
// removes remote images whose local row was never written.
type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	conn       *amqp091.Connection
	images     ports.ImageStore
	mCounter   *prometheus.CounterVec
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(
	cfg config.MQ,
	logger *zap.Logger,
	conn *amqp091.Connection,
	images ports.ImageStore,
	mCounter *prometheus.CounterVec,
) *Consumer {
	return &Consumer{
		cfg:      cfg,
		log:      logger,
		conn:     conn,
		images:   images,
		mCounter: mCounter,
	}
}

func (c *Consumer) Init() error {
	if c.conn == nil {
		return errors.New("amqp connection is not established")
	}

	var err error
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}

	if err = c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err = c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range mq.RoutingKeys {
		if err = c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err = c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	c.log.Info("rabbitmq consumer initialized", zap.String("queue", c.cfg.QueueName))

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			c.settle(msg, c.delivery(ctx, msg))
		case <-ctx.Done():
			c.chConsume.Close()
			return
		}
	}
}

// settle acks handled messages; a failed message is requeued once and
// dropped on the second failure.
func (c *Consumer) settle(msg amqp091.Delivery, err error) {
	if err == nil {
		if aerr := msg.Ack(false); aerr != nil {
			c.log.Error("mq ack error", zap.Error(aerr))
		}
		return
	}

	// alert
	c.log.Error("mq read message error",
		zap.Error(err),
		zap.String("routing_key", msg.RoutingKey),
		zap.Bool("redelivered", msg.Redelivered),
	)
	if nerr := msg.Nack(false, !msg.Redelivered); nerr != nil {
		c.log.Error("mq nack error", zap.Error(nerr))
	}
}

func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) error {
	e, err := mq.Decode(msg.Body)
	if err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	switch msg.RoutingKey {
	case mq.ActionPhotoOrphaned:
		return c.reconcileOrphan(ctx, e)
	default:
		c.log.Info("photo event",
			zap.String("action", e.Action),
			zap.String("user_id", e.UserID),
			zap.Stringer("photo_uuid", e.Payload.UUID),
		)
		return nil
	}
}

func (c *Consumer) reconcileOrphan(ctx context.Context, e mq.Event) error {
	if e.RemotePublicID == "" {
		return ErrMissingPublicID
	}

	status, err := c.images.Destroy(ctx, e.RemotePublicID)
	if err != nil {
		return fmt.Errorf("destroy orphan %s: %w", e.RemotePublicID, err)
	}
	if status == ports.DeleteFailed {
		return fmt.Errorf("destroy orphan %s: result %s", e.RemotePublicID, status)
	}

	c.mCounter.WithLabelValues(metrics.OrphanReconciled).Inc()
	c.log.Info("orphaned remote image removed",
		zap.String("public_id", e.RemotePublicID),
		zap.String("user_id", e.UserID),
		zap.Stringer("status", status),
	)

	return nil
}
