// Package queue_publisher publishes domain events to RabbitMQ. Errors
// are logged and returned so callers on the request path can treat
// publication as fire-and-forget.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	q "github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// PublishReservationCreated publishes a ReservationCreatedEvent to the
// reservation.created queue after a new PENDING reservation commits.
func PublishReservationCreated(ctx context.Context, log *logrus.Logger, event q.ReservationCreatedEvent) error {
	return publish(ctx, log, q.QueueReservationCreated, event)
}

// PublishReservationConfirmed publishes a ReservationConfirmedEvent to
// the reservation.confirmed queue. Any error is logged and returned;
// callers typically ignore it because a lost notification must not fail
// the state transition itself.
func PublishReservationConfirmed(ctx context.Context, log *logrus.Logger, event q.ReservationConfirmedEvent) error {
	return publish(ctx, log, q.QueueReservationConfirmed, event)
}

// publish opens a short-lived connection, declares the durable queue and
// sends one persistent JSON message. Declaring on every publish keeps the
// path idempotent whether the consumer or the publisher starts first.
func publish(ctx context.Context, log *logrus.Logger, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.WithError(err).WithField("queue", queueName).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).WithField("queue", queueName).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		log.WithError(err).WithField("queue", queueName).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("queue", queueName).Warn("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false, false,
		pub,
	); err != nil {
		log.WithError(err).WithField("queue", queueName).Warn("rabbitmq: publish failed")
		return err
	}

	return nil
}
