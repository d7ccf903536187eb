// Package queue carries fulfillment work items between the coordinator
// and the worker over RabbitMQ. Delivery is at-least-once; the worker's
// ack is the only thing that permanently removes a message.
package queue

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sksmith/bunnyq"
	"github.com/streadway/amqp"

	"github.com/BrekotkinaKarina/coffee-track/core/order"
)

type publisher interface {
	Publish(ctx context.Context, exchange string, body []byte, options ...bunnyq.PublishOption) error
}

type OrderQueue struct {
	queue         *bunnyq.BunnyQ
	pub           publisher
	orderExchange string
	orderQueue    string
	dltExchange   string
}

func New(bq *bunnyq.BunnyQ, orderExchange, orderQueue, dltExchange string) *OrderQueue {
	return &OrderQueue{
		queue:         bq,
		pub:           bq,
		orderExchange: orderExchange,
		orderQueue:    orderQueue,
		dltExchange:   dltExchange,
	}
}

func (q *OrderQueue) PublishOrder(ctx context.Context, wi order.WorkItem) error {
	body, err := json.Marshal(wi)
	if err != nil {
		return errors.WithMessage(err, "failed to serialize work item for queue")
	}
	if err = q.pub.Publish(ctx, q.orderExchange, body); err != nil {
		return errors.WithMessage(err, "failed to send work item to queue")
	}
	return nil
}

type OrderHandler interface {
	ProcessOrder(ctx context.Context, wi order.WorkItem) error
}

// ConsumeOrders drains the order queue with a single consumer,
// processing one delivery at a time.
func (q *OrderQueue) ConsumeOrders(ctx context.Context, handler OrderHandler) {
	q.queue.Stream(ctx, q.orderQueue, func(delivery amqp.Delivery) {
		q.handleDelivery(ctx, handler, delivery)
	})
}

// handleDelivery settles one delivery. A successful handler run acks
// the message; a failed or malformed one is copied to the dead letter
// exchange and removed from the queue. A message leaves the queue only
// once its dead letter copy has landed: if that publish fails, the
// delivery is requeued so nothing is lost while the broker misbehaves.
func (q *OrderQueue) handleDelivery(ctx context.Context, handler OrderHandler, delivery amqp.Delivery) {
	wi := order.WorkItem{}
	if err := json.Unmarshal(delivery.Body, &wi); err != nil {
		log.Error().Err(err).Msg("error unmarshalling work item, writing to dlt")
		if dltErr := q.sendToDlt(ctx, delivery.Body); dltErr != nil {
			q.requeue(delivery, "")
			return
		}
		if err := delivery.Ack(false); err != nil {
			log.Error().Err(err).Msg("error acking malformed work item")
		}
		return
	}

	if err := handler.ProcessOrder(ctx, wi); err != nil {
		log.Error().Err(err).Str("orderId", wi.ID).Msg("error handling work item, writing to dlt")
		if dltErr := q.sendToDlt(ctx, delivery.Body); dltErr != nil {
			q.requeue(delivery, wi.ID)
			return
		}
		if err := delivery.Nack(false, false); err != nil {
			log.Error().Err(err).Str("orderId", wi.ID).Msg("error nacking work item")
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		log.Error().Err(err).Str("orderId", wi.ID).Msg("error acking work item")
	}
}

func (q *OrderQueue) requeue(delivery amqp.Delivery, orderID string) {
	if err := delivery.Nack(false, true); err != nil {
		log.Error().Err(err).Str("orderId", orderID).Msg("error requeueing work item")
	}
}

func (q *OrderQueue) sendToDlt(ctx context.Context, data []byte) error {
	if err := q.pub.Publish(ctx, q.dltExchange, data); err != nil {
		log.Error().Err(err).Msg("error writing to dlt")
		return err
	}
	return nil
}
