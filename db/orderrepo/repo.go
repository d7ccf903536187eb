// Package orderrepo is the Redis implementation of the order store.
// Each order is one hash with a retention window; expired orders read
// back as not found without explicit deletion.
package orderrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
	"github.com/BrekotkinaKarina/coffee-track/core/order"
)

const (
	keyPrefix      = "order:"
	releasedPrefix = "order:released:"
)

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *redisRepo {
	return &redisRepo{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *redisRepo) SaveOrder(ctx context.Context, o order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return errors.WithMessage(err, "failed to serialize order items")
	}
	ingredients, err := json.Marshal(o.IngredientsUsed)
	if err != nil {
		return errors.WithMessage(err, "failed to serialize ingredient usage")
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key(o.ID), map[string]interface{}{
		"id":               o.ID,
		"customer_name":    o.CustomerName,
		"status":           string(o.Status),
		"items":            string(items),
		"ingredients_used": string(ingredients),
		"created_at":       o.Created.Format(time.RFC3339Nano),
		"updated_at":       o.Updated.Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key(o.ID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WithMessage(err, "failed to save order")
	}
	return nil
}

func (r *redisRepo) GetOrder(ctx context.Context, id string) (order.Order, error) {
	vals, err := r.client.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return order.Order{}, errors.WithMessage(err, "failed to read order")
	}
	if len(vals) == 0 {
		return order.Order{}, core.ErrNotFound
	}

	status, err := order.ParseStatus(vals["status"])
	if err != nil {
		return order.Order{}, errors.WithStack(err)
	}

	var items []order.LineItem
	if err := json.Unmarshal([]byte(vals["items"]), &items); err != nil {
		return order.Order{}, errors.WithMessage(err, "failed to parse order items")
	}
	var ingredients map[menu.Ingredient]int64
	if err := json.Unmarshal([]byte(vals["ingredients_used"]), &ingredients); err != nil {
		return order.Order{}, errors.WithMessage(err, "failed to parse ingredient usage")
	}

	created, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return order.Order{}, errors.WithMessage(err, "failed to parse order creation time")
	}
	updated, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return order.Order{}, errors.WithMessage(err, "failed to parse order update time")
	}

	return order.Order{
		ID:              vals["id"],
		CustomerName:    vals["customer_name"],
		Status:          status,
		Items:           items,
		IngredientsUsed: ingredients,
		Created:         created,
		Updated:         updated,
	}, nil
}

func (r *redisRepo) UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error {
	// Guard against resurrecting an expired order as a TTL-less hash.
	exists, err := r.client.Exists(ctx, key(id)).Result()
	if err != nil {
		return errors.WithMessage(err, "failed to check order existence")
	}
	if exists == 0 {
		return core.ErrNotFound
	}

	err = r.client.HSet(ctx, key(id), map[string]interface{}{
		"status":     string(status),
		"updated_at": at.Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return errors.WithMessage(err, "failed to update order status")
	}
	return nil
}

func (r *redisRepo) MarkReleased(ctx context.Context, id string) (bool, error) {
	first, err := r.client.SetNX(ctx, releasedPrefix+id, 1, r.ttl).Result()
	if err != nil {
		return false, errors.WithMessage(err, "failed to mark order released")
	}
	return first, nil
}

func (r *redisRepo) ClearReleased(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, releasedPrefix+id).Err(); err != nil {
		return errors.WithMessage(err, "failed to clear released marker")
	}
	return nil
}
