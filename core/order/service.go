package order

import (
	"context"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
)

const (
	minCustomerNameLen = 2
	maxCustomerNameLen = 50
)

type Service interface {
	PlaceOrder(ctx context.Context, no NewOrder) (Order, []inventory.StockSnapshot, error)
	GetOrder(ctx context.Context, id string) (Order, error)
}

func NewService(repo Repository, inv inventory.Service, queue Queue, maxLineQuantity int) *service {
	return &service{
		repo:            repo,
		inventory:       inv,
		queue:           queue,
		maxLineQuantity: maxLineQuantity,
	}
}

type service struct {
	repo            Repository
	inventory       inventory.Service
	queue           Queue
	maxLineQuantity int
}

// PlaceOrder runs the reservation protocol: validate, compute usage,
// reserve against the ledger, persist the order, enqueue fulfillment.
// A failure after the reservation triggers a compensating release
// before the error is surfaced.
func (s *service) PlaceOrder(ctx context.Context, no NewOrder) (Order, []inventory.StockSnapshot, error) {
	const funcName = "PlaceOrder"

	log.Info().
		Str("func", funcName).
		Str("customerName", no.CustomerName).
		Int("items", len(no.Items)).
		Msg("placing order")

	if err := s.validate(no); err != nil {
		return Order{}, nil, err
	}

	usage := computeUsage(no.Items)

	if err := s.inventory.Reserve(ctx, usage); err != nil {
		return Order{}, nil, err
	}

	now := time.Now()
	o := Order{
		ID:              uuid.NewString(),
		CustomerName:    no.CustomerName,
		Status:          StatusPending,
		Items:           no.Items,
		IngredientsUsed: usage,
		Created:         now,
		Updated:         now,
	}

	if err := s.repo.SaveOrder(ctx, o); err != nil {
		log.Error().Err(err).Str("func", funcName).Str("orderId", o.ID).Msg("failed to persist order, compensating reservation")
		s.compensate(ctx, usage)
		return Order{}, nil, &core.PersistenceError{Cause: err}
	}

	wi := WorkItem{ID: o.ID, Status: o.Status, Ingredients: o.IngredientsUsed}
	if err := s.queue.PublishOrder(ctx, wi); err != nil {
		log.Error().Err(err).Str("func", funcName).Str("orderId", o.ID).Msg("failed to queue order, compensating reservation")
		s.compensate(ctx, usage)
		return Order{}, nil, &core.QueueingError{Cause: err}
	}

	log.Info().
		Str("func", funcName).
		Str("orderId", o.ID).
		Str("status", string(o.Status)).
		Msg("order placed")

	snapshot, err := s.inventory.Snapshot(ctx, usage)
	if err != nil {
		// The order is already accepted and queued; a failed snapshot
		// read only degrades the response.
		log.Warn().Err(err).Str("func", funcName).Str("orderId", o.ID).Msg("failed to read inventory snapshot")
		snapshot = nil
	}

	return o, snapshot, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return o, errors.WithStack(err)
	}
	return o, nil
}

func (s *service) validate(no NewOrder) error {
	nameLen := utf8.RuneCountInString(no.CustomerName)
	if nameLen < minCustomerNameLen || nameLen > maxCustomerNameLen {
		return &core.ValidationError{Reason: "customer name must be between 2 and 50 characters"}
	}
	if len(no.Items) == 0 {
		return &core.ValidationError{Reason: "order must contain at least one item"}
	}
	for _, item := range no.Items {
		if _, err := menu.ParseCoffeeType(string(item.CoffeeType)); err != nil {
			return err
		}
		if _, err := menu.ParseSize(string(item.Size)); err != nil {
			return err
		}
		if item.Quantity < 1 || item.Quantity > s.maxLineQuantity {
			return &core.ValidationError{Reason: "item quantity must be between 1 and " + strconv.Itoa(s.maxLineQuantity)}
		}
	}
	return nil
}

// compensate releases a reservation after a downstream failure. Release
// already attempts every ingredient; any residual error is only logged
// because the caller is about to surface the original failure.
func (s *service) compensate(ctx context.Context, usage map[menu.Ingredient]int64) {
	if err := s.inventory.Release(ctx, usage); err != nil {
		log.Error().Err(err).Msg("compensating release did not fully apply")
	}
}

func computeUsage(items []LineItem) map[menu.Ingredient]int64 {
	usage := make(map[menu.Ingredient]int64)
	for _, item := range items {
		for ingredient, amount := range menu.IngredientsFor(item.CoffeeType, item.Size, item.Quantity) {
			usage[ingredient] += amount
		}
	}
	return usage
}
