package order

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
)

// releasedCacheSize bounds the in-process dedup cache. The durable
// marker in the order store is authoritative; the cache only avoids a
// round trip for recently processed orders.
const releasedCacheSize = 1024

type Fulfiller interface {
	ProcessOrder(ctx context.Context, wi WorkItem) error
}

func NewFulfiller(repo Repository, inv inventory.Service, prepTime time.Duration) *fulfiller {
	released, _ := lru.New(releasedCacheSize)
	return &fulfiller{
		repo:      repo,
		inventory: inv,
		prepTime:  prepTime,
		released:  released,
	}
}

type fulfiller struct {
	repo      Repository
	inventory inventory.Service
	prepTime  time.Duration
	released  *lru.Cache
}

// ProcessOrder advances one order through its lifecycle:
// pending -> in_progress -> ready, releasing the reservation before the
// ready transition. Any failure marks the order cancelled and returns
// an error so the queue layer can nack the delivery. Deliveries are
// at-least-once; the release is idempotent across redeliveries.
func (f *fulfiller) ProcessOrder(ctx context.Context, wi WorkItem) error {
	const funcName = "ProcessOrder"

	log.Info().
		Str("func", funcName).
		Str("orderId", wi.ID).
		Msg("processing order")

	if err := f.repo.UpdateStatus(ctx, wi.ID, StatusInProgress, time.Now()); err != nil {
		return f.cancel(ctx, wi.ID, errors.WithMessage(err, "failed to mark order in progress"))
	}

	// Stands in for brewing time. Processing is serialized through the
	// single consumer, so this delay also paces the queue.
	select {
	case <-ctx.Done():
		return f.cancel(ctx, wi.ID, ctx.Err())
	case <-time.After(f.prepTime):
	}

	// The work item carries the usage too, but the order store is the
	// durable reference.
	o, err := f.repo.GetOrder(ctx, wi.ID)
	if err != nil {
		return f.cancel(ctx, wi.ID, errors.WithMessage(err, "failed to read order"))
	}

	if err := f.release(ctx, o); err != nil {
		return f.cancel(ctx, wi.ID, errors.WithMessage(err, "failed to release reservation"))
	}

	if err := f.repo.UpdateStatus(ctx, wi.ID, StatusReady, time.Now()); err != nil {
		return f.cancel(ctx, wi.ID, errors.WithMessage(err, "failed to mark order ready"))
	}

	log.Info().
		Str("func", funcName).
		Str("orderId", wi.ID).
		Msg("order ready")

	return nil
}

// release returns the order's reserved amounts to the ledger exactly
// once. A redelivered work item finds the released marker already set
// and skips the decrement.
func (f *fulfiller) release(ctx context.Context, o Order) error {
	const funcName = "release"

	if _, ok := f.released.Get(o.ID); ok {
		log.Debug().Str("func", funcName).Str("orderId", o.ID).Msg("reservation already released, skipping")
		return nil
	}

	first, err := f.repo.MarkReleased(ctx, o.ID)
	if err != nil {
		return errors.WithStack(err)
	}
	if !first {
		log.Debug().Str("func", funcName).Str("orderId", o.ID).Msg("redelivered work item, reservation already released")
		f.released.Add(o.ID, struct{}{})
		return nil
	}

	if err := f.inventory.Release(ctx, o.IngredientsUsed); err != nil {
		// The marker must not claim a release that did not happen, or
		// every redelivery would skip it and strand the reservation.
		if clearErr := f.repo.ClearReleased(ctx, o.ID); clearErr != nil {
			log.Error().Err(clearErr).Str("func", funcName).Str("orderId", o.ID).Msg("failed to clear released marker after failed release")
		}
		return errors.WithStack(err)
	}

	f.released.Add(o.ID, struct{}{})
	return nil
}

func (f *fulfiller) cancel(ctx context.Context, id string, cause error) error {
	const funcName = "cancel"

	log.Error().Err(cause).
		Str("func", funcName).
		Str("orderId", id).
		Msg("cancelling order")

	if err := f.repo.UpdateStatus(ctx, id, StatusCancelled, time.Now()); err != nil {
		log.Error().Err(err).Str("func", funcName).Str("orderId", id).Msg("failed to mark order cancelled")
	}

	// Known gap flagged with the system owner: a cancelled order keeps
	// its reservation held. Logged so stranded amounts stay visible.
	log.Warn().
		Str("func", funcName).
		Str("orderId", id).
		Msg("cancelled order still holds its ingredient reservation")

	return &core.FulfillmentError{OrderID: id, Cause: cause}
}
