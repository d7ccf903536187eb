package order

import (
	"context"
	"time"
)

type Repository interface {
	// SaveOrder persists the order with the store's retention window.
	// Expired orders read back as core.ErrNotFound.
	SaveOrder(ctx context.Context, o Order) error
	GetOrder(ctx context.Context, id string) (Order, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error

	// MarkReleased records that the order's reservation was released.
	// Returns true only for the first caller; redeliveries of the same
	// work item observe false and skip the release.
	MarkReleased(ctx context.Context, id string) (bool, error)

	// ClearReleased removes the released marker so a later MarkReleased
	// succeeds again. Used when the release fails after the marker was
	// written; the marker must never claim a release that did not
	// happen.
	ClearReleased(ctx context.Context, id string) error
}

type Queue interface {
	// PublishOrder durably enqueues the fulfillment work item. The
	// message must survive a broker restart.
	PublishOrder(ctx context.Context, wi WorkItem) error
}
