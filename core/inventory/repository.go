package inventory

import (
	"context"

	"github.com/BrekotkinaKarina/coffee-track/core/menu"
)

type Repository interface {
	// EnsureInitialized creates the ledger record with reserved = 0 if
	// it does not exist yet. Idempotent; never resets an existing
	// record, even under concurrent callers.
	EnsureInitialized(ctx context.Context, ingredient menu.Ingredient, total int64) error

	// GetLevels is a point-in-time read. Returns core.ErrNotFound for
	// an uninitialized ingredient.
	GetLevels(ctx context.Context, ingredient menu.Ingredient) (StockLevel, error)

	// AdjustReserved atomically adds delta to the reserved amount,
	// positive to reserve and negative to release. It does not enforce
	// headroom; ReserveIfAvailable does.
	AdjustReserved(ctx context.Context, ingredient menu.Ingredient, delta int64) error

	// ReserveIfAvailable checks headroom for every ingredient in usage
	// and applies all increments as one atomic operation. On shortage
	// nothing is mutated and the constraining ingredient is returned.
	ReserveIfAvailable(ctx context.Context, usage map[menu.Ingredient]int64) (*Shortage, error)

	Ping(ctx context.Context) error
}
