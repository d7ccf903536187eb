package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
)

type Service interface {
	EnsureInitialized(ctx context.Context) error

	Available(ctx context.Context, ingredient menu.Ingredient) (int64, error)
	Reserve(ctx context.Context, usage map[menu.Ingredient]int64) error
	Release(ctx context.Context, usage map[menu.Ingredient]int64) error

	Snapshot(ctx context.Context, usage map[menu.Ingredient]int64) ([]StockSnapshot, error)
	SnapshotAll(ctx context.Context) ([]StockSnapshot, error)

	Ping(ctx context.Context) error

	SubscribeInventory(ch chan<- StockLevel) (id InventorySubID)
	UnsubscribeInventory(id InventorySubID)
}

type InventorySubID string

func NewService(repo Repository, capacity map[menu.Ingredient]int64) *service {
	return &service{
		repo:     repo,
		capacity: capacity,
		subs:     make(map[InventorySubID]chan<- StockLevel),
	}
}

type service struct {
	repo     Repository
	capacity map[menu.Ingredient]int64

	mu   sync.RWMutex
	subs map[InventorySubID]chan<- StockLevel
}

// EnsureInitialized lazily creates the ledger record for every
// configured ingredient with its capacity and reserved = 0.
func (s *service) EnsureInitialized(ctx context.Context) error {
	const funcName = "EnsureInitialized"

	for _, ingredient := range sortIngredients(s.capacity) {
		log.Debug().
			Str("func", funcName).
			Str("ingredient", string(ingredient)).
			Int64("total", s.capacity[ingredient]).
			Msg("initializing ledger record")

		if err := s.repo.EnsureInitialized(ctx, ingredient, s.capacity[ingredient]); err != nil {
			return errors.WithMessage(err, "failed to initialize ledger record")
		}
	}
	return nil
}

func (s *service) Available(ctx context.Context, ingredient menu.Ingredient) (int64, error) {
	levels, err := s.repo.GetLevels(ctx, ingredient)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return levels.Available(), nil
}

// Reserve commits the given amounts against the ledger. The check and
// the increments execute as a single atomic operation per the store, so
// concurrent orders competing for the same ingredient cannot both pass
// the headroom check.
func (s *service) Reserve(ctx context.Context, usage map[menu.Ingredient]int64) error {
	const funcName = "Reserve"

	for _, ingredient := range sortIngredients(usage) {
		total, ok := s.capacity[ingredient]
		if !ok {
			return &core.ValidationError{Reason: "ingredient has no configured capacity: " + string(ingredient)}
		}
		if err := s.repo.EnsureInitialized(ctx, ingredient, total); err != nil {
			return errors.WithMessage(err, "failed to initialize ledger record")
		}
	}

	shortage, err := s.repo.ReserveIfAvailable(ctx, usage)
	if err != nil {
		return errors.WithMessage(err, "failed to reserve ingredients")
	}
	if shortage != nil {
		log.Info().
			Str("func", funcName).
			Str("ingredient", string(shortage.Ingredient)).
			Int64("available", shortage.Available).
			Int64("required", shortage.Required).
			Msg("rejecting order for insufficient inventory")

		return &core.InsufficientInventoryError{
			Ingredient:  string(shortage.Ingredient),
			DisplayName: shortage.Ingredient.DisplayName(),
			Required:    shortage.Required,
			Available:   shortage.Available,
		}
	}

	log.Info().
		Str("func", funcName).
		Interface("usage", usage).
		Msg("reserved ingredients")

	s.notifySubscribers(ctx, usage)
	return nil
}

// Release returns previously reserved amounts to the ledger. It is a
// compensation: every ingredient is attempted even if one release
// fails, so a partial error cannot strand the rest of the reservation.
func (s *service) Release(ctx context.Context, usage map[menu.Ingredient]int64) error {
	const funcName = "Release"

	var firstErr error
	for _, ingredient := range sortIngredients(usage) {
		if err := s.repo.AdjustReserved(ctx, ingredient, -usage[ingredient]); err != nil {
			log.Error().Err(err).
				Str("func", funcName).
				Str("ingredient", string(ingredient)).
				Int64("amount", usage[ingredient]).
				Msg("failed to release ingredient, continuing with the rest")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		log.Debug().
			Str("func", funcName).
			Str("ingredient", string(ingredient)).
			Int64("amount", usage[ingredient]).
			Msg("released ingredient")
	}

	s.notifySubscribers(ctx, usage)

	if firstErr != nil {
		return errors.WithMessage(firstErr, "failed to release some ingredients")
	}
	return nil
}

func (s *service) Snapshot(ctx context.Context, usage map[menu.Ingredient]int64) ([]StockSnapshot, error) {
	snapshots := make([]StockSnapshot, 0, len(usage))
	for _, ingredient := range sortIngredients(usage) {
		levels, err := s.repo.GetLevels(ctx, ingredient)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		snapshots = append(snapshots, StockSnapshot{
			Name:        ingredient,
			DisplayName: ingredient.DisplayName(),
			Used:        usage[ingredient],
			Reserved:    levels.Reserved,
			Remaining:   levels.Available(),
			Unit:        ingredient.Unit(),
		})
	}
	return snapshots, nil
}

func (s *service) SnapshotAll(ctx context.Context) ([]StockSnapshot, error) {
	usage := make(map[menu.Ingredient]int64, len(s.capacity))
	for ingredient := range s.capacity {
		usage[ingredient] = 0
	}
	return s.Snapshot(ctx, usage)
}

func (s *service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *service) SubscribeInventory(ch chan<- StockLevel) (id InventorySubID) {
	id = InventorySubID(uuid.NewString())
	s.mu.Lock()
	s.subs[id] = ch
	s.mu.Unlock()
	log.Debug().Interface("clientId", id).Msg("subscribing to inventory")
	return id
}

func (s *service) UnsubscribeInventory(id InventorySubID) {
	log.Debug().Interface("clientId", id).Msg("unsubscribing from inventory")
	s.mu.Lock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()
}

func (s *service) notifySubscribers(ctx context.Context, usage map[menu.Ingredient]int64) {
	s.mu.RLock()
	subscribed := len(s.subs) > 0
	s.mu.RUnlock()
	if !subscribed {
		return
	}

	levels := make([]StockLevel, 0, len(usage))
	for ingredient := range usage {
		level, err := s.repo.GetLevels(ctx, ingredient)
		if err != nil {
			log.Warn().Err(err).Str("ingredient", string(ingredient)).Msg("failed to read levels for subscribers")
			continue
		}
		levels = append(levels, level)
	}

	// Sends never block: a subscriber that stopped reading gets updates
	// dropped instead of wedging the reserve path. Holding the read lock
	// across the non-blocking sends keeps them ordered before any close
	// in UnsubscribeInventory, which takes the write lock.
	go func() {
		s.mu.RLock()
		defer s.mu.RUnlock()
		for id, ch := range s.subs {
			for _, level := range levels {
				select {
				case ch <- level:
					log.Debug().Interface("clientId", id).Interface("stockLevel", level).Msg("notifying subscriber of inventory update")
				default:
					log.Warn().Interface("clientId", id).Msg("subscriber not keeping up, dropping inventory update")
				}
			}
		}
	}()
}

func sortIngredients(usage map[menu.Ingredient]int64) []menu.Ingredient {
	ingredients := make([]menu.Ingredient, 0, len(usage))
	for ingredient := range usage {
		ingredients = append(ingredients, ingredient)
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i] < ingredients[j] })
	return ingredients
}
