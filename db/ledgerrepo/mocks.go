package ledgerrepo

import (
	"context"

	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
	"github.com/BrekotkinaKarina/coffee-track/testutil"
)

type MockRepo struct {
	EnsureInitializedFunc  func(ctx context.Context, ingredient menu.Ingredient, total int64) error
	GetLevelsFunc          func(ctx context.Context, ingredient menu.Ingredient) (inventory.StockLevel, error)
	AdjustReservedFunc     func(ctx context.Context, ingredient menu.Ingredient, delta int64) error
	ReserveIfAvailableFunc func(ctx context.Context, usage map[menu.Ingredient]int64) (*inventory.Shortage, error)
	PingFunc               func(ctx context.Context) error
	testutil.CallWatcher
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		EnsureInitializedFunc: func(ctx context.Context, ingredient menu.Ingredient, total int64) error { return nil },
		GetLevelsFunc: func(ctx context.Context, ingredient menu.Ingredient) (inventory.StockLevel, error) {
			return inventory.StockLevel{Ingredient: ingredient}, nil
		},
		AdjustReservedFunc: func(ctx context.Context, ingredient menu.Ingredient, delta int64) error { return nil },
		ReserveIfAvailableFunc: func(ctx context.Context, usage map[menu.Ingredient]int64) (*inventory.Shortage, error) {
			return nil, nil
		},
		PingFunc:    func(ctx context.Context) error { return nil },
		CallWatcher: *testutil.NewCallWatcher(),
	}
}

func (m *MockRepo) EnsureInitialized(ctx context.Context, ingredient menu.Ingredient, total int64) error {
	m.AddCall(ctx, ingredient, total)
	return m.EnsureInitializedFunc(ctx, ingredient, total)
}

func (m *MockRepo) GetLevels(ctx context.Context, ingredient menu.Ingredient) (inventory.StockLevel, error) {
	m.AddCall(ctx, ingredient)
	return m.GetLevelsFunc(ctx, ingredient)
}

func (m *MockRepo) AdjustReserved(ctx context.Context, ingredient menu.Ingredient, delta int64) error {
	m.AddCall(ctx, ingredient, delta)
	return m.AdjustReservedFunc(ctx, ingredient, delta)
}

func (m *MockRepo) ReserveIfAvailable(ctx context.Context, usage map[menu.Ingredient]int64) (*inventory.Shortage, error) {
	m.AddCall(ctx, usage)
	return m.ReserveIfAvailableFunc(ctx, usage)
}

func (m *MockRepo) Ping(ctx context.Context) error {
	m.AddCall(ctx)
	return m.PingFunc(ctx)
}
