package inventory

import (
	"context"

	"github.com/BrekotkinaKarina/coffee-track/core/menu"
	"github.com/BrekotkinaKarina/coffee-track/testutil"
)

type MockInventoryService struct {
	EnsureInitializedFunc    func(ctx context.Context) error
	AvailableFunc            func(ctx context.Context, ingredient menu.Ingredient) (int64, error)
	ReserveFunc              func(ctx context.Context, usage map[menu.Ingredient]int64) error
	ReleaseFunc              func(ctx context.Context, usage map[menu.Ingredient]int64) error
	SnapshotFunc             func(ctx context.Context, usage map[menu.Ingredient]int64) ([]StockSnapshot, error)
	SnapshotAllFunc          func(ctx context.Context) ([]StockSnapshot, error)
	PingFunc                 func(ctx context.Context) error
	SubscribeInventoryFunc   func(ch chan<- StockLevel) (id InventorySubID)
	UnsubscribeInventoryFunc func(id InventorySubID)
	testutil.CallWatcher
}

func NewMockInventoryService() *MockInventoryService {
	return &MockInventoryService{
		EnsureInitializedFunc: func(ctx context.Context) error { return nil },
		AvailableFunc:         func(ctx context.Context, ingredient menu.Ingredient) (int64, error) { return 0, nil },
		ReserveFunc:           func(ctx context.Context, usage map[menu.Ingredient]int64) error { return nil },
		ReleaseFunc:           func(ctx context.Context, usage map[menu.Ingredient]int64) error { return nil },
		SnapshotFunc: func(ctx context.Context, usage map[menu.Ingredient]int64) ([]StockSnapshot, error) {
			return []StockSnapshot{}, nil
		},
		SnapshotAllFunc:          func(ctx context.Context) ([]StockSnapshot, error) { return []StockSnapshot{}, nil },
		PingFunc:                 func(ctx context.Context) error { return nil },
		SubscribeInventoryFunc:   func(ch chan<- StockLevel) (id InventorySubID) { return "" },
		UnsubscribeInventoryFunc: func(id InventorySubID) {},
		CallWatcher:              *testutil.NewCallWatcher(),
	}
}

func (m *MockInventoryService) EnsureInitialized(ctx context.Context) error {
	m.AddCall(ctx)
	return m.EnsureInitializedFunc(ctx)
}

func (m *MockInventoryService) Available(ctx context.Context, ingredient menu.Ingredient) (int64, error) {
	m.AddCall(ctx, ingredient)
	return m.AvailableFunc(ctx, ingredient)
}

func (m *MockInventoryService) Reserve(ctx context.Context, usage map[menu.Ingredient]int64) error {
	m.AddCall(ctx, usage)
	return m.ReserveFunc(ctx, usage)
}

func (m *MockInventoryService) Release(ctx context.Context, usage map[menu.Ingredient]int64) error {
	m.AddCall(ctx, usage)
	return m.ReleaseFunc(ctx, usage)
}

func (m *MockInventoryService) Snapshot(ctx context.Context, usage map[menu.Ingredient]int64) ([]StockSnapshot, error) {
	m.AddCall(ctx, usage)
	return m.SnapshotFunc(ctx, usage)
}

func (m *MockInventoryService) SnapshotAll(ctx context.Context) ([]StockSnapshot, error) {
	m.AddCall(ctx)
	return m.SnapshotAllFunc(ctx)
}

func (m *MockInventoryService) Ping(ctx context.Context) error {
	m.AddCall(ctx)
	return m.PingFunc(ctx)
}

func (m *MockInventoryService) SubscribeInventory(ch chan<- StockLevel) (id InventorySubID) {
	m.AddCall(ch)
	return m.SubscribeInventoryFunc(ch)
}

func (m *MockInventoryService) UnsubscribeInventory(id InventorySubID) {
	m.AddCall(id)
	m.UnsubscribeInventoryFunc(id)
}
