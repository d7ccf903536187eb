package orderrepo

import (
	"context"
	"time"

	"github.com/BrekotkinaKarina/coffee-track/core/order"
	"github.com/BrekotkinaKarina/coffee-track/testutil"
)

type MockRepo struct {
	SaveOrderFunc     func(ctx context.Context, o order.Order) error
	GetOrderFunc      func(ctx context.Context, id string) (order.Order, error)
	UpdateStatusFunc  func(ctx context.Context, id string, status order.Status, at time.Time) error
	MarkReleasedFunc  func(ctx context.Context, id string) (bool, error)
	ClearReleasedFunc func(ctx context.Context, id string) error
	testutil.CallWatcher
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		SaveOrderFunc: func(ctx context.Context, o order.Order) error { return nil },
		GetOrderFunc:  func(ctx context.Context, id string) (order.Order, error) { return order.Order{}, nil },
		UpdateStatusFunc: func(ctx context.Context, id string, status order.Status, at time.Time) error {
			return nil
		},
		MarkReleasedFunc:  func(ctx context.Context, id string) (bool, error) { return true, nil },
		ClearReleasedFunc: func(ctx context.Context, id string) error { return nil },
		CallWatcher:       *testutil.NewCallWatcher(),
	}
}

func (m *MockRepo) SaveOrder(ctx context.Context, o order.Order) error {
	m.AddCall(ctx, o)
	return m.SaveOrderFunc(ctx, o)
}

func (m *MockRepo) GetOrder(ctx context.Context, id string) (order.Order, error) {
	m.AddCall(ctx, id)
	return m.GetOrderFunc(ctx, id)
}

func (m *MockRepo) UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error {
	m.AddCall(ctx, id, status, at)
	return m.UpdateStatusFunc(ctx, id, status, at)
}

func (m *MockRepo) MarkReleased(ctx context.Context, id string) (bool, error) {
	m.AddCall(ctx, id)
	return m.MarkReleasedFunc(ctx, id)
}

func (m *MockRepo) ClearReleased(ctx context.Context, id string) error {
	m.AddCall(ctx, id)
	return m.ClearReleasedFunc(ctx, id)
}
