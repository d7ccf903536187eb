package queue

import (
	"context"

	"github.com/BrekotkinaKarina/coffee-track/core/order"
	"github.com/BrekotkinaKarina/coffee-track/testutil"
)

type MockQueue struct {
	PublishOrderFunc func(ctx context.Context, wi order.WorkItem) error
	testutil.CallWatcher
}

func NewMockQueue() *MockQueue {
	return &MockQueue{
		PublishOrderFunc: func(ctx context.Context, wi order.WorkItem) error { return nil },
		CallWatcher:      *testutil.NewCallWatcher(),
	}
}

func (m *MockQueue) PublishOrder(ctx context.Context, wi order.WorkItem) error {
	m.AddCall(ctx, wi)
	return m.PublishOrderFunc(ctx, wi)
}
