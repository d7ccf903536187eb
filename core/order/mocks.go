package order

import (
	"context"

	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
)

type MockOrderService struct {
	PlaceOrderFunc func(ctx context.Context, no NewOrder) (Order, []inventory.StockSnapshot, error)
	GetOrderFunc   func(ctx context.Context, id string) (Order, error)
}

func NewMockOrderService() *MockOrderService {
	return &MockOrderService{
		PlaceOrderFunc: func(ctx context.Context, no NewOrder) (Order, []inventory.StockSnapshot, error) {
			return Order{}, []inventory.StockSnapshot{}, nil
		},
		GetOrderFunc: func(ctx context.Context, id string) (Order, error) { return Order{}, nil },
	}
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, no NewOrder) (Order, []inventory.StockSnapshot, error) {
	return m.PlaceOrderFunc(ctx, no)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (Order, error) {
	return m.GetOrderFunc(ctx, id)
}
