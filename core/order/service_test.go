package order_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
	"github.com/BrekotkinaKarina/coffee-track/core/order"
	"github.com/BrekotkinaKarina/coffee-track/db/orderrepo"
	"github.com/BrekotkinaKarina/coffee-track/queue"
	"github.com/BrekotkinaKarina/coffee-track/test"
)

func TestMain(m *testing.M) {
	test.ConfigLogging()
	os.Exit(m.Run())
}

const maxLineQuantity = 10

func TestPlaceOrder(t *testing.T) {
	tests := []struct {
		name string

		newOrder order.NewOrder

		reserveFunc      func(ctx context.Context, usage map[menu.Ingredient]int64) error
		saveOrderFunc    func(ctx context.Context, o order.Order) error
		publishOrderFunc func(ctx context.Context, wi order.WorkItem) error

		wantInvCallCnt   map[string]int
		wantRepoCallCnt  map[string]int
		wantQueueCallCnt map[string]int
		wantUsage        map[menu.Ingredient]int64
		wantErrKind      string
	}{
		{
			name: "order is reserved, persisted and queued",
			newOrder: order.NewOrder{
				CustomerName: "Karina",
				Items:        []order.LineItem{{CoffeeType: menu.Latte, Size: menu.Medium, Quantity: 1}},
			},

			wantInvCallCnt:   map[string]int{"Reserve": 1, "Release": 0},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 1},
			wantQueueCallCnt: map[string]int{"PublishOrder": 1},
			wantUsage:        map[menu.Ingredient]int64{menu.Milk: 200, menu.CoffeeBeans: 18, menu.Foam: 50},
		},
		{
			name: "usage sums across line items",
			newOrder: order.NewOrder{
				CustomerName: "Karina",
				Items: []order.LineItem{
					{CoffeeType: menu.Americano, Size: menu.Small, Quantity: 2},
					{CoffeeType: menu.Espresso, Size: menu.Medium, Quantity: 1},
				},
			},

			wantInvCallCnt:   map[string]int{"Reserve": 1, "Release": 0},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 1},
			wantQueueCallCnt: map[string]int{"PublishOrder": 1},
			wantUsage:        map[menu.Ingredient]int64{menu.Water: 270, menu.CoffeeBeans: 31},
		},
		{
			name: "customer name too short",
			newOrder: order.NewOrder{
				CustomerName: "K",
				Items:        []order.LineItem{{CoffeeType: menu.Latte, Size: menu.Medium, Quantity: 1}},
			},

			wantInvCallCnt:   map[string]int{"Reserve": 0, "Release": 0},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 0},
			wantQueueCallCnt: map[string]int{"PublishOrder": 0},
			wantErrKind:      "validation",
		},
		{
			name: "unknown coffee type",
			newOrder: order.NewOrder{
				CustomerName: "Karina",
				Items:        []order.LineItem{{CoffeeType: "mocha", Size: menu.Medium, Quantity: 1}},
			},

			wantInvCallCnt:   map[string]int{"Reserve": 0, "Release": 0},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 0},
			wantQueueCallCnt: map[string]int{"PublishOrder": 0},
			wantErrKind:      "validation",
		},
		{
			name: "quantity above the per-line cap",
			newOrder: order.NewOrder{
				CustomerName: "Karina",
				Items:        []order.LineItem{{CoffeeType: menu.Latte, Size: menu.Medium, Quantity: 11}},
			},

			wantInvCallCnt:   map[string]int{"Reserve": 0, "Release": 0},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 0},
			wantQueueCallCnt: map[string]int{"PublishOrder": 0},
			wantErrKind:      "validation",
		},
		{
			name: "insufficient inventory stops before persistence",
			newOrder: order.NewOrder{
				CustomerName: "Karina",
				Items:        []order.LineItem{{CoffeeType: menu.Espresso, Size: menu.Medium, Quantity: 1}},
			},

			reserveFunc: func(ctx context.Context, usage map[menu.Ingredient]int64) error {
				return &core.InsufficientInventoryError{Ingredient: "coffee-beans", Required: 7, Available: 5}
			},

			wantInvCallCnt:   map[string]int{"Reserve": 1, "Release": 0},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 0},
			wantQueueCallCnt: map[string]int{"PublishOrder": 0},
			wantErrKind:      "insufficient",
		},
		{
			name: "failed persistence compensates the reservation",
			newOrder: order.NewOrder{
				CustomerName: "Karina",
				Items:        []order.LineItem{{CoffeeType: menu.Latte, Size: menu.Medium, Quantity: 1}},
			},

			saveOrderFunc: func(ctx context.Context, o order.Order) error {
				return errors.New("some unexpected error")
			},

			wantInvCallCnt:   map[string]int{"Reserve": 1, "Release": 1},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 1},
			wantQueueCallCnt: map[string]int{"PublishOrder": 0},
			wantErrKind:      "persistence",
		},
		{
			name: "failed publish compensates the reservation",
			newOrder: order.NewOrder{
				CustomerName: "Karina",
				Items:        []order.LineItem{{CoffeeType: menu.Latte, Size: menu.Medium, Quantity: 1}},
			},

			publishOrderFunc: func(ctx context.Context, wi order.WorkItem) error {
				return errors.New("broker unavailable")
			},

			wantInvCallCnt:   map[string]int{"Reserve": 1, "Release": 1},
			wantRepoCallCnt:  map[string]int{"SaveOrder": 1},
			wantQueueCallCnt: map[string]int{"PublishOrder": 1},
			wantErrKind:      "queueing",
		},
	}

	for _, test := range tests {
		mockRepo := orderrepo.NewMockRepo()
		if test.saveOrderFunc != nil {
			mockRepo.SaveOrderFunc = test.saveOrderFunc
		}

		mockInv := inventory.NewMockInventoryService()
		if test.reserveFunc != nil {
			mockInv.ReserveFunc = test.reserveFunc
		}

		mockQueue := queue.NewMockQueue()
		if test.publishOrderFunc != nil {
			mockQueue.PublishOrderFunc = test.publishOrderFunc
		}

		service := order.NewService(mockRepo, mockInv, mockQueue, maxLineQuantity)

		t.Run(test.name, func(t *testing.T) {
			o, _, err := service.PlaceOrder(context.Background(), test.newOrder)

			assertErrKind(t, err, test.wantErrKind)

			if test.wantErrKind == "" {
				if o.ID == "" {
					t.Error("expected an order id")
				}
				if o.Status != order.StatusPending {
					t.Errorf("status got=%s want=%s", o.Status, order.StatusPending)
				}
			}

			if test.wantUsage != nil {
				reserveCalls := mockInv.GetCall("Reserve")
				if len(reserveCalls) != 1 {
					t.Fatalf("reserve call count got=%d want=1", len(reserveCalls))
				}
				usage := reserveCalls[0][1].(map[menu.Ingredient]int64)
				for ingredient, amount := range test.wantUsage {
					if usage[ingredient] != amount {
						t.Errorf("%s usage got=%d want=%d", ingredient, usage[ingredient], amount)
					}
				}
				if len(usage) != len(test.wantUsage) {
					t.Errorf("usage ingredient count got=%d want=%d", len(usage), len(test.wantUsage))
				}
			}

			// A compensating release must return exactly what was
			// reserved.
			if test.wantInvCallCnt["Release"] > 0 {
				reserved := mockInv.GetCall("Reserve")[0][1].(map[menu.Ingredient]int64)
				released := mockInv.GetCall("Release")[0][1].(map[menu.Ingredient]int64)
				for ingredient, amount := range reserved {
					if released[ingredient] != amount {
						t.Errorf("%s released got=%d want=%d", ingredient, released[ingredient], amount)
					}
				}
			}

			for f, c := range test.wantInvCallCnt {
				mockInv.VerifyCount(f, c, t)
			}
			for f, c := range test.wantRepoCallCnt {
				mockRepo.VerifyCount(f, c, t)
			}
			for f, c := range test.wantQueueCallCnt {
				mockQueue.VerifyCount(f, c, t)
			}
		})
	}
}

func TestGetOrder(t *testing.T) {
	mockRepo := orderrepo.NewMockRepo()
	mockRepo.GetOrderFunc = func(ctx context.Context, id string) (order.Order, error) {
		return order.Order{}, core.ErrNotFound
	}

	service := order.NewService(mockRepo, inventory.NewMockInventoryService(), queue.NewMockQueue(), maxLineQuantity)

	_, err := service.GetOrder(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got=%v", err)
	}
}

func assertErrKind(t *testing.T, err error, kind string) {
	t.Helper()

	if kind == "" {
		if err != nil {
			t.Errorf("did not want error, got=%v", err)
		}
		return
	}
	if err == nil {
		t.Error("expected error, got none")
		return
	}

	switch kind {
	case "validation":
		var target *core.ValidationError
		if !errors.As(err, &target) {
			t.Errorf("expected ValidationError, got=%v", err)
		}
	case "insufficient":
		var target *core.InsufficientInventoryError
		if !errors.As(err, &target) {
			t.Errorf("expected InsufficientInventoryError, got=%v", err)
		}
	case "queueing":
		var target *core.QueueingError
		if !errors.As(err, &target) {
			t.Errorf("expected QueueingError, got=%v", err)
		}
	case "persistence":
		var target *core.PersistenceError
		if !errors.As(err, &target) {
			t.Errorf("expected PersistenceError, got=%v", err)
		}
	case "fulfillment":
		var target *core.FulfillmentError
		if !errors.As(err, &target) {
			t.Errorf("expected FulfillmentError, got=%v", err)
		}
	default:
		t.Fatalf("unknown error kind %q", kind)
	}
}
