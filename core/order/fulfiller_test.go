package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
	"github.com/BrekotkinaKarina/coffee-track/core/order"
	"github.com/BrekotkinaKarina/coffee-track/db/orderrepo"
)

const testPrepTime = time.Millisecond

func storedOrder(id string) order.Order {
	now := time.Now()
	return order.Order{
		ID:           id,
		CustomerName: "Karina",
		Status:       order.StatusPending,
		Items:        []order.LineItem{{CoffeeType: menu.Latte, Size: menu.Medium, Quantity: 1}},
		IngredientsUsed: map[menu.Ingredient]int64{
			menu.Milk:        200,
			menu.CoffeeBeans: 18,
			menu.Foam:        50,
		},
		Created: now,
		Updated: now,
	}
}

func workItem(o order.Order) order.WorkItem {
	return order.WorkItem{ID: o.ID, Status: o.Status, Ingredients: o.IngredientsUsed}
}

func TestProcessOrder(t *testing.T) {
	o := storedOrder("order1")

	mockRepo := orderrepo.NewMockRepo()
	mockRepo.GetOrderFunc = func(ctx context.Context, id string) (order.Order, error) {
		return o, nil
	}
	mockInv := inventory.NewMockInventoryService()

	f := order.NewFulfiller(mockRepo, mockInv, testPrepTime)

	if err := f.ProcessOrder(context.Background(), workItem(o)); err != nil {
		t.Fatalf("did not want error, got=%v", err)
	}

	mockRepo.VerifyCount("MarkReleased", 1, t)
	mockInv.VerifyCount("Release", 1, t)

	released := mockInv.GetCall("Release")[0][1].(map[menu.Ingredient]int64)
	if released[menu.Milk] != 200 {
		t.Errorf("milk released got=%d want=200", released[menu.Milk])
	}

	statusCalls := mockRepo.GetCall("UpdateStatus")
	if len(statusCalls) != 2 {
		t.Fatalf("update status call count got=%d want=2", len(statusCalls))
	}
	if got := statusCalls[0][2].(order.Status); got != order.StatusInProgress {
		t.Errorf("first status got=%s want=%s", got, order.StatusInProgress)
	}
	if got := statusCalls[1][2].(order.Status); got != order.StatusReady {
		t.Errorf("second status got=%s want=%s", got, order.StatusReady)
	}
}

func TestProcessOrderRedelivery(t *testing.T) {
	o := storedOrder("order2")

	mockRepo := orderrepo.NewMockRepo()
	mockRepo.GetOrderFunc = func(ctx context.Context, id string) (order.Order, error) {
		return o, nil
	}
	mockInv := inventory.NewMockInventoryService()

	f := order.NewFulfiller(mockRepo, mockInv, testPrepTime)

	if err := f.ProcessOrder(context.Background(), workItem(o)); err != nil {
		t.Fatalf("did not want error, got=%v", err)
	}
	if err := f.ProcessOrder(context.Background(), workItem(o)); err != nil {
		t.Fatalf("did not want error on redelivery, got=%v", err)
	}

	// The second delivery is short-circuited by the in-process cache
	// before the durable marker is consulted again.
	mockRepo.VerifyCount("MarkReleased", 1, t)
	mockInv.VerifyCount("Release", 1, t)
}

func TestProcessOrderRedeliveryAcrossRestart(t *testing.T) {
	o := storedOrder("order3")

	mockRepo := orderrepo.NewMockRepo()
	mockRepo.GetOrderFunc = func(ctx context.Context, id string) (order.Order, error) {
		return o, nil
	}
	// A fresh process has an empty cache; the durable marker reports the
	// release already happened.
	mockRepo.MarkReleasedFunc = func(ctx context.Context, id string) (bool, error) {
		return false, nil
	}
	mockInv := inventory.NewMockInventoryService()

	f := order.NewFulfiller(mockRepo, mockInv, testPrepTime)

	if err := f.ProcessOrder(context.Background(), workItem(o)); err != nil {
		t.Fatalf("did not want error, got=%v", err)
	}

	mockRepo.VerifyCount("MarkReleased", 1, t)
	mockInv.VerifyCount("Release", 0, t)
}

func TestProcessOrderFailures(t *testing.T) {
	tests := []struct {
		name string

		updateStatusFunc func(ctx context.Context, id string, status order.Status, at time.Time) error
		getOrderFunc     func(ctx context.Context, id string) (order.Order, error)
		markReleasedFunc func(ctx context.Context, id string) (bool, error)
		releaseFunc      func(ctx context.Context, usage map[menu.Ingredient]int64) error

		wantReleaseCnt int
		wantClearCnt   int
	}{
		{
			name: "order lookup fails",
			getOrderFunc: func(ctx context.Context, id string) (order.Order, error) {
				return order.Order{}, core.ErrNotFound
			},
			wantReleaseCnt: 0,
		},
		{
			name: "released marker write fails",
			markReleasedFunc: func(ctx context.Context, id string) (bool, error) {
				return false, errors.New("some unexpected error")
			},
			wantReleaseCnt: 0,
		},
		{
			name: "ledger release fails",
			releaseFunc: func(ctx context.Context, usage map[menu.Ingredient]int64) error {
				return errors.New("some unexpected error")
			},
			wantReleaseCnt: 1,
			wantClearCnt:   1,
		},
		{
			name: "in progress transition fails",
			updateStatusFunc: func(ctx context.Context, id string, status order.Status, at time.Time) error {
				if status == order.StatusInProgress {
					return errors.New("some unexpected error")
				}
				return nil
			},
			wantReleaseCnt: 0,
		},
	}

	for _, test := range tests {
		o := storedOrder("order4")

		mockRepo := orderrepo.NewMockRepo()
		mockRepo.GetOrderFunc = func(ctx context.Context, id string) (order.Order, error) {
			return o, nil
		}
		if test.updateStatusFunc != nil {
			mockRepo.UpdateStatusFunc = test.updateStatusFunc
		}
		if test.getOrderFunc != nil {
			mockRepo.GetOrderFunc = test.getOrderFunc
		}
		if test.markReleasedFunc != nil {
			mockRepo.MarkReleasedFunc = test.markReleasedFunc
		}

		mockInv := inventory.NewMockInventoryService()
		if test.releaseFunc != nil {
			mockInv.ReleaseFunc = test.releaseFunc
		}

		f := order.NewFulfiller(mockRepo, mockInv, testPrepTime)

		t.Run(test.name, func(t *testing.T) {
			err := f.ProcessOrder(context.Background(), workItem(o))

			var target *core.FulfillmentError
			if !errors.As(err, &target) {
				t.Fatalf("expected FulfillmentError, got=%v", err)
			}
			if target.OrderID != o.ID {
				t.Errorf("order id got=%s want=%s", target.OrderID, o.ID)
			}

			mockInv.VerifyCount("Release", test.wantReleaseCnt, t)
			mockRepo.VerifyCount("ClearReleased", test.wantClearCnt, t)

			statusCalls := mockRepo.GetCall("UpdateStatus")
			if len(statusCalls) == 0 {
				t.Fatal("expected at least one status transition")
			}
			last := statusCalls[len(statusCalls)-1]
			if got := last[2].(order.Status); got != order.StatusCancelled {
				t.Errorf("final status got=%s want=%s", got, order.StatusCancelled)
			}
		})
	}
}

// A transient release failure must not strand the reservation: the
// marker is cleared, so the redelivered work item releases it.
func TestProcessOrderReleaseRetriedOnRedelivery(t *testing.T) {
	o := storedOrder("order6")

	mockRepo := orderrepo.NewMockRepo()
	mockRepo.GetOrderFunc = func(ctx context.Context, id string) (order.Order, error) {
		return o, nil
	}
	mockInv := inventory.NewMockInventoryService()

	releaseAttempts := 0
	mockInv.ReleaseFunc = func(ctx context.Context, usage map[menu.Ingredient]int64) error {
		releaseAttempts++
		if releaseAttempts == 1 {
			return errors.New("some unexpected error")
		}
		return nil
	}

	f := order.NewFulfiller(mockRepo, mockInv, testPrepTime)

	var target *core.FulfillmentError
	if err := f.ProcessOrder(context.Background(), workItem(o)); !errors.As(err, &target) {
		t.Fatalf("expected FulfillmentError, got=%v", err)
	}
	mockRepo.VerifyCount("ClearReleased", 1, t)

	if err := f.ProcessOrder(context.Background(), workItem(o)); err != nil {
		t.Fatalf("did not want error on redelivery, got=%v", err)
	}

	mockInv.VerifyCount("Release", 2, t)
	mockRepo.VerifyCount("MarkReleased", 2, t)
}

func TestProcessOrderCancelledContext(t *testing.T) {
	o := storedOrder("order5")

	mockRepo := orderrepo.NewMockRepo()
	mockInv := inventory.NewMockInventoryService()

	f := order.NewFulfiller(mockRepo, mockInv, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.ProcessOrder(ctx, workItem(o))

	var target *core.FulfillmentError
	if !errors.As(err, &target) {
		t.Fatalf("expected FulfillmentError, got=%v", err)
	}
	mockInv.VerifyCount("Release", 0, t)
}
