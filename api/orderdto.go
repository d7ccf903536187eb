package api

import (
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/order"
)

type LineItemRequest struct {
	CoffeeType string `json:"coffeeType"`
	Size       string `json:"size"`
	Quantity   int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName string            `json:"customerName"`
	Items        []LineItemRequest `json:"items"`
}

// Bind performs shape-level validation; the order service re-validates
// against the catalog and its configured limits.
func (r *CreateOrderRequest) Bind(_ *http.Request) error {
	if r.CustomerName == "" {
		return errors.New("customer name is required")
	}
	if utf8.RuneCountInString(r.CustomerName) < 2 {
		return errors.New("customer name must be at least 2 characters")
	}
	if len(r.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, item := range r.Items {
		if item.CoffeeType == "" {
			return errors.New("coffee type is required")
		}
		if item.Quantity < 1 {
			return errors.New("item quantity must be greater than zero")
		}
	}
	return nil
}

type OrderResponse struct {
	ID           string                    `json:"id"`
	CustomerName string                    `json:"customerName"`
	Status       string                    `json:"status"`
	Items        []order.LineItem          `json:"items"`
	Ingredients  []inventory.StockSnapshot `json:"ingredients,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

func NewOrderResponse(o order.Order, snapshot []inventory.StockSnapshot) *OrderResponse {
	return &OrderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		Items:        o.Items,
		Ingredients:  snapshot,
		CreatedAt:    o.Created,
		UpdatedAt:    o.Updated,
	}
}

func (r *OrderResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}
