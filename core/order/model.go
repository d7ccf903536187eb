// Package order holds the order lifecycle: the coordinator that
// reserves ingredients and queues fulfillment work, and the fulfiller
// that drains the queue and releases reservations.
package order

import (
	"time"

	"github.com/pkg/errors"

	"github.com/BrekotkinaKarina/coffee-track/core/menu"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusCancelled  Status = "cancelled"
)

func ParseStatus(v string) (Status, error) {
	switch v {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusInProgress):
		return StatusInProgress, nil
	case string(StatusReady):
		return StatusReady, nil
	case string(StatusCancelled):
		return StatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// LineItem is a value object. One ordered position.
type LineItem struct {
	CoffeeType menu.CoffeeType `json:"coffee_type"`
	Size       menu.Size       `json:"size"`
	Quantity   int             `json:"quantity"`
}

// NewOrder is a value object. A request to place an order.
type NewOrder struct {
	CustomerName string
	Items        []LineItem
}

// Order is an entity. The durable record of one placed order; the
// amounts in IngredientsUsed are exactly what was reserved and what the
// fulfiller later releases.
type Order struct {
	ID              string                     `json:"id"`
	CustomerName    string                     `json:"customerName"`
	Status          Status                     `json:"status"`
	Items           []LineItem                 `json:"items"`
	IngredientsUsed map[menu.Ingredient]int64  `json:"ingredientsUsed"`
	Created         time.Time                  `json:"created"`
	Updated         time.Time                  `json:"updated"`
}

// WorkItem is the fulfillment queue message for one order.
type WorkItem struct {
	ID          string                    `json:"id"`
	Status      Status                    `json:"status"`
	Ingredients map[menu.Ingredient]int64 `json:"ingredients"`
}
