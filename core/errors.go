package core

import "fmt"

// The error types below form the taxonomy every infrastructure or
// business failure is converted into before it leaves a service. The
// api package maps them onto HTTP status codes.

// ValidationError is a caller error. Rejected before any side effect.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InsufficientInventoryError is a business rejection naming the
// constraining ingredient. No reservation has been made.
type InsufficientInventoryError struct {
	Ingredient  string
	DisplayName string
	Required    int64
	Available   int64
}

func (e *InsufficientInventoryError) Shortfall() int64 {
	return e.Required - e.Available
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory of %s (%s): available %d, required %d",
		e.Ingredient, e.DisplayName, e.Available, e.Required)
}

// QueueingError is an infrastructure failure publishing the fulfillment
// work item. The reservation has already been compensated.
type QueueingError struct {
	Cause error
}

func (e *QueueingError) Error() string {
	return fmt.Sprintf("failed to queue order for fulfillment: %v", e.Cause)
}

func (e *QueueingError) Unwrap() error {
	return e.Cause
}

// PersistenceError is an infrastructure failure writing the order
// record. The reservation has already been compensated.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist order: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// FulfillmentError is any failure between receiving a work item and
// acknowledging it. The order has been marked cancelled.
type FulfillmentError struct {
	OrderID string
	Cause   error
}

func (e *FulfillmentError) Error() string {
	return fmt.Sprintf("failed to fulfill order %s: %v", e.OrderID, e.Cause)
}

func (e *FulfillmentError) Unwrap() error {
	return e.Cause
}
