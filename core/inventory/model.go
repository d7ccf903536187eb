// Package inventory is the shared ingredient ledger. Every ingredient
// carries a total capacity and the amount currently reserved by
// in-flight orders; 0 <= reserved <= total holds at all times.
package inventory

import "github.com/BrekotkinaKarina/coffee-track/core/menu"

// StockLevel is an entity. The ledger record for a single ingredient.
type StockLevel struct {
	Ingredient menu.Ingredient `json:"ingredient"`
	Total      int64           `json:"total"`
	Reserved   int64           `json:"reserved"`
}

func (s StockLevel) Available() int64 {
	return s.Total - s.Reserved
}

// StockSnapshot is a value object. A point-in-time view of one
// ingredient derived for display after an order touched it.
type StockSnapshot struct {
	Name        menu.Ingredient `json:"name"`
	DisplayName string          `json:"displayName"`
	Used        int64           `json:"used"`
	Reserved    int64           `json:"reserved"`
	Remaining   int64           `json:"remaining"`
	Unit        string          `json:"unit"`
}

// Shortage reports the first ingredient that blocked a reservation.
type Shortage struct {
	Ingredient menu.Ingredient
	Required   int64
	Available  int64
}
