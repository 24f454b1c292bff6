package inventory

import (
	"errors"
	"time"
)

// Product is a sellable item with tracked stock.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockOperation enumerates supported stock adjustments.
type StockOperation string

const (
	// StockIncrease adds to the available stock.
	StockIncrease StockOperation = "increase"
	// StockDecrease removes from the available stock.
	StockDecrease StockOperation = "decrease"
)

// Valid reports whether the operation belongs to the closed set.
func (op StockOperation) Valid() bool {
	return op == StockIncrease || op == StockDecrease
}

// Stats summarises the current state of the inventory.
type Stats struct {
	TotalProducts int `json:"total_products"`
	TotalStock    int `json:"total_stock"`
	LowStockCount int `json:"low_stock_count"`
	OutOfStock    int `json:"out_of_stock"`
}

// ListFilters narrows the product listing.
type ListFilters struct {
	Search   string
	MaxStock *int
	Limit    int
	Offset   int
}

// ErrDuplicateName indicates a product with the same name already exists.
var ErrDuplicateName = errors.New("inventory: product name already exists")

// LowStockThreshold is the default cutoff for low-stock reporting.
const LowStockThreshold = 10
