package model

import (
	"time"
)

// LowStockThreshold is the stock level at or below which a product is
// considered low on stock.
const LowStockThreshold = 5

type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLowStock reports whether the product is at or below the given threshold.
func (p Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}
