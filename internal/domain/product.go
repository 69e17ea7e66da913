package domain

import "time"

// Product is a catalog record. The cart copies its fields into a CartItem
// snapshot at add-time; later catalog changes do not reach existing lines.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Price         float64        `json:"price"`
	ImageURL      string         `json:"image_url"`
	StockQuantity int            `json:"stock_quantity"`
	UnitOfMeasure *UnitOfMeasure `json:"unit_of_measure,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
