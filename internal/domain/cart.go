package domain

import "fmt"

// DeliveryFee is the flat delivery charge in FCFA applied to any non-empty cart.
const DeliveryFee = 2000

// UnitOfMeasure describes how a product is sold (Kilogramme/Kg, Litre/L, ...).
// It is display metadata only.
type UnitOfMeasure struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// CartItem is one line of a cart. Everything except Quantity is a snapshot of
// the product taken at add-time and never refreshed against the catalog.
type CartItem struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	ImageURL      string         `json:"image_url"`
	Price         float64        `json:"price"`
	UnitOfMeasure *UnitOfMeasure `json:"unit_of_measure,omitempty"`
	Quantity      int            `json:"quantity"`
	StockQuantity int            `json:"stock_quantity"`
}

// ValidationError reports a line whose quantity exceeds its stock snapshot.
type ValidationError struct {
	ProductID int64  `json:"product_id"`
	Message   string `json:"message"`
}

// ItemCount sums quantities over all lines.
func ItemCount(items []CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// Subtotal sums price*quantity over all lines.
func Subtotal(items []CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// DeliveryFeeFor returns the flat fee for a non-empty cart, 0 otherwise.
func DeliveryFeeFor(items []CartItem) float64 {
	if len(items) > 0 {
		return DeliveryFee
	}
	return 0
}

// Total is subtotal plus delivery fee.
func Total(items []CartItem) float64 {
	return Subtotal(items) + DeliveryFeeFor(items)
}

// Validate reports every line whose quantity exceeds the stock snapshot.
// It is a read-only diagnostic; quantities are not corrected here.
func Validate(items []CartItem) []ValidationError {
	var errs []ValidationError
	for _, it := range items {
		if it.Quantity > it.StockQuantity {
			errs = append(errs, ValidationError{
				ProductID: it.ID,
				Message:   fmt.Sprintf("Stock insuffisant. Disponible: %d", it.StockQuantity),
			})
		}
	}
	return errs
}
