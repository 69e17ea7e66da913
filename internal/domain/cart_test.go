package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemCount_SumsQuantities(t *testing.T) {
	items := []CartItem{
		{ID: 1, Quantity: 2},
		{ID: 2, Quantity: 3},
	}

	assert.Equal(t, 5, ItemCount(items))
	assert.Equal(t, 0, ItemCount(nil))
}

func TestSubtotal_SumsPriceTimesQuantity(t *testing.T) {
	items := []CartItem{
		{ID: 1, Price: 1000, Quantity: 4},
		{ID: 2, Price: 750, Quantity: 2},
	}

	assert.Equal(t, 5500.0, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestDeliveryFeeFor_FlatFeeOnlyWhenNonEmpty(t *testing.T) {
	assert.Equal(t, 0.0, DeliveryFeeFor(nil))
	assert.Equal(t, 2000.0, DeliveryFeeFor([]CartItem{{ID: 1, Quantity: 1}}))
}

func TestTotal_IsSubtotalPlusFee(t *testing.T) {
	items := []CartItem{{ID: 5, Price: 1000, Quantity: 4}}

	assert.Equal(t, 6000.0, Total(items))
	assert.Equal(t, 0.0, Total(nil))
}

func TestValidate_ReportsOverstockedLines(t *testing.T) {
	items := []CartItem{
		{ID: 1, Name: "Riz local", Quantity: 12, StockQuantity: 10},
		{ID: 2, Name: "Tomates", Quantity: 3, StockQuantity: 30},
	}

	errs := Validate(items)
	assert.Len(t, errs, 1)
	assert.Equal(t, int64(1), errs[0].ProductID)
	assert.Equal(t, "Stock insuffisant. Disponible: 10", errs[0].Message)
}

func TestValidate_CleanCart(t *testing.T) {
	items := []CartItem{{ID: 1, Quantity: 2, StockQuantity: 2}}

	assert.Empty(t, Validate(items))
}
