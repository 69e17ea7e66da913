package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/eworkforce/malabro-cart/internal/domain"
	"github.com/eworkforce/malabro-cart/internal/identity"
	"github.com/eworkforce/malabro-cart/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_MergesGuestCartIntoUserCart(t *testing.T) {
	_, kv, client := newTestEnv(t)
	ctx := context.Background()

	// A previous authenticated visit left a cart behind
	userItems := []domain.CartItem{
		{ID: 1, Name: "Riz local", Price: 1000, Quantity: 3, StockQuantity: 50},
	}
	userJSON, _ := json.Marshal(userItems)
	require.NoError(t, kv.Set(ctx, identity.UserKey(7), userJSON))

	// Browse as guest
	rec := client.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Login merges the guest lines into the user cart
	rec = client.do(http.MethodPost, "/api/v1/auth/login", LoginRequestDTO{UserID: 7})
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCart(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	// Guest namespace is gone, merged cart is under the user key
	_, err := kv.Get(ctx, identity.GuestKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	data, err := kv.Get(ctx, identity.UserKey(7))
	require.NoError(t, err)
	var persisted []domain.CartItem
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, 5, persisted[0].Quantity)
}

func TestLogin_InvalidUserID(t *testing.T) {
	_, _, client := newTestEnv(t)

	rec := client.do(http.MethodPost, "/api/v1/auth/login", LoginRequestDTO{UserID: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_ReturnsToGuestCart(t *testing.T) {
	_, _, client := newTestEnv(t)

	client.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 5, Quantity: 2})
	client.do(http.MethodPost, "/api/v1/auth/login", LoginRequestDTO{UserID: 3})

	rec := client.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The guest key was consumed by the migration, so the guest cart is empty
	view := decodeCart(t, rec)
	assert.True(t, view.IsEmpty)
}

func TestDropCart_EmptiesLiveSessionCart(t *testing.T) {
	srv, kv, client := newTestEnv(t)
	ctx := context.Background()

	client.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 5, Quantity: 2})
	client.do(http.MethodPost, "/api/v1/auth/login", LoginRequestDTO{UserID: 9})

	// Checkout completed elsewhere: persisted cart deleted, live cart dropped
	require.NoError(t, kv.Delete(ctx, identity.UserKey(9)))
	srv.DropCart(ctx, 9)

	rec := client.do(http.MethodGet, "/api/v1/cart", nil)
	view := decodeCart(t, rec)
	assert.True(t, view.IsEmpty)
}
