package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/eworkforce/malabro-cart/internal/cart"
	"github.com/eworkforce/malabro-cart/internal/catalog"
	"github.com/eworkforce/malabro-cart/internal/domain"
	"github.com/go-chi/chi/v5"
)

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CartView is the full cart state the UI renders from: lines, derived totals,
// validity diagnostics, and the store's last failure message.
type CartView struct {
	Items                []domain.CartItem        `json:"items"`
	ItemCount            int                      `json:"item_count"`
	Subtotal             float64                  `json:"subtotal"`
	DeliveryFee          float64                  `json:"delivery_fee"`
	Total                float64                  `json:"total"`
	SubtotalFormatted    string                   `json:"subtotal_formatted"`
	DeliveryFeeFormatted string                   `json:"delivery_fee_formatted"`
	TotalFormatted       string                   `json:"total_formatted"`
	IsEmpty              bool                     `json:"is_empty"`
	IsValid              bool                     `json:"is_valid"`
	ValidationErrors     []domain.ValidationError `json:"validation_errors,omitempty"`
	Error                string                   `json:"error,omitempty"`
}

func cartView(st *cart.Store) CartView {
	return CartView{
		Items:                st.Items(),
		ItemCount:            st.ItemCount(),
		Subtotal:             st.SubtotalPrice(),
		DeliveryFee:          st.DeliveryFee(),
		Total:                st.TotalPrice(),
		SubtotalFormatted:    st.SubtotalPriceFormatted(),
		DeliveryFeeFormatted: st.DeliveryFeeFormatted(),
		TotalFormatted:       st.TotalPriceFormatted(),
		IsEmpty:              st.IsEmpty(),
		IsValid:              st.IsCartValid(),
		ValidationErrors:     st.ValidationErrors(),
		Error:                st.Err(),
	}
}

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	respondJSON(w, http.StatusOK, cartView(sess.cart))
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := s.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	sess.cart.AddItem(r.Context(), product, req.Quantity)
	respondJSON(w, http.StatusCreated, cartView(sess.cart))
}

func (s *Server) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	// Quantity 0 removes the line, same as the delete endpoint.
	sess.cart.UpdateQuantity(r.Context(), productID, req.Quantity)
	respondJSON(w, http.StatusOK, cartView(sess.cart))
}

func (s *Server) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	sess.cart.IncrementQuantity(r.Context(), productID)
	respondJSON(w, http.StatusOK, cartView(sess.cart))
}

func (s *Server) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	sess.cart.DecrementQuantity(r.Context(), productID)
	respondJSON(w, http.StatusOK, cartView(sess.cart))
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	sess.cart.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, cartView(sess.cart))
}

func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.cart.ClearCart(r.Context())
	respondJSON(w, http.StatusOK, cartView(sess.cart))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
