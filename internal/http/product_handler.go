package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/eworkforce/malabro-cart/internal/catalog"
	"github.com/eworkforce/malabro-cart/internal/domain"
	"github.com/eworkforce/malabro-cart/internal/money"
	"github.com/go-chi/chi/v5"
)

type ProductView struct {
	domain.Product
	PriceFormatted string `json:"price_formatted"`
}

func productView(p *domain.Product) ProductView {
	return ProductView{
		Product:        *p,
		PriceFormatted: money.FormatWithUnit(p.Price, p.UnitOfMeasure),
	}
}

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListProducts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	product, err := s.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, productView(product))
}
