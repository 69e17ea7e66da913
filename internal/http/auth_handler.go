package http

import (
	"encoding/json"
	"net/http"
)

type LoginRequestDTO struct {
	UserID int64 `json:"user_id"`
}

// Login marks the session authenticated, loads the user's persisted cart, and
// folds the guest cart into it. The migration must run before any further cart
// mutation from this session, which the cart store's own lock guarantees once
// the calls below are issued in this order.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be positive")
		return
	}

	sess.identity.Login(req.UserID)
	sess.cart.LoadFromStorage(r.Context())
	sess.cart.MigrateGuestCart(r.Context())

	respondJSON(w, http.StatusOK, cartView(sess.cart))
}

// Logout drops the authenticated identity; the session continues as a guest
// with whatever cart is persisted under the guest key.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	sess.identity.Logout()
	sess.cart.LoadFromStorage(r.Context())

	respondJSON(w, http.StatusOK, cartView(sess.cart))
}
