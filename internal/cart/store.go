// Package cart holds the client-facing cart state machine: an ordered list of
// product snapshots, derived totals recomputed on every read, and a
// write-through mirror in key-value storage namespaced by session identity.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/eworkforce/malabro-cart/internal/domain"
	"github.com/eworkforce/malabro-cart/internal/identity"
	"github.com/eworkforce/malabro-cart/internal/money"
	"github.com/eworkforce/malabro-cart/internal/storage"
)

// Store owns the item list for one browsing session. The in-memory list is the
// source of truth; storage is written through on every mutation and read once
// at initialization (and again on identity transitions).
//
// The mutex serializes every operation, so rapid user actions and the
// login-migration event never interleave mid-mutation.
type Store struct {
	mu       sync.Mutex
	identity identity.Provider
	kv       storage.KV

	items   []domain.CartItem
	loading bool
	errMsg  string
}

func New(provider identity.Provider, kv storage.KV) *Store {
	return &Store{
		identity: provider,
		kv:       kv,
	}
}

// Initialize loads the persisted cart for the current identity. Call once
// after the session's identity is established.
func (s *Store) Initialize(ctx context.Context) {
	s.LoadFromStorage(ctx)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ItemCount(s.items)
}

func (s *Store) SubtotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Subtotal(s.items)
}

func (s *Store) DeliveryFee() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.DeliveryFeeFor(s.items)
}

func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Total(s.items)
}

func (s *Store) SubtotalPriceFormatted() string {
	return money.Format(s.SubtotalPrice())
}

func (s *Store) DeliveryFeeFormatted() string {
	return money.Format(s.DeliveryFee())
}

func (s *Store) TotalPriceFormatted() string {
	return money.Format(s.TotalPrice())
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// ValidationErrors reports every line whose quantity exceeds its stock
// snapshot. Read-only; nothing is corrected here.
func (s *Store) ValidationErrors() []domain.ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Validate(s.items)
}

func (s *Store) IsCartValid() bool {
	return len(s.ValidationErrors()) == 0
}

// ItemQuantity returns the quantity for a product, 0 if absent.
func (s *Store) ItemQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

func (s *Store) InCart(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

// Err returns the last user-facing failure message (French), "" when clear.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// AddItem appends a snapshot of the product, or bumps the quantity of an
// existing line. An increment on an existing line is not checked against the
// stock snapshot; detection is deferred to ValidationErrors or a later
// UpdateQuantity.
func (s *Store) AddItem(ctx context.Context, product *domain.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""

	if product == nil || product.ID == 0 {
		s.errMsg = "Produit invalide"
		return
	}

	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.CartItem{
			ID:            product.ID,
			Name:          product.Name,
			Description:   product.Description,
			ImageURL:      product.ImageURL,
			Price:         product.Price,
			UnitOfMeasure: product.UnitOfMeasure,
			Quantity:      quantity,
			StockQuantity: product.StockQuantity,
		})
	}

	s.persistLocked(ctx)
}

// RemoveItem drops the line with the given product id. Removing an absent line
// is a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
	s.removeLocked(ctx, productID)
}

// UpdateQuantity sets the quantity for a line. Zero or negative removes the
// line; a value beyond the stock snapshot is capped at the snapshot and
// surfaced via Err. Absent lines are left alone.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
	s.updateQuantityLocked(ctx, productID, quantity)
}

// IncrementQuantity bumps a line by one. No-op if absent.
func (s *Store) IncrementQuantity(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.errMsg = ""
	s.updateQuantityLocked(ctx, productID, s.items[i].Quantity+1)
}

// DecrementQuantity lowers a line by one; at quantity 1 the line is removed.
// No-op if absent.
func (s *Store) DecrementQuantity(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.errMsg = ""
	s.updateQuantityLocked(ctx, productID, s.items[i].Quantity-1)
}

// ClearCart empties the item list.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
	s.items = nil
	s.persistLocked(ctx)
}

// ClearError resets the user-facing error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// SaveToStorage mirrors the item list under the identity's key. Persistence is
// best-effort: callers log the returned error and never surface it as a domain
// error.
func (s *Store) SaveToStorage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// LoadFromStorage replaces the item list with the persisted copy for the
// current identity. Absence or malformed data resets the list to empty rather
// than leaving stale state.
func (s *Store) LoadFromStorage(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := identity.StorageKey(s.identity)
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cart: load from storage failed: %v", err)
		}
		s.items = nil
		return
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("cart: discarding malformed cart under %q: %v", key, err)
		s.items = nil
		return
	}
	s.items = items
}

// MigrateGuestCart folds the guest-keyed cart into the current user's cart
// after login: quantities are summed for lines both carts share, other guest
// lines are appended. The guest key is deleted only after the merged cart is
// saved, so a failed save leaves the guest cart intact. The merge itself is
// not atomic with the deletion; a crash between the two double-counts guest
// quantities on a retried login.
func (s *Store) MigrateGuestCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identity.IsAuthenticated() {
		return
	}
	if _, ok := s.identity.UserID(); !ok {
		return
	}

	data, err := s.kv.Get(ctx, identity.GuestKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("cart: guest cart read failed: %v", err)
		return
	}

	var guestItems []domain.CartItem
	if err := json.Unmarshal(data, &guestItems); err != nil {
		log.Printf("cart: discarding malformed guest cart: %v", err)
		return
	}

	for _, guest := range guestItems {
		if i := s.indexOf(guest.ID); i >= 0 {
			s.items[i].Quantity += guest.Quantity
		} else {
			s.items = append(s.items, guest)
		}
	}

	if err := s.saveLocked(ctx); err != nil {
		log.Printf("cart: merged cart save failed, keeping guest cart: %v", err)
		return
	}
	if err := s.kv.Delete(ctx, identity.GuestKey); err != nil {
		log.Printf("cart: guest cart delete failed: %v", err)
	}
}

func (s *Store) indexOf(productID int64) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(ctx context.Context, productID int64) {
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.persistLocked(ctx)
}

func (s *Store) updateQuantityLocked(ctx context.Context, productID int64, quantity int) {
	if quantity <= 0 {
		s.removeLocked(ctx, productID)
		return
	}

	i := s.indexOf(productID)
	if i < 0 {
		return
	}

	item := &s.items[i]
	if quantity > item.StockQuantity {
		s.errMsg = fmt.Sprintf("Stock insuffisant pour %s. Quantité maximale: %d", item.Name, item.StockQuantity)
		item.Quantity = item.StockQuantity
	} else {
		item.Quantity = quantity
	}
	s.persistLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	key := identity.StorageKey(s.identity)
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("persist cart under %q failed: %w", key, err)
	}
	return nil
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := s.saveLocked(ctx); err != nil {
		log.Printf("cart: save to storage failed: %v", err)
	}
}
