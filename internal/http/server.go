package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/eworkforce/malabro-cart/internal/cart"
	"github.com/eworkforce/malabro-cart/internal/catalog"
	"github.com/eworkforce/malabro-cart/internal/identity"
	"github.com/eworkforce/malabro-cart/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const sessionCookieName = "malabro_session"

type ctxKey int

const sessionCtxKey ctxKey = iota

// Server is the storefront surface. Each browser session gets its own
// identity and cart store, keyed by a session cookie.
type Server struct {
	products catalog.Source
	kv       storage.KV
	timeout  time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id       string
	identity *identity.Session
	cart     *cart.Store
}

func NewServer(products catalog.Source, kv storage.KV, timeout time.Duration) *Server {
	return &Server{
		products: products,
		kv:       kv,
		timeout:  timeout,
		sessions: make(map[string]*session),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.withSession)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.Login)
			r.Post("/logout", s.Logout)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.GetCart)
			r.Delete("/", s.ClearCart)
			r.Post("/items", s.AddItem)
			r.Put("/items/{product_id}", s.UpdateQuantity)
			r.Post("/items/{product_id}/increment", s.IncrementQuantity)
			r.Post("/items/{product_id}/decrement", s.DecrementQuantity)
			r.Delete("/items/{product_id}", s.RemoveItem)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.ListProducts)
			r.Get("/{id}", s.GetProduct)
		})
	})

	return r
}

// withSession attaches the browser's session to the request context, creating
// a fresh guest session (and loading its persisted cart) on first sight.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session
		if c, err := r.Cookie(sessionCookieName); err == nil {
			sess = s.lookupSession(c.Value)
		}
		if sess == nil {
			sess = s.newSession(r.Context())
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sess.id,
				Path:     "/",
				HttpOnly: true,
			})
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) lookupSession(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Server) newSession(ctx context.Context) *session {
	sess := &session{
		id:       uuid.NewString(),
		identity: identity.NewSession(),
	}
	sess.cart = cart.New(sess.identity, s.kv)
	sess.cart.Initialize(ctx)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess
}

func sessionFrom(ctx context.Context) *session {
	if sess, ok := ctx.Value(sessionCtxKey).(*session); ok {
		return sess
	}
	return nil
}

// DropCart reloads the live cart of every session authenticated as userID.
// The checkout poller calls this after deleting the persisted copy, so the
// reload leaves those carts empty.
func (s *Server) DropCart(ctx context.Context, userID int64) {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		if id, ok := sess.identity.UserID(); ok && id == userID {
			sess.cart.LoadFromStorage(ctx)
		}
	}
}
