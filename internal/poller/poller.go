// Package poller consumes checkout-completed events and drops the buyer's
// persisted cart, so a finished order never leaves a stale cart behind.
package poller

import (
	"context"
	"encoding/json"
	"log"

	"github.com/eworkforce/malabro-cart/internal/identity"
	"github.com/eworkforce/malabro-cart/internal/storage"
	"github.com/segmentio/kafka-go"
)

type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Sessions lets the poller also empty the live cart of a logged-in buyer.
// May be nil when no session registry is running.
type Sessions interface {
	DropCart(ctx context.Context, userID int64)
}

type Poller struct {
	kv       storage.KV
	sessions Sessions
	reader   Reader
}

func New(kv storage.KV, sessions Sessions, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-completed",
		GroupID:  "cart-service-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{kv: kv, sessions: sessions, reader: reader}
}

// NewWithReader wires an explicit reader; tests use this to avoid a broker.
func NewWithReader(kv storage.KV, sessions Sessions, reader Reader) *Poller {
	return &Poller{kv: kv, sessions: sessions, reader: reader}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.consumeAndDropCart(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("poller: error closing reader: %v", err)
	}
}

func (p *Poller) consumeAndDropCart(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("poller: error reading message: %v", err)
		}
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		log.Printf("poller: error parsing message: %v", err)
		return
	}

	raw, ok := payload["user_id"].(float64)
	if !ok || raw <= 0 {
		log.Println("poller: missing or invalid user_id")
		return
	}
	userID := int64(raw)

	if err := p.kv.Delete(ctx, identity.UserKey(userID)); err != nil {
		log.Printf("poller: failed to delete cart for user %d: %v", userID, err)
		return
	}
	if p.sessions != nil {
		p.sessions.DropCart(ctx, userID)
	}
}
