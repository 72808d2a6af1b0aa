// Package events fans order and payment changes out to listeners after commit.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	OrderPlaced          Type = "order.placed"
	OrderCancelled       Type = "order.cancelled"
	OrderItemCancelled   Type = "order.item_cancelled"
	OrderReturnRequested Type = "order.return_requested"
	OrderReturned        Type = "order.returned"
	OrderStatusChanged   Type = "order.status_changed"
	PaymentFailed        Type = "payment.failed"
)

type OrderEvent struct {
	Type      Type            `json:"type"`
	OrderID   uint            `json:"order_id,omitempty"`
	DisplayID string          `json:"display_id,omitempty"`
	UserID    string          `json:"user_id"`
	ItemID    uint            `json:"item_id,omitempty"`
	Status    string          `json:"status,omitempty"`
	Method    string          `json:"payment_method,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason,omitempty"`
	At        time.Time       `json:"at"`
}

// Publisher delivers events. Implementations must not block the caller for long
// and must be safe for concurrent use. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) {}

// Multi publishes to each publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev OrderEvent) {
	for _, p := range m {
		p.Publish(ctx, ev)
	}
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []OrderEvent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, ev OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderEvent(nil), r.events...)
}

// Types lists the event types published so far, in order.
func (r *Recorder) Types() []Type {
	var out []Type
	for _, ev := range r.Events() {
		out = append(out, ev.Type)
	}
	return out
}
