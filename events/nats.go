package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const SubjectPrefix = "greennest.orders."

// NATSPublisher publishes each event on greennest.orders.<type>.
type NATSPublisher struct {
	conn *nats.Conn
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("greennest"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Subject is where events of type t are published.
func Subject(t Type) string {
	return SubjectPrefix + string(t)
}

func (p *NATSPublisher) Publish(_ context.Context, ev OrderEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := p.conn.Publish(Subject(ev.Type), data); err != nil {
		slog.Warn("nats publish failed", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
