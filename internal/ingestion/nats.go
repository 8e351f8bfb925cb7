package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"PayLedger/internal/event"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

// DefaultSubject is the subject transaction events are published on.
const DefaultSubject = "pay.transactions"

// txEventJSON is the wire format for events received over NATS.
// Field names use snake-free lowercase to match the CSV header.
type txEventJSON struct {
	Type   string           `json:"type"`
	Client uint16           `json:"client"`
	Tx     uint32           `json:"tx"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// ParseWireEvent converts a JSON payload into a validated event. Malformed
// payloads are source errors, same contract as a malformed CSV row.
func ParseWireEvent(data []byte) (event.Event, error) {
	var j txEventJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return event.Event{}, fmt.Errorf("parse event: %w", err)
	}

	kind, err := event.ParseKind(j.Type)
	if err != nil {
		return event.Event{}, err
	}

	return event.Event{
		Kind:   kind,
		Client: event.ClientID(j.Client),
		Tx:     event.TxID(j.Tx),
		Amount: j.Amount,
	}, nil
}

// NATSSource feeds the engine from a NATS subject. Messages buffer on a
// bounded channel; context cancellation ends the stream, after which Next
// drains whatever is already buffered and then reports io.EOF so the
// engine closes lanes and emits the report.
type NATSSource struct {
	sub  *nats.Subscription
	msgs chan *nats.Msg
	ctx  context.Context
	done bool
}

// NewNATSSource subscribes to subject on an established connection.
func NewNATSSource(ctx context.Context, conn *nats.Conn, subject string, buffer int) (*NATSSource, error) {
	if buffer <= 0 {
		buffer = 1024
	}
	msgs := make(chan *nats.Msg, buffer)

	sub, err := conn.ChanSubscribe(subject, msgs)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}

	return &NATSSource{
		sub:  sub,
		msgs: msgs,
		ctx:  ctx,
	}, nil
}

// Next blocks for the next message, or returns io.EOF once the context is
// cancelled and the buffer is drained.
func (s *NATSSource) Next() (event.Event, error) {
	if s.done {
		// Drain phase: deliver buffered messages, then end the stream.
		select {
		case msg := <-s.msgs:
			return ParseWireEvent(msg.Data)
		default:
			return event.Event{}, io.EOF
		}
	}

	select {
	case msg := <-s.msgs:
		return ParseWireEvent(msg.Data)
	case <-s.ctx.Done():
		s.done = true
		if err := s.sub.Unsubscribe(); err != nil {
			return event.Event{}, fmt.Errorf("unsubscribe: %w", err)
		}
		return s.Next()
	}
}
