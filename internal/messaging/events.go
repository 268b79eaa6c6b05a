package messaging

import (
	"strconv"

	"outcome-book/internal/models"
)

// EventType represents the type of domain event.
type EventType string

const (
	EventTradeExecuted EventType = "trade.executed"
	EventOrderUpdated  EventType = "order.updated"
	EventOrderFilled   EventType = "order.filled"
)

// DomainEvent is the envelope published for every engine output.
type DomainEvent struct {
	Type  EventType      `json:"type"`
	Book  models.BookKey `json:"book"`
	Trade *models.Trade  `json:"trade,omitempty"`
	Order *models.Order  `json:"order,omitempty"`
}

// RoutingKey is the event type followed by market and outcome, so consumers
// can bind to e.g. "trade.executed.12.*".
func (e DomainEvent) RoutingKey() string {
	return string(e.Type) + "." +
		strconv.FormatInt(int64(e.Book.MarketID), 10) + "." +
		strconv.FormatInt(int64(e.Book.OutcomeID), 10)
}

func TradeExecuted(trade models.Trade) DomainEvent {
	return DomainEvent{Type: EventTradeExecuted, Book: trade.Key(), Trade: &trade}
}

// OrderUpdated reports an order's state after a submission. Fully filled
// orders get their own event type.
func OrderUpdated(order models.Order) DomainEvent {
	typ := EventOrderUpdated
	if order.IsFilled() {
		typ = EventOrderFilled
	}
	return DomainEvent{Type: typ, Book: order.Key(), Order: &order}
}
