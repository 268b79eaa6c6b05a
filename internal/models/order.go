package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type (
	OrderID   uint64
	MarketID  int64
	OutcomeID int64
	TraderID  int64
)

// Side is the direction of an order. The zero value is not a valid side.
type Side uint8

const (
	SideBuy Side = iota + 1
	SideSell
)

// ParseSide accepts "BUY" or "SELL" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SideBuy, nil
	case "SELL":
		return SideSell, nil
	}
	return 0, fmt.Errorf("side must be BUY or SELL, got %q", s)
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Opposite returns the side an order of side s matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// OrderType distinguishes priced limit orders from unpriced market orders.
type OrderType uint8

const (
	TypeLimit OrderType = iota + 1
	TypeMarket
)

func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LIMIT":
		return TypeLimit, nil
	case "MARKET":
		return TypeMarket, nil
	}
	return 0, fmt.Errorf("type must be LIMIT or MARKET, got %q", s)
}

func (t OrderType) String() string {
	switch t {
	case TypeLimit:
		return "LIMIT"
	case TypeMarket:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

func (t OrderType) IsValid() bool {
	return t == TypeLimit || t == TypeMarket
}

func (t OrderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *OrderType) UnmarshalText(b []byte) error {
	v, err := ParseOrderType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Status is derived from an order's fill state and never stored.
type Status uint8

const (
	StatusOpen Status = iota + 1
	StatusPartiallyFilled
	StatusFilled
)

func (st Status) String() string {
	switch st {
	case StatusOpen:
		return "OPEN"
	case StatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case StatusFilled:
		return "FILLED"
	default:
		return "UNKNOWN"
	}
}

func (st Status) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

// Order is a trader's intent to buy or sell contracts on one outcome of a
// market, together with how much of it has been filled so far.
//
// Price is zero for market orders. Sequence is assigned by the order book and
// only orders arrivals within it.
type Order struct {
	ID        OrderID   `json:"id"`
	MarketID  MarketID  `json:"market_id"`
	OutcomeID OutcomeID `json:"outcome_id"`
	TraderID  TraderID  `json:"trader_id"`
	Side      Side      `json:"side"`
	Type      OrderType `json:"type"`
	Price     Price     `json:"price"`
	Quantity  int64     `json:"quantity"`
	Filled    int64     `json:"filled"`
	Sequence  uint64    `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the book this order belongs to.
func (o *Order) Key() BookKey {
	return BookKey{MarketID: o.MarketID, OutcomeID: o.OutcomeID}
}

// Remaining returns the unfilled quantity of the order.
func (o *Order) Remaining() int64 {
	return o.Quantity - o.Filled
}

func (o *Order) IsFilled() bool {
	return o.Filled >= o.Quantity
}

func (o *Order) Status() Status {
	switch {
	case o.Filled == 0:
		return StatusOpen
	case o.Filled < o.Quantity:
		return StatusPartiallyFilled
	default:
		return StatusFilled
	}
}

// Fill records qty contracts as executed. Filling more than the remaining
// quantity is a matching defect and panics.
func (o *Order) Fill(qty int64) {
	if qty <= 0 || qty > o.Remaining() {
		panic(fmt.Sprintf("order %d: fill of %d with %d remaining", o.ID, qty, o.Remaining()))
	}
	o.Filled += qty
}

// MarshalJSON adds the derived status to the encoded order.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		Status Status `json:"status"`
	}{plain(o), o.Status()})
}
