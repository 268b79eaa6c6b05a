package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is the record of one match between a resting maker order and an
// incoming taker order. Trades are never modified after they are emitted.
type Trade struct {
	ID           uuid.UUID `json:"id"`
	Sequence     uint64    `json:"sequence"`
	MarketID     MarketID  `json:"market_id"`
	OutcomeID    OutcomeID `json:"outcome_id"`
	TakerOrderID OrderID   `json:"taker_order_id"`
	MakerOrderID OrderID   `json:"maker_order_id"`
	BuyOrderID   OrderID   `json:"buy_order_id"`
	SellOrderID  OrderID   `json:"sell_order_id"`
	BuyerID      TraderID  `json:"buyer_id"`
	SellerID     TraderID  `json:"seller_id"`
	TakerSide    Side      `json:"taker_side"`
	Price        Price     `json:"price"`
	Quantity     int64     `json:"quantity"`
	ExecutedAt   time.Time `json:"executed_at"`
}

// Notional returns price times quantity.
func (t *Trade) Notional() decimal.Decimal {
	return t.Price.Decimal().Mul(decimal.NewFromInt(t.Quantity))
}

func (t *Trade) Key() BookKey {
	return BookKey{MarketID: t.MarketID, OutcomeID: t.OutcomeID}
}
