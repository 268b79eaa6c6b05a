package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// OrderRequest is an order as submitted by a trader, before it has been
// checked. Market and outcome are already resolved to numeric ids.
type OrderRequest struct {
	MarketID  MarketID         `json:"market_id"`
	OutcomeID OutcomeID        `json:"outcome_id"`
	TraderID  TraderID         `json:"trader_id"`
	Side      string           `json:"side"`
	Type      string           `json:"type"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Quantity  int64            `json:"quantity"`
}

func (r *OrderRequest) Validate() error {
	_, err := r.ToOrder()
	return err
}

// ToOrder validates the request and converts it into an unsubmitted Order.
func (r *OrderRequest) ToOrder() (Order, error) {
	if r.MarketID <= 0 {
		return Order{}, errors.New("market_id must be greater than 0")
	}
	if r.OutcomeID <= 0 {
		return Order{}, errors.New("outcome_id must be greater than 0")
	}
	if r.TraderID <= 0 {
		return Order{}, errors.New("trader_id must be greater than 0")
	}
	side, err := ParseSide(r.Side)
	if err != nil {
		return Order{}, err
	}
	typ, err := ParseOrderType(r.Type)
	if err != nil {
		return Order{}, err
	}
	if r.Quantity <= 0 {
		return Order{}, errors.New("quantity must be greater than 0")
	}

	var price Price
	switch typ {
	case TypeLimit:
		if r.Price == nil {
			return Order{}, errors.New("LIMIT orders must have a price")
		}
		price, err = PriceFromDecimal(*r.Price)
		if err != nil {
			return Order{}, err
		}
		if !price.InRange() {
			return Order{}, errors.New("price must be greater than 0 and at most 1")
		}
	case TypeMarket:
		if r.Price != nil {
			return Order{}, errors.New("MARKET orders must not have a price")
		}
	}

	return Order{
		MarketID:  r.MarketID,
		OutcomeID: r.OutcomeID,
		TraderID:  r.TraderID,
		Side:      side,
		Type:      typ,
		Price:     price,
		Quantity:  r.Quantity,
	}, nil
}
