package engine

import "errors"

// Precondition errors. Callers are expected to have rejected such orders
// already, so seeing one of these indicates a bug upstream.
var (
	ErrInvalidSide       = errors.New("invalid side")
	ErrInvalidOrderType  = errors.New("invalid order type")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrMarketOrderPriced = errors.New("market order must not carry a price")
	ErrAlreadyFilled     = errors.New("order has fills before submission")
	ErrWrongBook         = errors.New("order does not belong to this book")
	ErrDuplicateOrder    = errors.New("order id already resting in book")
)
