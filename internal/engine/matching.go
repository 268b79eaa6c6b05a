package engine

import (
	"fmt"

	"github.com/google/uuid"

	"outcome-book/internal/models"
)

// tradeNamespace seeds the name-based UUIDs given to trades.
var tradeNamespace = uuid.MustParse("6f1c2a4e-8d3b-4c5f-9a7e-2b1d0c3e4f5a")

// match consumes resting liquidity on the opposite side until the taker is
// filled, the opposite side is empty, or the best level no longer crosses.
// A partially filled maker stays at the head of its level.
func (ob *OrderBook) match(taker *models.Order, result *MatchResult) {
	opposite := ob.sideOf(taker.Side.Opposite())

	for taker.Remaining() > 0 {
		level := opposite.best()
		if level == nil || !crosses(taker, level.price) {
			break
		}

		maker := level.head
		qty := min(taker.Remaining(), maker.Remaining())
		taker.Fill(qty)
		maker.fill(qty)

		result.Trades = append(result.Trades, ob.newTrade(taker, maker.Order, qty))
		result.Makers = append(result.Makers, *maker.Order)

		if maker.IsFilled() {
			opposite.remove(maker)
			delete(ob.ordersByID, maker.ID)
		}
	}
}

// crosses reports whether a taker may trade at a resting price.
func crosses(taker *models.Order, resting models.Price) bool {
	switch taker.Type {
	case models.TypeMarket:
		return true
	case models.TypeLimit:
		if taker.Side == models.SideBuy {
			return resting <= taker.Price
		}
		return resting >= taker.Price
	default:
		return false
	}
}

// newTrade records a fill at the maker's price.
func (ob *OrderBook) newTrade(taker, maker *models.Order, qty int64) models.Trade {
	seq := ob.tradeSeq.Next()
	t := models.Trade{
		ID:           uuid.NewSHA1(tradeNamespace, []byte(fmt.Sprintf("%s/%d", ob.key, seq))),
		Sequence:     seq,
		MarketID:     ob.key.MarketID,
		OutcomeID:    ob.key.OutcomeID,
		TakerOrderID: taker.ID,
		MakerOrderID: maker.ID,
		TakerSide:    taker.Side,
		Price:        maker.Price,
		Quantity:     qty,
		ExecutedAt:   ob.clock(),
	}

	buy, sell := taker, maker
	if taker.Side == models.SideSell {
		buy, sell = maker, taker
	}
	t.BuyOrderID, t.BuyerID = buy.ID, buy.TraderID
	t.SellOrderID, t.SellerID = sell.ID, sell.TraderID
	return t
}
