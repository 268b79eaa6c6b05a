package engine

import (
	"testing"

	"pgregory.net/rapid"

	"outcome-book/internal/models"
)

// drawOrder generates a valid order for testKey. Prices are drawn from a
// narrow band so that levels collide and the book crosses often.
func drawOrder(t *rapid.T, label string) models.Order {
	side := rapid.SampledFrom([]models.Side{models.SideBuy, models.SideSell}).Draw(t, label+"_side")
	qty := rapid.Int64Range(1, 20).Draw(t, label+"_qty")
	o := models.Order{
		MarketID:  testKey.MarketID,
		OutcomeID: testKey.OutcomeID,
		TraderID:  models.TraderID(rapid.Int64Range(1, 5).Draw(t, label+"_trader")),
		Side:      side,
		Type:      models.TypeLimit,
		Quantity:  qty,
	}
	if rapid.IntRange(0, 9).Draw(t, label+"_market") == 0 {
		o.Type = models.TypeMarket
		return o
	}
	o.Price = models.Price(rapid.Int64Range(4500, 5500).Draw(t, label+"_price") / 100 * 100)
	return o
}

// bookRun feeds generated orders to a fresh engine and tracks what it saw.
type bookRun struct {
	engine *MatchingEngine
	orders map[models.OrderID]models.Order // latest known state
	traded map[models.OrderID]int64        // sum of trade quantities
	trades []models.Trade

	results   []MatchResult // as returned, sharing whatever the engine handed out
	snapshots []MatchResult // deep copies taken at return time
}

func newBookRun() *bookRun {
	return &bookRun{
		engine: NewMatchingEngine(WithLogger(testLogger())),
		orders: make(map[models.OrderID]models.Order),
		traded: make(map[models.OrderID]int64),
	}
}

func (r *bookRun) submit(t *rapid.T, o models.Order) MatchResult {
	before := make(map[models.OrderID]int64)
	for id, known := range r.orders {
		before[id] = known.Remaining()
	}

	res, err := r.engine.Submit(o)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	before[res.Taker.ID] = res.Taker.Quantity

	for _, tr := range res.Trades {
		if tr.Quantity <= 0 {
			t.Fatalf("trade %d has quantity %d", tr.Sequence, tr.Quantity)
		}
		if tr.Quantity > before[tr.TakerOrderID] || tr.Quantity > before[tr.MakerOrderID] {
			t.Fatalf("trade %d of %d exceeds available taker %d / maker %d",
				tr.Sequence, tr.Quantity, before[tr.TakerOrderID], before[tr.MakerOrderID])
		}
		before[tr.TakerOrderID] -= tr.Quantity
		before[tr.MakerOrderID] -= tr.Quantity
		r.traded[tr.TakerOrderID] += tr.Quantity
		r.traded[tr.MakerOrderID] += tr.Quantity
	}

	for _, m := range res.Makers {
		r.orders[m.ID] = m
	}
	r.orders[res.Taker.ID] = res.Taker
	r.trades = append(r.trades, res.Trades...)
	r.results = append(r.results, res)
	r.snapshots = append(r.snapshots, cloneResult(res))
	return res
}

func cloneResult(res MatchResult) MatchResult {
	return MatchResult{
		Trades: append([]models.Trade(nil), res.Trades...),
		Taker:  res.Taker,
		Makers: append([]models.Order(nil), res.Makers...),
		Rested: res.Rested,
	}
}

func sameResult(a, b MatchResult) bool {
	if a.Taker != b.Taker || a.Rested != b.Rested ||
		len(a.Trades) != len(b.Trades) || len(a.Makers) != len(b.Makers) {
		return false
	}
	for i := range a.Trades {
		if a.Trades[i] != b.Trades[i] {
			return false
		}
	}
	for i := range a.Makers {
		if a.Makers[i] != b.Makers[i] {
			return false
		}
	}
	return true
}

func TestProperty_FillsNeverExceedQuantity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newBookRun()
		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			r.submit(t, drawOrder(t, "o"))
		}

		for id, o := range r.orders {
			if o.Filled < 0 || o.Filled > o.Quantity {
				t.Fatalf("order %d filled %d of %d", id, o.Filled, o.Quantity)
			}
			if r.traded[id] != o.Filled {
				t.Fatalf("order %d filled %d but traded %d", id, o.Filled, r.traded[id])
			}
		}
	})
}

func TestProperty_BookNeverCrosses(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newBookRun()
		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			r.submit(t, drawOrder(t, "o"))

			ob := r.engine.GetOrCreateBook(testKey.MarketID, testKey.OutcomeID)
			bid, _, hasBid := ob.BestBid()
			ask, _, hasAsk := ob.BestAsk()
			if hasBid && hasAsk && bid >= ask {
				t.Fatalf("book is crossed: best bid %s >= best ask %s", bid, ask)
			}
		}
	})
}

func TestProperty_EqualPricesFillInArrivalOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newBookRun()
		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			r.submit(t, drawOrder(t, "o"))
		}

		// Once a maker has been traded against, every earlier order resting
		// at the same side and price must already have been consumed.
		firstTouch := make(map[models.OrderID]int)
		for i, tr := range r.trades {
			if _, seen := firstTouch[tr.MakerOrderID]; !seen {
				firstTouch[tr.MakerOrderID] = i
			}
		}
		for makerID, at := range firstTouch {
			maker := r.orders[makerID]
			for otherID, other := range r.orders {
				if otherID == makerID || other.Type != models.TypeLimit ||
					other.Side != maker.Side || other.Price != maker.Price || other.Sequence > maker.Sequence {
					continue
				}
				filledBefore := int64(0)
				for _, tr := range r.trades[:at] {
					if tr.MakerOrderID == otherID || tr.TakerOrderID == otherID {
						filledBefore += tr.Quantity
					}
				}
				if filledBefore != other.Quantity {
					t.Fatalf("order %d (seq %d) traded before earlier order %d (seq %d) at %s was filled",
						makerID, maker.Sequence, otherID, other.Sequence, maker.Price)
				}
			}
		}
	})
}

func TestProperty_ResultsAreImmutable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newBookRun()
		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			r.submit(t, drawOrder(t, "o"))

			// Later submissions fill and remove the makers of earlier results;
			// none of that may show through in what was already returned.
			for j := range r.results {
				if !sameResult(r.results[j], r.snapshots[j]) {
					t.Fatalf("result of submission %d changed after submission %d", j, i)
				}
			}
		}

		for i := 1; i < len(r.trades); i++ {
			if r.trades[i].Sequence <= r.trades[i-1].Sequence {
				t.Fatalf("trade sequence not increasing at %d", i)
			}
		}
	})
}
