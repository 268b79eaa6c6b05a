package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/log"

	"outcome-book/internal/models"
)

// MatchResult is everything one submission changed. Orders are copies taken
// when the submission finished, so later matching never alters them.
type MatchResult struct {
	Trades []models.Trade `json:"trades"`
	Taker  models.Order   `json:"taker"`
	Makers []models.Order `json:"makers"`
	// Rested is true when the taker's remainder now rests in the book.
	Rested bool `json:"rested"`
}

// OrderBook holds the resting orders for one outcome of one market and
// matches incoming orders against them under price-time priority.
//
// All mutation happens under mu, held for the whole of a submission.
type OrderBook struct {
	key  models.BookKey
	mu   sync.Mutex
	bids *bookSide
	asks *bookSide

	ordersByID map[models.OrderID]*restingOrder
	sequence   *Sequencer
	tradeSeq   *Sequencer

	clock  func() time.Time
	logger log.Logger
}

func NewOrderBook(key models.BookKey) *OrderBook {
	return newOrderBook(key, time.Now, log.Root().New("module", "engine", "book", key.String()))
}

func newOrderBook(key models.BookKey, clock func() time.Time, logger log.Logger) *OrderBook {
	return &OrderBook{
		key:        key,
		bids:       newBookSide(models.SideBuy),
		asks:       newBookSide(models.SideSell),
		ordersByID: make(map[models.OrderID]*restingOrder),
		sequence:   NewSequencer(0),
		tradeSeq:   NewSequencer(0),
		clock:      clock,
		logger:     logger,
	}
}

func (ob *OrderBook) Key() models.BookKey { return ob.key }

// Submit matches order against the book and rests any limit remainder. The
// order's ID must already be set; its sequence number is assigned here.
func (ob *OrderBook) Submit(order models.Order) (MatchResult, error) {
	if err := checkOrder(&order); err != nil {
		return MatchResult{}, err
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.submitLocked(order)
}

// submitLocked does the work of Submit. The caller must hold mu.
func (ob *OrderBook) submitLocked(order models.Order) (MatchResult, error) {
	if order.Key() != ob.key {
		return MatchResult{}, fmt.Errorf("%w: order for %s submitted to %s", ErrWrongBook, order.Key(), ob.key)
	}
	if _, exists := ob.ordersByID[order.ID]; exists {
		return MatchResult{}, fmt.Errorf("%w: %d", ErrDuplicateOrder, order.ID)
	}

	taker := &order
	taker.Sequence = ob.sequence.Next()
	if taker.CreatedAt.IsZero() {
		taker.CreatedAt = ob.clock()
	}

	result := MatchResult{Trades: []models.Trade{}, Makers: []models.Order{}}
	ob.match(taker, &result)

	if taker.Remaining() > 0 {
		switch taker.Type {
		case models.TypeLimit:
			ro := &restingOrder{Order: taker}
			ob.sideOf(taker.Side).add(ro)
			ob.ordersByID[taker.ID] = ro
			result.Rested = true
		case models.TypeMarket:
			ob.logger.Debug("market order remainder discarded",
				"order", taker.ID, "side", taker.Side, "remaining", taker.Remaining())
		}
	}

	result.Taker = *taker
	return result, nil
}

func (ob *OrderBook) sideOf(side models.Side) *bookSide {
	if side == models.SideBuy {
		return ob.bids
	}
	return ob.asks
}

// GetOrder returns a copy of a resting order.
func (ob *OrderBook) GetOrder(id models.OrderID) (models.Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	ro, ok := ob.ordersByID[id]
	if !ok {
		return models.Order{}, false
	}
	return *ro.Order, true
}

// BestBid returns the highest bid price and the quantity resting at it.
func (ob *OrderBook) BestBid() (models.Price, int64, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return bestOf(ob.bids)
}

// BestAsk returns the lowest ask price and the quantity resting at it.
func (ob *OrderBook) BestAsk() (models.Price, int64, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return bestOf(ob.asks)
}

func bestOf(s *bookSide) (models.Price, int64, bool) {
	l := s.best()
	if l == nil {
		return 0, 0, false
	}
	return l.price, l.volume, true
}

// OrderCount returns the number of resting orders on both sides.
func (ob *OrderBook) OrderCount() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return len(ob.ordersByID)
}

// RestingCount returns the number of resting orders on one side.
func (ob *OrderBook) RestingCount(side models.Side) int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.sideOf(side).count
}

// LastSequence returns the sequence number given to the latest submission.
func (ob *OrderBook) LastSequence() uint64 {
	return ob.sequence.Current()
}

// checkOrder enforces the preconditions callers are trusted to have met.
func checkOrder(o *models.Order) error {
	if !o.Side.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidSide, o.Side)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, o.Quantity)
	}
	if o.Filled != 0 {
		return fmt.Errorf("%w: filled %d", ErrAlreadyFilled, o.Filled)
	}

	switch o.Type {
	case models.TypeLimit:
		if !o.Price.InRange() {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, o.Price)
		}
	case models.TypeMarket:
		if o.Price != 0 {
			return fmt.Errorf("%w: %s", ErrMarketOrderPriced, o.Price)
		}
	default:
		return fmt.Errorf("%w: %d", ErrInvalidOrderType, o.Type)
	}
	return nil
}
