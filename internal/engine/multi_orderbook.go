package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/luxfi/log"

	"outcome-book/internal/models"
)

// MatchingEngine routes orders to one OrderBook per market outcome.
//
// THREAD SAFETY:
//   - Each order book has its own mutex, so different outcomes match in parallel
//   - The books map is guarded by mu; books are created with double-checked locking
//   - Books are never evicted
type MatchingEngine struct {
	books map[models.BookKey]*OrderBook
	mu    sync.RWMutex

	orderIDs *Sequencer
	clock    func() time.Time
	logger   log.Logger

	// Called while the book lock is held, in match order. Callbacks must
	// not submit to the book that invoked them.
	onTrade func(key models.BookKey, trade models.Trade)
	onOrder func(key models.BookKey, order models.Order)
}

type Option func(*MatchingEngine)

// WithClock sets the clock used for informational timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *MatchingEngine) { e.clock = clock }
}

func WithLogger(logger log.Logger) Option {
	return func(e *MatchingEngine) { e.logger = logger }
}

// WithStartOrderID makes the first assigned order id start + 1.
func WithStartOrderID(start models.OrderID) Option {
	return func(e *MatchingEngine) { e.orderIDs = NewSequencer(uint64(start)) }
}

func NewMatchingEngine(opts ...Option) *MatchingEngine {
	e := &MatchingEngine{
		books:    make(map[models.BookKey]*OrderBook),
		orderIDs: NewSequencer(0),
		clock:    time.Now,
		logger:   log.Root().New("module", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetOrCreateBook returns the book for a market outcome, creating one if needed.
func (e *MatchingEngine) GetOrCreateBook(marketID models.MarketID, outcomeID models.OutcomeID) *OrderBook {
	key := models.BookKey{MarketID: marketID, OutcomeID: outcomeID}

	e.mu.RLock()
	ob, exists := e.books[key]
	e.mu.RUnlock()
	if exists {
		return ob
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if ob, exists = e.books[key]; exists {
		return ob
	}

	ob = newOrderBook(key, e.clock, e.logger.New("book", key.String()))
	e.books[key] = ob
	e.logger.Debug("order book created", "book", key.String())
	return ob
}

// Book returns the book for a market outcome without creating it.
func (e *MatchingEngine) Book(marketID models.MarketID, outcomeID models.OutcomeID) (*OrderBook, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ob, ok := e.books[models.BookKey{MarketID: marketID, OutcomeID: outcomeID}]
	return ob, ok
}

// Submit assigns the order an id and matches it in its book. Any ID already
// set on order is replaced. Orders that break the engine's preconditions are
// rejected without creating a book or assigning an id.
func (e *MatchingEngine) Submit(order models.Order) (MatchResult, error) {
	if err := checkOrder(&order); err != nil {
		return MatchResult{}, err
	}

	e.mu.RLock()
	onTrade, onOrder := e.onTrade, e.onOrder
	e.mu.RUnlock()

	ob := e.GetOrCreateBook(order.MarketID, order.OutcomeID)
	order.ID = models.OrderID(e.orderIDs.Next())

	ob.mu.Lock()
	defer ob.mu.Unlock()

	result, err := ob.submitLocked(order)
	if err != nil {
		return MatchResult{}, err
	}

	if onTrade != nil {
		for _, t := range result.Trades {
			onTrade(ob.key, t)
		}
	}
	if onOrder != nil {
		for _, m := range result.Makers {
			onOrder(ob.key, m)
		}
		onOrder(ob.key, result.Taker)
	}
	return result, nil
}

// Books returns the keys of all books, ordered by market then outcome.
func (e *MatchingEngine) Books() []models.BookKey {
	e.mu.RLock()
	keys := make([]models.BookKey, 0, len(e.books))
	for k := range e.books {
		keys = append(keys, k)
	}
	e.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func (e *MatchingEngine) BookCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.books)
}

// SetTradeCallback sets the callback for executed trades.
func (e *MatchingEngine) SetTradeCallback(cb func(key models.BookKey, trade models.Trade)) *MatchingEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTrade = cb
	return e
}

// SetOrderCallback sets the callback for order state changes. It fires for
// each maker touched and then for the taker.
func (e *MatchingEngine) SetOrderCallback(cb func(key models.BookKey, order models.Order)) *MatchingEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onOrder = cb
	return e
}
