package engine

import (
	"container/heap"
	"sort"

	"outcome-book/internal/models"
)

// priceLevel is the FIFO queue of resting orders sharing one side and price.
type priceLevel struct {
	price  models.Price
	head   *restingOrder
	tail   *restingOrder
	volume int64 // sum of remaining quantity
	count  int
	index  int // position in the side's levelHeap
}

func (l *priceLevel) append(o *restingOrder) {
	o.level = l
	o.prev = l.tail
	o.next = nil
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.volume += o.Remaining()
	l.count++
}

func (l *priceLevel) unlink(o *restingOrder) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	l.volume -= o.Remaining()
	l.count--
	o.prev, o.next, o.level = nil, nil, nil
}

func (l *priceLevel) empty() bool { return l.head == nil }

// bookSide holds all resting orders on one side of a book.
type bookSide struct {
	side   models.Side
	levels map[models.Price]*priceLevel
	heap   *levelHeap
	count  int
}

func newBookSide(side models.Side) *bookSide {
	return &bookSide{
		side:   side,
		levels: make(map[models.Price]*priceLevel),
		heap:   newLevelHeap(side == models.SideBuy),
	}
}

func (s *bookSide) best() *priceLevel { return s.heap.best() }

// add queues o at the tail of its price level, creating the level if needed.
func (s *bookSide) add(o *restingOrder) {
	l, ok := s.levels[o.Price]
	if !ok {
		l = &priceLevel{price: o.Price}
		s.levels[o.Price] = l
		heap.Push(s.heap, l)
	}
	l.append(o)
	s.count++
}

// remove unlinks o and drops its level once the level is empty.
func (s *bookSide) remove(o *restingOrder) {
	l := o.level
	l.unlink(o)
	s.count--
	if l.empty() {
		delete(s.levels, l.price)
		heap.Remove(s.heap, l.index)
	}
}

// orders returns the resting orders in matching priority. It is only meant
// for tests and diagnostics.
func (s *bookSide) orders() []*restingOrder {
	levels := make([]*priceLevel, 0, len(s.levels))
	for _, l := range s.levels {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool {
		if s.side == models.SideBuy {
			return levels[i].price > levels[j].price
		}
		return levels[i].price < levels[j].price
	})

	out := make([]*restingOrder, 0, s.count)
	for _, l := range levels {
		for o := l.head; o != nil; o = o.next {
			out = append(out, o)
		}
	}
	return out
}
