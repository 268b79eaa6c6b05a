package engine

import "outcome-book/internal/models"

// restingOrder is a book-owned order linked into the FIFO queue of its
// price level.
type restingOrder struct {
	*models.Order

	level *priceLevel
	prev  *restingOrder
	next  *restingOrder
}

// fill executes qty against the order and keeps the level volume in step.
func (o *restingOrder) fill(qty int64) {
	o.Fill(qty)
	o.level.volume -= qty
}
