package core

import (
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// OrderBook maintains two price-sorted side books of FIFO queues plus a
// location index from order id to queue slot. Level access is O(log P)
// in the number of distinct price levels, id-based cancel and modify are
// O(1).
//
// All operations report failure through their return value; duplicate
// ids and unknown ids are expected conditions, not errors. The book is
// not safe for concurrent use: it is owned by exactly one Engine and
// driven by one caller at a time.
type OrderBook struct {
	bids      *orderSide
	asks      *orderSide
	locations map[string]*orderNode
}

// NewOrderBook creates an empty OrderBook
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:      newOrderSide(Buy),
		asks:      newOrderSide(Sell),
		locations: make(map[string]*orderNode),
	}
}

func (b *OrderBook) side(side Side) *orderSide {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// Add appends a limit order to the tail of its side and price queue and
// records its location. Returns false, with no state change, if the
// order is not a limit order or its id is already resting.
func (b *OrderBook) Add(order *Order) bool {
	if !order.IsLimitOrder() {
		return false
	}
	if _, exists := b.locations[order.ID()]; exists {
		return false
	}

	b.locations[order.ID()] = b.side(order.Side()).append(order)
	return true
}

// Cancel removes the order with the given id from its queue, dropping
// the price level if it becomes empty. Returns false if the id is not
// resting.
func (b *OrderBook) Cancel(orderID string) bool {
	node, exists := b.locations[orderID]
	if !exists {
		return false
	}

	b.side(node.order.Side()).remove(node)
	delete(b.locations, orderID)
	return true
}

// ModifyQuantity updates a resting order's quantity in place, keeping
// its queue position and therefore its time priority. Returns false if
// the id is not resting.
func (b *OrderBook) ModifyQuantity(orderID string, quantity fpdecimal.Decimal) bool {
	node, exists := b.locations[orderID]
	if !exists {
		return false
	}

	node.order.SetQuantity(quantity)
	return true
}

// BestBid returns the highest bid price, or false if there are no bids
func (b *OrderBook) BestBid() (fpdecimal.Decimal, bool) {
	pl := b.bids.best()
	if pl == nil {
		return fpdecimal.Zero, false
	}
	return pl.price, true
}

// BestAsk returns the lowest ask price, or false if there are no asks
func (b *OrderBook) BestAsk() (fpdecimal.Decimal, bool) {
	pl := b.asks.best()
	if pl == nil {
		return fpdecimal.Zero, false
	}
	return pl.price, true
}

// PeekBestBid returns a snapshot of the order at the front of the best
// bid queue. The copy reflects the book at call time only; it is not a
// live view and does not track later fills or cancels.
func (b *OrderBook) PeekBestBid() (Order, bool) {
	return peek(b.bids)
}

// PeekBestAsk returns a snapshot of the order at the front of the best
// ask queue, with the same staleness contract as PeekBestBid.
func (b *OrderBook) PeekBestAsk() (Order, bool) {
	return peek(b.asks)
}

func peek(os *orderSide) (Order, bool) {
	pl := os.best()
	if pl == nil {
		return Order{}, false
	}
	return *pl.head.order, true
}

// bestResting returns the live front order of the side's best level.
// Matching mutates it in place, so this never escapes the package.
func (b *OrderBook) bestResting(side Side) *Order {
	pl := b.side(side).best()
	if pl == nil {
		return nil
	}
	return pl.head.order
}

// HasBids returns true if at least one bid is resting
func (b *OrderBook) HasBids() bool {
	return b.bids.count > 0
}

// HasAsks returns true if at least one ask is resting
func (b *OrderBook) HasAsks() bool {
	return b.asks.count > 0
}

// BidCount returns the number of resting orders across all bid levels
func (b *OrderBook) BidCount() int {
	return b.bids.count
}

// AskCount returns the number of resting orders across all ask levels
func (b *OrderBook) AskCount() int {
	return b.asks.count
}

// String implements fmt.Stringer interface
func (b *OrderBook) String() string {
	builder := strings.Builder{}

	builder.WriteString("Ask:")
	builder.WriteString(b.asks.String())
	builder.WriteString("\n")

	builder.WriteString("Bid:")
	builder.WriteString(b.bids.String())
	builder.WriteString("\n")

	return builder.String()
}
