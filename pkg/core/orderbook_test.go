package core

import (
	"fmt"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLimit(t *testing.T, id string, side Side, qty, price float64) *Order {
	t.Helper()
	order, err := NewLimitOrder(id, side, fpdecimal.FromFloat(qty), fpdecimal.FromFloat(price))
	require.NoError(t, err)
	return order
}

// checkBookInvariants asserts that the location index and the side
// queues hold exactly the same ids, that no level is empty, and that
// every queued order has positive quantity.
func checkBookInvariants(t *testing.T, book *OrderBook) {
	t.Helper()

	queued := make(map[string]bool)
	for _, side := range []*orderSide{book.bids, book.asks} {
		side.levels.Scan(func(pl *priceLevel) bool {
			require.Greater(t, pl.size, 0, "empty level at %s", pl.price)
			n := 0
			for node := pl.head; node != nil; node = node.next {
				require.True(t, node.order.Quantity().GreaterThan(fpdecimal.Zero),
					"non-positive quantity for %s", node.order.ID())
				queued[node.order.ID()] = true
				n++
			}
			require.Equal(t, pl.size, n, "level size mismatch at %s", pl.price)
			return true
		})
	}

	require.Equal(t, len(book.locations), len(queued), "index and queues disagree")
	for id := range book.locations {
		require.True(t, queued[id], "indexed id %s not queued", id)
	}
}

func TestOrderBookAdd(t *testing.T) {
	book := NewOrderBook()

	assert.True(t, book.Add(mustLimit(t, "b1", Buy, 10, 100)))
	assert.True(t, book.Add(mustLimit(t, "a1", Sell, 5, 101)))

	assert.Equal(t, 1, book.BidCount())
	assert.Equal(t, 1, book.AskCount())
	checkBookInvariants(t, book)
}

func TestOrderBookAddDuplicateID(t *testing.T) {
	book := NewOrderBook()

	require.True(t, book.Add(mustLimit(t, "dup", Buy, 10, 100)))
	assert.False(t, book.Add(mustLimit(t, "dup", Buy, 5, 99)))

	assert.Equal(t, 1, book.BidCount())
	checkBookInvariants(t, book)
}

func TestOrderBookAddRejectsMarketOrder(t *testing.T) {
	book := NewOrderBook()

	market, err := NewMarketOrder("m1", Buy, fpdecimal.FromFloat(10.0))
	require.NoError(t, err)

	assert.False(t, book.Add(market))
	assert.False(t, book.HasBids())
}

func TestOrderBookCancel(t *testing.T) {
	book := NewOrderBook()
	require.True(t, book.Add(mustLimit(t, "c1", Sell, 10, 100)))

	assert.True(t, book.Cancel("c1"))
	assert.False(t, book.HasAsks())
	checkBookInvariants(t, book)

	// Second cancel and unknown id both fail without side effects.
	assert.False(t, book.Cancel("c1"))
	assert.False(t, book.Cancel("never-added"))
}

func TestOrderBookCancelMiddleOfQueue(t *testing.T) {
	book := NewOrderBook()
	require.True(t, book.Add(mustLimit(t, "q1", Sell, 1, 100)))
	require.True(t, book.Add(mustLimit(t, "q2", Sell, 2, 100)))
	require.True(t, book.Add(mustLimit(t, "q3", Sell, 3, 100)))

	assert.True(t, book.Cancel("q2"))
	assert.Equal(t, 2, book.AskCount())
	checkBookInvariants(t, book)

	front, ok := book.PeekBestAsk()
	require.True(t, ok)
	assert.Equal(t, "q1", front.ID())
}

func TestOrderBookCancelDropsEmptyLevel(t *testing.T) {
	book := NewOrderBook()
	require.True(t, book.Add(mustLimit(t, "only", Buy, 10, 100)))
	require.True(t, book.Add(mustLimit(t, "lower", Buy, 10, 99)))

	require.True(t, book.Cancel("only"))

	price, ok := book.BestBid()
	require.True(t, ok)
	assert.True(t, price.Equal(fpdecimal.FromFloat(99.0)))
	checkBookInvariants(t, book)
}

func TestOrderBookModifyQuantity(t *testing.T) {
	book := NewOrderBook()
	require.True(t, book.Add(mustLimit(t, "m1", Sell, 10, 100)))
	require.True(t, book.Add(mustLimit(t, "m2", Sell, 10, 100)))

	assert.True(t, book.ModifyQuantity("m1", fpdecimal.FromFloat(4.0)))

	// Queue position is preserved.
	front, ok := book.PeekBestAsk()
	require.True(t, ok)
	assert.Equal(t, "m1", front.ID())
	assert.True(t, front.Quantity().Equal(fpdecimal.FromFloat(4.0)))

	assert.False(t, book.ModifyQuantity("missing", fpdecimal.FromFloat(1.0)))
	checkBookInvariants(t, book)
}

func TestOrderBookBestPrices(t *testing.T) {
	book := NewOrderBook()

	_, ok := book.BestBid()
	assert.False(t, ok)
	_, ok = book.BestAsk()
	assert.False(t, ok)

	require.True(t, book.Add(mustLimit(t, "b1", Buy, 1, 98)))
	require.True(t, book.Add(mustLimit(t, "b2", Buy, 1, 100)))
	require.True(t, book.Add(mustLimit(t, "b3", Buy, 1, 99)))
	require.True(t, book.Add(mustLimit(t, "a1", Sell, 1, 103)))
	require.True(t, book.Add(mustLimit(t, "a2", Sell, 1, 101)))
	require.True(t, book.Add(mustLimit(t, "a3", Sell, 1, 102)))

	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.True(t, bid.Equal(fpdecimal.FromFloat(100.0)), "best bid = %s", bid)

	ask, ok := book.BestAsk()
	require.True(t, ok)
	assert.True(t, ask.Equal(fpdecimal.FromFloat(101.0)), "best ask = %s", ask)

	assert.Equal(t, 3, book.BidCount())
	assert.Equal(t, 3, book.AskCount())
	checkBookInvariants(t, book)
}

func TestOrderBookPeekIsSnapshot(t *testing.T) {
	book := NewOrderBook()
	require.True(t, book.Add(mustLimit(t, "p1", Buy, 10, 100)))

	snap, ok := book.PeekBestBid()
	require.True(t, ok)

	// Mutating the book does not change an already-taken snapshot.
	require.True(t, book.ModifyQuantity("p1", fpdecimal.FromFloat(3.0)))
	assert.True(t, snap.Quantity().Equal(fpdecimal.FromFloat(10.0)))
}

func TestOrderBookQueryIdempotence(t *testing.T) {
	book := NewOrderBook()
	require.True(t, book.Add(mustLimit(t, "i1", Buy, 5, 100)))
	require.True(t, book.Add(mustLimit(t, "i2", Sell, 5, 105)))

	for i := 0; i < 5; i++ {
		bid, ok := book.BestBid()
		require.True(t, ok)
		assert.True(t, bid.Equal(fpdecimal.FromFloat(100.0)))

		ask, ok := book.BestAsk()
		require.True(t, ok)
		assert.True(t, ask.Equal(fpdecimal.FromFloat(105.0)))

		assert.True(t, book.HasBids())
		assert.True(t, book.HasAsks())
	}
}

func TestOrderBookManyLevels(t *testing.T) {
	book := NewOrderBook()

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("a-%d", i)
		require.True(t, book.Add(mustLimit(t, id, Sell, 1, 100.0+float64(i))))
	}
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("b-%d", i)
		require.True(t, book.Add(mustLimit(t, id, Buy, 1, 99.0-float64(i))))
	}

	ask, ok := book.BestAsk()
	require.True(t, ok)
	assert.True(t, ask.Equal(fpdecimal.FromFloat(100.0)))

	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.True(t, bid.Equal(fpdecimal.FromFloat(99.0)))

	// Cancel every other ask and re-check ordering and invariants.
	for i := 0; i < 50; i += 2 {
		require.True(t, book.Cancel(fmt.Sprintf("a-%d", i)))
	}

	ask, ok = book.BestAsk()
	require.True(t, ok)
	assert.True(t, ask.Equal(fpdecimal.FromFloat(101.0)))
	assert.Equal(t, 25, book.AskCount())
	checkBookInvariants(t, book)
}
