package core

import (
	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog"
)

// Engine implements price-time-priority matching over an exclusively
// owned OrderBook. Incoming orders are matched against the opposite
// side's best price level front to back; unmatched limit remainders rest
// on the book, unmatched market remainders are discarded.
type Engine struct {
	book   *OrderBook
	seq    uint64
	logger zerolog.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger attaches a structured logger to the engine. Without it the
// engine stays silent.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine with its own empty OrderBook
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		book:   NewOrderBook(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process matches the incoming order and returns the trades produced, in
// execution order. The order is stamped with a fresh arrival marker;
// orders already resting keep the marker from their own submission.
//
// A market order trades against the opposing best until it is filled or
// the side is empty; leftover quantity is dropped, never queued. A limit
// order trades while the opposing best price crosses its limit, then any
// remainder is added to the book.
func (e *Engine) Process(order *Order) []Trade {
	e.seq++
	order.setSequence(e.seq)

	var trades []Trade
	if order.IsMarketOrder() {
		trades = e.matchMarket(order)
	} else {
		trades = e.matchLimit(order)
	}

	e.logger.Debug().
		Str("order_id", order.ID()).
		Str("side", order.Side().String()).
		Str("type", string(order.OrderType())).
		Str("left", order.Quantity().String()).
		Int("trades", len(trades)).
		Msg("order processed")

	return trades
}

// CancelOrder removes a resting order from the book
func (e *Engine) CancelOrder(orderID string) bool {
	return e.book.Cancel(orderID)
}

func (e *Engine) matchMarket(order *Order) []Trade {
	trades := make([]Trade, 0)
	opposite := order.Side().Opposite()

	for order.Quantity().GreaterThan(fpdecimal.Zero) {
		resting := e.book.bestResting(opposite)
		if resting == nil {
			break
		}
		trades = append(trades, e.executeTrade(order, resting))
	}

	// Leftover market quantity is dropped: market orders never rest.
	return trades
}

func (e *Engine) matchLimit(order *Order) []Trade {
	trades := make([]Trade, 0)
	opposite := order.Side().Opposite()

	for order.Quantity().GreaterThan(fpdecimal.Zero) {
		resting := e.book.bestResting(opposite)
		if resting == nil {
			break
		}
		if !crosses(order.Side(), order.Price(), resting.Price()) {
			break
		}
		trades = append(trades, e.executeTrade(order, resting))
	}

	if order.Quantity().GreaterThan(fpdecimal.Zero) {
		if !e.book.Add(order) {
			e.logger.Warn().
				Str("order_id", order.ID()).
				Msg("remainder not placed, id already resting")
		}
	}

	return trades
}

// executeTrade fills min(incoming, resting) at the resting order's
// price, decrements both orders, and removes or updates the resting
// order so it either leaves the book or keeps its queue position.
func (e *Engine) executeTrade(incoming, resting *Order) Trade {
	fillQty := min(incoming.Quantity(), resting.Quantity())
	fillPrice := resting.Price()

	trade := newTrade(incoming, resting, fillQty, fillPrice)

	incoming.DecreaseQuantity(fillQty)
	resting.DecreaseQuantity(fillQty)

	if resting.Quantity().Equal(fpdecimal.Zero) {
		e.book.Cancel(resting.ID())
	} else {
		e.book.ModifyQuantity(resting.ID(), resting.Quantity())
	}

	return trade
}

// crosses checks if a limit order at orderPrice can trade against the
// opposing book price
func crosses(side Side, orderPrice, bookPrice fpdecimal.Decimal) bool {
	if side == Buy {
		return orderPrice.GreaterThanOrEqual(bookPrice)
	}
	return orderPrice.LessThanOrEqual(bookPrice)
}

// min returns the minimum of two decimals
func min(a, b fpdecimal.Decimal) fpdecimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// BestBid returns the highest resting bid price
func (e *Engine) BestBid() (fpdecimal.Decimal, bool) {
	return e.book.BestBid()
}

// BestAsk returns the lowest resting ask price
func (e *Engine) BestAsk() (fpdecimal.Decimal, bool) {
	return e.book.BestAsk()
}

// HasBids reports whether any bids are resting
func (e *Engine) HasBids() bool {
	return e.book.HasBids()
}

// HasAsks reports whether any asks are resting
func (e *Engine) HasAsks() bool {
	return e.book.HasAsks()
}

// Book returns the engine's order book for inspection
func (e *Engine) Book() *OrderBook {
	return e.book
}
