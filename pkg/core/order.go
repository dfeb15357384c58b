package core

import (
	"encoding/json"

	"github.com/nikolaydubina/fpdecimal"
)

// Side represents buy or sell side of the order
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side of the book
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType represents type of the order
type OrderType string

// Order types
const (
	TypeMarket OrderType = "MARKET"
	TypeLimit  OrderType = "LIMIT"
)

// Order stores the current state of one order. Identity is immutable,
// quantity is decremented as fills occur.
type Order struct {
	id          string
	orderType   OrderType
	side        Side
	quantity    fpdecimal.Decimal
	originalQty fpdecimal.Decimal
	price       fpdecimal.Decimal
	sequence    uint64
}

// NewMarketOrder creates a new market Order. Market orders carry no price
// and are never placed on the book.
func NewMarketOrder(orderID string, side Side, quantity fpdecimal.Decimal) (*Order, error) {
	if quantity.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidQuantity
	}

	return &Order{
		id:          orderID,
		orderType:   TypeMarket,
		side:        side,
		quantity:    quantity,
		originalQty: quantity,
		price:       fpdecimal.Zero,
	}, nil
}

// NewLimitOrder creates a new limit Order
func NewLimitOrder(orderID string, side Side, quantity, price fpdecimal.Decimal) (*Order, error) {
	if quantity.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidQuantity
	}

	if price.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidPrice
	}

	return &Order{
		id:          orderID,
		orderType:   TypeLimit,
		side:        side,
		quantity:    quantity,
		originalQty: quantity,
		price:       price,
	}, nil
}

// ID returns OrderID field copy
func (o *Order) ID() string {
	return o.id
}

// Side returns side of the Order
func (o *Order) Side() Side {
	return o.side
}

// OrderType returns type of the Order
func (o *Order) OrderType() OrderType {
	return o.orderType
}

// Quantity returns remaining quantity field copy
func (o *Order) Quantity() fpdecimal.Decimal {
	return o.quantity
}

// OriginalQty returns originalQty field copy
func (o *Order) OriginalQty() fpdecimal.Decimal {
	return o.originalQty
}

// SetQuantity sets the remaining quantity field
func (o *Order) SetQuantity(quantity fpdecimal.Decimal) {
	o.quantity = quantity
}

// DecreaseQuantity subtracts quantity from the remaining quantity
func (o *Order) DecreaseQuantity(quantity fpdecimal.Decimal) {
	o.quantity = o.quantity.Sub(quantity)
}

// Price returns Price field copy
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// Sequence returns the arrival marker stamped by the engine. Zero means
// the order has not passed through an engine yet.
func (o *Order) Sequence() uint64 {
	return o.sequence
}

func (o *Order) setSequence(seq uint64) {
	o.sequence = seq
}

// IsMarketOrder returns true if Order is MARKET
func (o *Order) IsMarketOrder() bool {
	return o.orderType == TypeMarket
}

// IsLimitOrder returns true if Order is LIMIT
func (o *Order) IsLimitOrder() bool {
	return o.orderType == TypeLimit
}

// MarshalJSON implements custom JSON marshaling for Order
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string    `json:"id"`
		OrderType   OrderType `json:"orderType"`
		Side        Side      `json:"side"`
		Quantity    string    `json:"quantity"`
		OriginalQty string    `json:"originalQty"`
		Price       string    `json:"price"`
		Sequence    uint64    `json:"sequence"`
	}{
		ID:          o.id,
		OrderType:   o.orderType,
		Side:        o.side,
		Quantity:    o.quantity.String(),
		OriginalQty: o.originalQty.String(),
		Price:       o.price.String(),
		Sequence:    o.sequence,
	})
}

// String implements Stringer interface
func (o *Order) String() string {
	j, _ := o.MarshalJSON()
	return string(j)
}
