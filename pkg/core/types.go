package core

import (
	"encoding/json"

	"github.com/nikolaydubina/fpdecimal"
)

// Trade is an immutable record of one fill between a buy and a sell
// order. Price is always the resting order's price.
type Trade struct {
	BuyOrderID  string
	SellOrderID string
	Price       fpdecimal.Decimal
	Quantity    fpdecimal.Decimal
}

// MarshalJSON implements Marshaler interface
func (t *Trade) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BuyOrderID  string `json:"buyOrderID"`
		SellOrderID string `json:"sellOrderID"`
		Price       string `json:"price"`
		Quantity    string `json:"quantity"`
	}{
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       t.Price.String(),
		Quantity:    t.Quantity.String(),
	})
}

// newTrade builds a Trade from the incoming and resting orders of one
// fill, assigning buyer and seller ids by the incoming side.
func newTrade(incoming, resting *Order, quantity, price fpdecimal.Decimal) Trade {
	trade := Trade{
		Price:    price,
		Quantity: quantity,
	}

	if incoming.Side() == Buy {
		trade.BuyOrderID = incoming.ID()
		trade.SellOrderID = resting.ID()
	} else {
		trade.BuyOrderID = resting.ID()
		trade.SellOrderID = incoming.ID()
	}

	return trade
}
