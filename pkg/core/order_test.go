package core

import (
	"encoding/json"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

func TestSideString(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"Buy", Buy, "BUY"},
		{"Sell", Sell, "SELL"},
		{"Invalid", Side(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.side.String(); got != tt.want {
				t.Errorf("Side.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSideOpposite(t *testing.T) {
	if Buy.Opposite() != Sell {
		t.Errorf("Expected Buy.Opposite() = Sell, got %v", Buy.Opposite())
	}
	if Sell.Opposite() != Buy {
		t.Errorf("Expected Sell.Opposite() = Buy, got %v", Sell.Opposite())
	}
}

func TestNewMarketOrder(t *testing.T) {
	orderID := "test-123"
	quantity := fpdecimal.FromFloat(10.5)

	order, err := NewMarketOrder(orderID, Buy, quantity)
	if err != nil {
		t.Fatalf("NewMarketOrder returned error: %v", err)
	}

	if order.ID() != orderID {
		t.Errorf("Expected ID %s, got %s", orderID, order.ID())
	}

	if order.Side() != Buy {
		t.Errorf("Expected Side Buy, got %v", order.Side())
	}

	if !order.Quantity().Equal(quantity) {
		t.Errorf("Expected Quantity %v, got %v", quantity, order.Quantity())
	}

	if !order.OriginalQty().Equal(quantity) {
		t.Errorf("Expected OriginalQty %v, got %v", quantity, order.OriginalQty())
	}

	if !order.Price().Equal(fpdecimal.Zero) {
		t.Errorf("Expected Price 0, got %v", order.Price())
	}

	if !order.IsMarketOrder() {
		t.Error("Expected IsMarketOrder() to be true")
	}

	if order.IsLimitOrder() {
		t.Error("Expected IsLimitOrder() to be false")
	}
}

func TestNewMarketOrderInvalidQuantity(t *testing.T) {
	if _, err := NewMarketOrder("m1", Buy, fpdecimal.Zero); err != ErrInvalidQuantity {
		t.Errorf("Expected ErrInvalidQuantity, got %v", err)
	}

	if _, err := NewMarketOrder("m2", Sell, fpdecimal.FromFloat(-1.0)); err != ErrInvalidQuantity {
		t.Errorf("Expected ErrInvalidQuantity, got %v", err)
	}
}

func TestNewLimitOrder(t *testing.T) {
	orderID := "limit-1"
	quantity := fpdecimal.FromFloat(5.0)
	price := fpdecimal.FromFloat(100.0)

	order, err := NewLimitOrder(orderID, Sell, quantity, price)
	if err != nil {
		t.Fatalf("NewLimitOrder returned error: %v", err)
	}

	if order.ID() != orderID {
		t.Errorf("Expected ID %s, got %s", orderID, order.ID())
	}

	if !order.Price().Equal(price) {
		t.Errorf("Expected Price %v, got %v", price, order.Price())
	}

	if !order.IsLimitOrder() {
		t.Error("Expected IsLimitOrder() to be true")
	}

	if order.Sequence() != 0 {
		t.Errorf("Expected zero sequence before processing, got %d", order.Sequence())
	}
}

func TestNewLimitOrderValidation(t *testing.T) {
	price := fpdecimal.FromFloat(100.0)
	quantity := fpdecimal.FromFloat(5.0)

	if _, err := NewLimitOrder("l1", Buy, fpdecimal.Zero, price); err != ErrInvalidQuantity {
		t.Errorf("Expected ErrInvalidQuantity, got %v", err)
	}

	if _, err := NewLimitOrder("l2", Buy, quantity, fpdecimal.Zero); err != ErrInvalidPrice {
		t.Errorf("Expected ErrInvalidPrice, got %v", err)
	}

	if _, err := NewLimitOrder("l3", Buy, quantity, fpdecimal.FromFloat(-10.0)); err != ErrInvalidPrice {
		t.Errorf("Expected ErrInvalidPrice, got %v", err)
	}
}

func TestOrderQuantityMutation(t *testing.T) {
	order, err := NewLimitOrder("q1", Buy, fpdecimal.FromFloat(10.0), fpdecimal.FromFloat(100.0))
	if err != nil {
		t.Fatalf("NewLimitOrder returned error: %v", err)
	}

	order.DecreaseQuantity(fpdecimal.FromFloat(3.0))
	if !order.Quantity().Equal(fpdecimal.FromFloat(7.0)) {
		t.Errorf("Expected quantity 7 after decrease, got %v", order.Quantity())
	}

	order.SetQuantity(fpdecimal.FromFloat(2.0))
	if !order.Quantity().Equal(fpdecimal.FromFloat(2.0)) {
		t.Errorf("Expected quantity 2 after set, got %v", order.Quantity())
	}

	if !order.OriginalQty().Equal(fpdecimal.FromFloat(10.0)) {
		t.Errorf("Expected original quantity to stay 10, got %v", order.OriginalQty())
	}
}

func TestOrderMarshalJSON(t *testing.T) {
	order, err := NewLimitOrder("j1", Sell, fpdecimal.FromFloat(1.5), fpdecimal.FromFloat(99.5))
	if err != nil {
		t.Fatalf("NewLimitOrder returned error: %v", err)
	}

	data, err := order.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if decoded["id"] != "j1" {
		t.Errorf("Expected id j1, got %v", decoded["id"])
	}

	if decoded["orderType"] != string(TypeLimit) {
		t.Errorf("Expected orderType LIMIT, got %v", decoded["orderType"])
	}
}
