package main

import (
	"fmt"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/erain9/limitbook/pkg/core"
)

func main() {
	engine := core.NewEngine()

	// Rest a sell limit order.
	sellOrder, err := core.NewLimitOrder("sell_1", core.Sell, fpdecimal.FromFloat(10.0), fpdecimal.FromFloat(100.0))
	if err != nil {
		panic(err)
	}

	trades := engine.Process(sellOrder)
	fmt.Printf("Created sell order: %s (trades: %d)\n", sellOrder.ID(), len(trades))

	// Cross it with a smaller buy.
	buyOrder, err := core.NewLimitOrder("buy_1", core.Buy, fpdecimal.FromFloat(4.0), fpdecimal.FromFloat(100.0))
	if err != nil {
		panic(err)
	}

	trades = engine.Process(buyOrder)
	for _, trade := range trades {
		fmt.Printf("Trade executed: buy=%s sell=%s price=%s qty=%s\n",
			trade.BuyOrderID, trade.SellOrderID, trade.Price, trade.Quantity)
	}

	// The sell order keeps its slot with the remainder.
	if front, ok := engine.Book().PeekBestAsk(); ok {
		fmt.Printf("Best ask after fill: %s remaining %s @ %s\n", front.ID(), front.Quantity(), front.Price())
	}

	// A market buy consumes the rest.
	marketOrder, err := core.NewMarketOrder("buy_2", core.Buy, fpdecimal.FromFloat(6.0))
	if err != nil {
		panic(err)
	}

	trades = engine.Process(marketOrder)
	fmt.Printf("Market order filled in %d trade(s)\n", len(trades))
	fmt.Printf("Book empty: bids=%v asks=%v\n", !engine.HasBids(), !engine.HasAsks())

	fmt.Println("\nFinal book:")
	fmt.Print(engine.Book().String())
}
