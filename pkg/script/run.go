package script

import (
	"fmt"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/erain9/limitbook/pkg/core"
)

// StepResult records the outcome of one step. An empty Failures slice
// means the step passed.
type StepResult struct {
	Index    int
	Desc     string
	Failures []string
}

// Passed reports whether the step met all its expectations
func (r *StepResult) Passed() bool {
	return len(r.Failures) == 0
}

// Report is the outcome of a whole script run
type Report struct {
	Name  string
	Steps []StepResult
}

// Passed reports whether every step passed
func (r *Report) Passed() bool {
	for i := range r.Steps {
		if !r.Steps[i].Passed() {
			return false
		}
	}
	return true
}

// Run drives a fresh engine through the script and checks each step's
// expectations.
func Run(s *Script) *Report {
	engine := core.NewEngine()
	report := &Report{Name: s.Name, Steps: make([]StepResult, 0, len(s.Steps))}

	for i, step := range s.Steps {
		result := runStep(engine, i+1, &step)
		report.Steps = append(report.Steps, result)
	}

	return report
}

func runStep(engine *core.Engine, index int, step *Step) StepResult {
	result := StepResult{Index: index}

	var trades []core.Trade
	var canceled *bool

	switch {
	case step.Limit != nil:
		result.Desc = fmt.Sprintf("limit %s", step.Limit.ID)
		order, err := buildLimit(step.Limit)
		if err != nil {
			result.Failures = append(result.Failures, err.Error())
			return result
		}
		trades = engine.Process(order)

	case step.Market != nil:
		result.Desc = fmt.Sprintf("market %s", step.Market.ID)
		order, err := buildMarket(step.Market)
		if err != nil {
			result.Failures = append(result.Failures, err.Error())
			return result
		}
		trades = engine.Process(order)

	case step.Cancel != "":
		result.Desc = fmt.Sprintf("cancel %s", step.Cancel)
		ok := engine.CancelOrder(step.Cancel)
		canceled = &ok
	}

	if step.Expect != nil {
		result.Failures = append(result.Failures, checkExpect(engine, step.Expect, trades, canceled)...)
	}

	return result
}

func buildLimit(spec *OrderSpec) (*core.Order, error) {
	side, err := parseSide(spec.Side)
	if err != nil {
		return nil, err
	}
	qty, err := parseDecimal("qty", spec.Qty)
	if err != nil {
		return nil, err
	}
	price, err := parseDecimal("price", spec.Price)
	if err != nil {
		return nil, err
	}
	return core.NewLimitOrder(spec.ID, side, qty, price)
}

func buildMarket(spec *OrderSpec) (*core.Order, error) {
	side, err := parseSide(spec.Side)
	if err != nil {
		return nil, err
	}
	qty, err := parseDecimal("qty", spec.Qty)
	if err != nil {
		return nil, err
	}
	return core.NewMarketOrder(spec.ID, side, qty)
}

func checkExpect(engine *core.Engine, expect *Expect, trades []core.Trade, canceled *bool) []string {
	var failures []string

	if expect.Trades != nil {
		failures = append(failures, checkTrades(expect.Trades, trades)...)
	}

	if expect.Canceled != nil {
		if canceled == nil {
			failures = append(failures, "canceled expectation on a non-cancel step")
		} else if *canceled != *expect.Canceled {
			failures = append(failures, fmt.Sprintf("canceled = %v, want %v", *canceled, *expect.Canceled))
		}
	}

	if expect.BestBid != nil {
		failures = append(failures, checkBest("best_bid", *expect.BestBid, engine.BestBid)...)
	}
	if expect.BestAsk != nil {
		failures = append(failures, checkBest("best_ask", *expect.BestAsk, engine.BestAsk)...)
	}

	if expect.BidCount != nil && engine.Book().BidCount() != *expect.BidCount {
		failures = append(failures, fmt.Sprintf("bid_count = %d, want %d", engine.Book().BidCount(), *expect.BidCount))
	}
	if expect.AskCount != nil && engine.Book().AskCount() != *expect.AskCount {
		failures = append(failures, fmt.Sprintf("ask_count = %d, want %d", engine.Book().AskCount(), *expect.AskCount))
	}

	return failures
}

func checkTrades(want []TradeSpec, got []core.Trade) []string {
	if len(got) != len(want) {
		return []string{fmt.Sprintf("got %d trades, want %d", len(got), len(want))}
	}

	var failures []string
	for i, spec := range want {
		trade := got[i]
		if trade.BuyOrderID != spec.Buy {
			failures = append(failures, fmt.Sprintf("trade %d: buy = %s, want %s", i+1, trade.BuyOrderID, spec.Buy))
		}
		if trade.SellOrderID != spec.Sell {
			failures = append(failures, fmt.Sprintf("trade %d: sell = %s, want %s", i+1, trade.SellOrderID, spec.Sell))
		}
		if price, err := parseDecimal("price", spec.Price); err != nil {
			failures = append(failures, fmt.Sprintf("trade %d: %v", i+1, err))
		} else if !trade.Price.Equal(price) {
			failures = append(failures, fmt.Sprintf("trade %d: price = %s, want %s", i+1, trade.Price, price))
		}
		if qty, err := parseDecimal("qty", spec.Qty); err != nil {
			failures = append(failures, fmt.Sprintf("trade %d: %v", i+1, err))
		} else if !trade.Quantity.Equal(qty) {
			failures = append(failures, fmt.Sprintf("trade %d: qty = %s, want %s", i+1, trade.Quantity, qty))
		}
	}
	return failures
}

func checkBest(field, want string, get func() (fpdecimal.Decimal, bool)) []string {
	price, ok := get()

	if want == "" {
		if ok {
			return []string{fmt.Sprintf("%s = %s, want empty side", field, price)}
		}
		return nil
	}

	wantPrice, err := parseDecimal(field, want)
	if err != nil {
		return []string{err.Error()}
	}
	if !ok {
		return []string{fmt.Sprintf("%s: side is empty, want %s", field, wantPrice)}
	}
	if !price.Equal(wantPrice) {
		return []string{fmt.Sprintf("%s = %s, want %s", field, price, wantPrice)}
	}
	return nil
}
