// Package script replays YAML order scenarios against a matching engine
// and checks the trades and book state they are expected to produce.
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
	"gopkg.in/yaml.v3"

	"github.com/erain9/limitbook/pkg/core"
)

// Script is one named scenario: an ordered list of steps
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step submits exactly one of a limit order, a market order, or a
// cancel, and optionally asserts on the outcome.
type Step struct {
	Limit  *OrderSpec `yaml:"limit,omitempty"`
	Market *OrderSpec `yaml:"market,omitempty"`
	Cancel string     `yaml:"cancel,omitempty"`
	Expect *Expect    `yaml:"expect,omitempty"`
}

// OrderSpec describes an order to submit. Price is ignored for market
// orders.
type OrderSpec struct {
	ID    string `yaml:"id"`
	Side  string `yaml:"side"`
	Qty   string `yaml:"qty"`
	Price string `yaml:"price,omitempty"`
}

// Expect lists the assertions checked after the step runs. Omitted
// fields are not checked; an empty string for best_bid/best_ask asserts
// that side is empty.
type Expect struct {
	Trades   []TradeSpec `yaml:"trades"`
	Canceled *bool       `yaml:"canceled,omitempty"`
	BestBid  *string     `yaml:"best_bid,omitempty"`
	BestAsk  *string     `yaml:"best_ask,omitempty"`
	BidCount *int        `yaml:"bid_count,omitempty"`
	AskCount *int        `yaml:"ask_count,omitempty"`
}

// TradeSpec is one expected trade
type TradeSpec struct {
	Buy   string `yaml:"buy"`
	Sell  string `yaml:"sell"`
	Price string `yaml:"price"`
	Qty   string `yaml:"qty"`
}

// Load reads and parses a scenario file
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return Parse(data)
}

// Parse parses scenario YAML
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script %q has no steps", s.Name)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return &s, nil
}

func (s *Step) validate() error {
	actions := 0
	if s.Limit != nil {
		actions++
	}
	if s.Market != nil {
		actions++
	}
	if s.Cancel != "" {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("exactly one of limit, market, or cancel is required")
	}
	return nil
}

func parseSide(s string) (core.Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return core.Buy, nil
	case "sell":
		return core.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

func parseDecimal(field, s string) (fpdecimal.Decimal, error) {
	d, err := fpdecimal.FromString(s)
	if err != nil {
		return fpdecimal.Zero, fmt.Errorf("bad %s %q: %w", field, s, err)
	}
	return d, nil
}
