package bench

import (
	"fmt"
	"math/rand"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog"

	"github.com/erain9/limitbook/pkg/core"
)

// histogram bounds: 1ns to 10s, three significant figures
const (
	histMin     = 1
	histMax     = int64(10 * time.Second)
	histSigFigs = 3
)

// Result holds the latency distribution of one scenario
type Result struct {
	Name    string
	Hist    *hdrhistogram.Histogram
	Elapsed time.Duration
	Ops     int
}

// Runner drives the matching engine through the configured scenarios,
// recording per-operation latency.
type Runner struct {
	cfg    *Config
	rng    *rand.Rand
	runID  string
	logger zerolog.Logger
}

// NewRunner creates a Runner for the given config
func NewRunner(cfg *Config, logger zerolog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		runID:  uuid.NewString()[:8],
		logger: logger,
	}
}

// RunID returns the identifier stamped on this run's order ids
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes the configured scenarios in order
func (r *Runner) Run() ([]Result, error) {
	results := make([]Result, 0, len(r.cfg.Scenarios))

	for _, name := range r.cfg.Scenarios {
		r.logger.Info().Str("scenario", name).Int("operations", r.cfg.Operations).Msg("running scenario")

		var result Result
		var err error
		switch name {
		case ScenarioAdd:
			result, err = r.runAdd()
		case ScenarioMatch:
			result, err = r.runMatch()
		case ScenarioCancel:
			result, err = r.runCancel()
		case ScenarioSweep:
			result, err = r.runSweep()
		case ScenarioQuery:
			result, err = r.runQuery()
		default:
			err = fmt.Errorf("unknown scenario %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", name, err)
		}

		results = append(results, result)
	}

	return results, nil
}

func (r *Runner) newResult(name string) Result {
	return Result{
		Name: name,
		Hist: hdrhistogram.New(histMin, histMax, histSigFigs),
	}
}

// bidPrice and askPrice spread orders across the configured number of
// levels while keeping every bid strictly below every ask and every
// price strictly positive, whatever PriceLevels is set to.
func (r *Runner) bidPrice(i int) fpdecimal.Decimal {
	return fpdecimal.FromFloat(1.0 + float64(i%r.cfg.PriceLevels))
}

func (r *Runner) askPrice(i int) fpdecimal.Decimal {
	return fpdecimal.FromFloat(1.0 + float64(r.cfg.PriceLevels) + float64(i%r.cfg.PriceLevels))
}

// runAdd times non-crossing limit order placement, alternating sides so
// the book grows on both.
func (r *Runner) runAdd() (Result, error) {
	result := r.newResult(ScenarioAdd)
	engine := core.NewEngine()

	start := time.Now()
	for i := 0; i < r.cfg.Operations; i++ {
		side := core.Buy
		price := r.bidPrice(i)
		if i%2 == 1 {
			side = core.Sell
			price = r.askPrice(i)
		}

		order, err := core.NewLimitOrder(fmt.Sprintf("%s-add-%d", r.runID, i), side, fpdecimal.FromFloat(10.0), price)
		if err != nil {
			return result, fmt.Errorf("order %d: %w", i, err)
		}

		opStart := time.Now()
		engine.Process(order)
		r.record(result.Hist, opStart)
	}

	result.Elapsed = time.Since(start)
	result.Ops = r.cfg.Operations
	return result, nil
}

// runMatch times the crossing path: each timed operation is one buy that
// fully consumes a freshly rested sell.
func (r *Runner) runMatch() (Result, error) {
	result := r.newResult(ScenarioMatch)
	engine := core.NewEngine()

	start := time.Now()
	for i := 0; i < r.cfg.Operations; i++ {
		price := r.askPrice(i)
		sell, err := core.NewLimitOrder(fmt.Sprintf("%s-ms-%d", r.runID, i), core.Sell, fpdecimal.FromFloat(10.0), price)
		if err != nil {
			return result, fmt.Errorf("sell %d: %w", i, err)
		}
		engine.Process(sell)

		buy, err := core.NewLimitOrder(fmt.Sprintf("%s-mb-%d", r.runID, i), core.Buy, fpdecimal.FromFloat(10.0), price)
		if err != nil {
			return result, fmt.Errorf("buy %d: %w", i, err)
		}

		opStart := time.Now()
		engine.Process(buy)
		r.record(result.Hist, opStart)
	}

	result.Elapsed = time.Since(start)
	result.Ops = r.cfg.Operations
	return result, nil
}

// runCancel prefills the book, then times id-based cancellation in a
// shuffled order.
func (r *Runner) runCancel() (Result, error) {
	result := r.newResult(ScenarioCancel)
	engine := core.NewEngine()

	ids := make([]string, r.cfg.Operations)
	for i := 0; i < r.cfg.Operations; i++ {
		id := fmt.Sprintf("%s-c-%d", r.runID, i)
		order, err := core.NewLimitOrder(id, core.Buy, fpdecimal.FromFloat(1.0), r.bidPrice(i))
		if err != nil {
			return result, fmt.Errorf("order %d: %w", i, err)
		}
		engine.Process(order)
		ids[i] = id
	}
	r.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	start := time.Now()
	for _, id := range ids {
		opStart := time.Now()
		engine.CancelOrder(id)
		r.record(result.Hist, opStart)
	}

	result.Elapsed = time.Since(start)
	result.Ops = r.cfg.Operations
	return result, nil
}

// runSweep times market orders that cross several price levels at once
func (r *Runner) runSweep() (Result, error) {
	result := r.newResult(ScenarioSweep)
	engine := core.NewEngine()

	start := time.Now()
	for i := 0; i < r.cfg.Operations; i++ {
		for j := 0; j < r.cfg.SweepLevels; j++ {
			id := fmt.Sprintf("%s-sw-%d-%d", r.runID, i, j)
			sell, err := core.NewLimitOrder(id, core.Sell, fpdecimal.FromFloat(5.0), r.askPrice(j))
			if err != nil {
				return result, fmt.Errorf("sell %d-%d: %w", i, j, err)
			}
			engine.Process(sell)
		}

		qty := fpdecimal.FromFloat(5.0*float64(r.cfg.SweepLevels) - 3.0)
		market, err := core.NewMarketOrder(fmt.Sprintf("%s-swm-%d", r.runID, i), core.Buy, qty)
		if err != nil {
			return result, fmt.Errorf("market %d: %w", i, err)
		}

		opStart := time.Now()
		engine.Process(market)
		r.record(result.Hist, opStart)

		// Clear the partially filled tail level for the next iteration.
		engine.CancelOrder(fmt.Sprintf("%s-sw-%d-%d", r.runID, i, r.cfg.SweepLevels-1))
	}

	result.Elapsed = time.Since(start)
	result.Ops = r.cfg.Operations
	return result, nil
}

// runQuery times the non-mutating best price accessors over a populated book
func (r *Runner) runQuery() (Result, error) {
	result := r.newResult(ScenarioQuery)
	engine := core.NewEngine()

	for i := 0; i < r.cfg.PriceLevels; i++ {
		buy, err := core.NewLimitOrder(fmt.Sprintf("%s-qb-%d", r.runID, i), core.Buy, fpdecimal.FromFloat(1.0), r.bidPrice(i))
		if err != nil {
			return result, fmt.Errorf("buy %d: %w", i, err)
		}
		sell, err := core.NewLimitOrder(fmt.Sprintf("%s-qa-%d", r.runID, i), core.Sell, fpdecimal.FromFloat(1.0), r.askPrice(i))
		if err != nil {
			return result, fmt.Errorf("sell %d: %w", i, err)
		}
		engine.Process(buy)
		engine.Process(sell)
	}

	start := time.Now()
	for i := 0; i < r.cfg.Operations; i++ {
		opStart := time.Now()
		engine.BestBid()
		engine.BestAsk()
		r.record(result.Hist, opStart)
	}

	result.Elapsed = time.Since(start)
	result.Ops = r.cfg.Operations
	return result, nil
}

func (r *Runner) record(hist *hdrhistogram.Histogram, opStart time.Time) {
	ns := time.Since(opStart).Nanoseconds()
	if ns < histMin {
		ns = histMin
	}
	if err := hist.RecordValue(ns); err != nil {
		r.logger.Warn().Err(err).Msg("failed to record latency sample")
	}
}
