package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"pipeline-lab/internal/pipeline"
	"pipeline-lab/internal/stats"
)

// DefaultMaxFutures caps the number of simulated futures per run unless
// the caller configures a different ceiling.
const DefaultMaxFutures = 200000

// Engine resamples an empirical deal-size distribution to build the
// spread of possible future revenues. Each engine owns its random
// source; nothing is shared across runs.
type Engine struct {
	values     []float64
	rng        *rand.Rand
	maxFutures int
}

// Result holds the simulated totals and their summary statistics.
type Result struct {
	Totals  []float64 `json:"-"`
	Futures int       `json:"futures"`
	Deals   int       `json:"deals_per_future"`
	Mean    float64   `json:"mean"`
	Median  float64   `json:"median"`
	StdDev  float64   `json:"std_dev"`
	P10     float64   `json:"percentile_10"`
	P90     float64   `json:"percentile_90"`
}

// NewEngine creates an engine seeded from the clock.
func NewEngine(values []float64) *Engine {
	return NewSeededEngine(values, time.Now().UnixNano())
}

// NewSeededEngine creates an engine with an explicit seed so runs are
// reproducible in tests.
func NewSeededEngine(values []float64, seed int64) *Engine {
	return &Engine{
		values:     values,
		rng:        rand.New(rand.NewSource(seed)),
		maxFutures: DefaultMaxFutures,
	}
}

// SetMaxFutures overrides the repetition ceiling. Zero or negative
// restores the default.
func (e *Engine) SetMaxFutures(max int) {
	if max <= 0 {
		max = DefaultMaxFutures
	}
	e.maxFutures = max
}

// Run simulates futures possible outcomes, each the sum of deals draws
// (uniform, with replacement) from the historical distribution.
func (e *Engine) Run(deals, futures int) (Result, error) {
	if len(e.values) == 0 {
		return Result{}, fmt.Errorf("%w: empty value distribution", pipeline.ErrInvalidInput)
	}
	if deals <= 0 {
		return Result{}, fmt.Errorf("%w: deals per future must be positive, got %d", pipeline.ErrInvalidInput, deals)
	}
	if futures <= 0 {
		return Result{}, fmt.Errorf("%w: futures must be positive, got %d", pipeline.ErrInvalidInput, futures)
	}
	if futures > e.maxFutures {
		return Result{}, fmt.Errorf("%w: %d futures exceeds cap of %d", pipeline.ErrResourceLimit, futures, e.maxFutures)
	}

	totals := make([]float64, futures)
	for i := 0; i < futures; i++ {
		sum := 0.0
		for j := 0; j < deals; j++ {
			sum += e.values[e.rng.Intn(len(e.values))]
		}
		totals[i] = sum
	}

	return Result{
		Totals:  totals,
		Futures: futures,
		Deals:   deals,
		Mean:    stats.Mean(totals),
		Median:  stats.Median(totals),
		StdDev:  stats.StdDev(totals),
		P10:     stats.Percentile(totals, 0.10),
		P90:     stats.Percentile(totals, 0.90),
	}, nil
}
