package mcp

import (
	"fmt"
	"time"

	"pipeline-lab/internal/pipeline"
	"pipeline-lab/internal/simulation"
	"pipeline-lab/internal/stats"
	"pipeline-lab/internal/survival"
)

// CurveInput selects a survival-domain dataset and estimator settings.
type CurveInput struct {
	File       string  `json:"file,omitempty"`
	Product    string  `json:"product,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Band       string  `json:"band,omitempty"`
}

// ConditionalInput extends CurveInput with the look-ahead window.
type ConditionalInput struct {
	File      string `json:"file,omitempty"`
	Product   string `json:"product,omitempty"`
	Unit      string `json:"unit,omitempty"`
	LookAhead *int   `json:"look_ahead,omitempty"`
}

// OverviewInput selects a distribution-domain dataset.
type OverviewInput struct {
	File string `json:"file,omitempty"`
}

// HistogramInput selects one product's deal sizes for binning.
type HistogramInput struct {
	File    string `json:"file,omitempty"`
	Product string `json:"product"`
	Bins    int    `json:"bins,omitempty"`
}

// SimulateInput parameterizes a Monte Carlo revenue simulation.
type SimulateInput struct {
	File    string `json:"file,omitempty"`
	Product string `json:"product"`
	Deals   int    `json:"deals_to_close"`
	Futures int    `json:"futures,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
	Bins    int    `json:"bins,omitempty"`
}

// ListInput selects the datasets to enumerate.
type ListInput struct {
	SurvivalFile string `json:"survival_file,omitempty"`
	DealsFile    string `json:"deals_file,omitempty"`
}

// ProductCurve is the win-rate view of one cohort's survival curve.
type ProductCurve struct {
	Product    string                  `json:"product"`
	Unit       string                  `json:"unit"`
	Confidence float64                 `json:"confidence"`
	Band       string                  `json:"band"`
	Events     int                     `json:"won"`
	Censored   int                     `json:"still_open"`
	WinRate    []survival.WinRatePoint `json:"win_rate"`
	Survival   []survival.CurvePoint   `json:"survival"`
}

// ProductConditional is the conditional win-rate series for one cohort.
type ProductConditional struct {
	Product   string                      `json:"product"`
	Unit      string                      `json:"unit"`
	LookAhead int                         `json:"look_ahead"`
	Points    []survival.ConditionalPoint `json:"points"`
}

// ProductOverview summarizes one product's deal-size distribution.
type ProductOverview struct {
	Product        string  `json:"product"`
	Count          int     `json:"count"`
	Total          float64 `json:"total"`
	Mean           float64 `json:"mean"`
	Median         float64 `json:"median"`
	StdDev         float64 `json:"std_dev"`
	MeanOverMedian float64 `json:"mean_over_median"`
	Interpretation string  `json:"interpretation,omitempty"`
}

// SimulationPayload is the simulation result plus a plottable histogram
// of the simulated totals.
type SimulationPayload struct {
	Product   string                `json:"product"`
	Result    simulation.Result     `json:"summary"`
	Histogram *simulation.Histogram `json:"histogram"`
}

func (s *Server) listProducts(in ListInput) (map[string][]string, error) {
	out := make(map[string][]string)

	opps, err := s.store.Opportunities(s.survivalPath(in.SurvivalFile))
	if err != nil {
		return nil, err
	}
	out["survival"] = opps.Products()

	deals, err := s.store.DealValues(s.dealsPath(in.DealsFile))
	if err != nil {
		return nil, err
	}
	out["deals"] = deals.Products()

	return out, nil
}

func (s *Server) winRateCurves(in CurveInput) ([]ProductCurve, error) {
	table, err := s.store.Opportunities(s.survivalPath(in.File))
	if err != nil {
		return nil, err
	}

	unit := s.timeUnit(in.Unit)
	confidence := in.Confidence
	if confidence == 0 {
		confidence = s.cfg.Confidence
	}
	band := survival.BandByName(in.Band)
	now := time.Now()

	var curves []ProductCurve
	for _, product := range s.selectProducts(table, in.Product) {
		opps, ok := table[product]
		if !ok {
			return nil, fmt.Errorf("%w: product %q not in dataset", pipeline.ErrEmptyCohort, product)
		}

		records, err := survival.DurationsFromOpportunities(opps, now, unit)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", product, err)
		}
		curve, err := survival.Fit(records, survival.Options{Confidence: confidence, Band: band})
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", product, err)
		}

		curves = append(curves, ProductCurve{
			Product:    product,
			Unit:       string(unit),
			Confidence: confidence,
			Band:       band.Name(),
			Events:     curve.Events,
			Censored:   curve.Censored,
			WinRate:    curve.WinRateSeries(),
			Survival:   curve.Points,
		})
	}

	return curves, nil
}

func (s *Server) conditionalWinRates(in ConditionalInput) ([]ProductConditional, error) {
	lookAhead := s.cfg.LookAhead
	if in.LookAhead != nil {
		lookAhead = *in.LookAhead
	}

	curves, err := s.winRateCurves(CurveInput{File: in.File, Product: in.Product, Unit: in.Unit})
	if err != nil {
		return nil, err
	}

	out := make([]ProductConditional, 0, len(curves))
	for _, c := range curves {
		surv := make([]float64, len(c.Survival))
		for i, p := range c.Survival {
			surv[i] = p.Survival
		}

		points, err := survival.ConditionalWinRates(surv, lookAhead)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", c.Product, err)
		}
		out = append(out, ProductConditional{
			Product:   c.Product,
			Unit:      c.Unit,
			LookAhead: lookAhead,
			Points:    points,
		})
	}

	return out, nil
}

func (s *Server) datasetOverview(in OverviewInput) ([]ProductOverview, error) {
	table, err := s.store.DealValues(s.dealsPath(in.File))
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: dataset has no products", pipeline.ErrEmptyCohort)
	}

	var out []ProductOverview
	for _, product := range table.Products() {
		values := table[product]
		mean := stats.Mean(values)
		median := stats.Median(values)

		o := ProductOverview{
			Product: product,
			Count:   len(values),
			Mean:    stats.Round1(mean),
			Median:  stats.Round1(median),
			StdDev:  stats.Round1(stats.StdDev(values)),
		}
		for _, v := range values {
			o.Total += v
		}
		o.Total = stats.Round1(o.Total)

		if median > 0 {
			o.MeanOverMedian = stats.Round1(mean / median)
		}
		if o.MeanOverMedian >= 1.5 {
			o.Interpretation = "Mean and median diverge strongly: revenues lean on few large outliers, and the average deal size describes no typical customer."
		}

		out = append(out, o)
	}

	return out, nil
}

func (s *Server) dealHistogram(in HistogramInput) (*simulation.Histogram, error) {
	values, err := s.productValues(in.File, in.Product)
	if err != nil {
		return nil, err
	}
	return simulation.NewHistogram(values, in.Bins), nil
}

func (s *Server) simulateRevenue(in SimulateInput) (*SimulationPayload, error) {
	values, err := s.productValues(in.File, in.Product)
	if err != nil {
		return nil, err
	}

	futures := in.Futures
	if futures == 0 {
		futures = 10000
	}

	var engine *simulation.Engine
	if in.Seed != nil {
		engine = simulation.NewSeededEngine(values, *in.Seed)
	} else {
		engine = simulation.NewEngine(values)
	}
	engine.SetMaxFutures(s.cfg.MaxFutures)

	result, err := engine.Run(in.Deals, futures)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", in.Product, err)
	}

	return &SimulationPayload{
		Product:   in.Product,
		Result:    result,
		Histogram: simulation.NewHistogram(result.Totals, in.Bins),
	}, nil
}

func (s *Server) productValues(file, product string) ([]float64, error) {
	table, err := s.store.DealValues(s.dealsPath(file))
	if err != nil {
		return nil, err
	}
	values, ok := table[product]
	if !ok || len(values) == 0 {
		return nil, fmt.Errorf("%w: product %q has no deal values", pipeline.ErrEmptyCohort, product)
	}
	return values, nil
}

func (s *Server) selectProducts(table pipeline.OpportunityTable, product string) []string {
	if product != "" {
		return []string{product}
	}
	return table.Products()
}

func (s *Server) timeUnit(unit string) survival.TimeUnit {
	if unit == "" {
		return s.cfg.TimeUnit
	}
	return survival.TimeUnit(unit)
}
