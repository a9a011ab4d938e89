// Package report renders a self-contained HTML snapshot of the full
// analysis: win-rate curves, conditional win rates, deal-size
// distributions and a Monte Carlo revenue simulation per product. The
// page carries its data and plotting script inline so it can be shared
// as a single file.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pipeline-lab/internal/config"
	"pipeline-lab/internal/pipeline"
	"pipeline-lab/internal/simulation"
	"pipeline-lab/internal/stats"
	"pipeline-lab/internal/survival"
)

// Builder assembles report data from the configured datasets.
type Builder struct {
	cfg   *config.AppConfig
	store *pipeline.Store
}

// Data is the payload embedded into the page as JSON.
type Data struct {
	GeneratedAt string           `json:"generated_at"`
	Unit        string           `json:"unit"`
	LookAhead   int              `json:"look_ahead"`
	Products    []ProductSection `json:"products"`
}

// ProductSection groups every series computed for one product line.
type ProductSection struct {
	Product     string                      `json:"product"`
	WinRate     []survival.WinRatePoint     `json:"win_rate,omitempty"`
	Conditional []survival.ConditionalPoint `json:"conditional,omitempty"`
	DealCount   int                         `json:"deal_count,omitempty"`
	DealMean    float64                     `json:"deal_mean,omitempty"`
	DealMedian  float64                     `json:"deal_median,omitempty"`
	Deals       *simulation.Histogram       `json:"deal_histogram,omitempty"`
	Simulated   *simulation.Histogram       `json:"simulated_histogram,omitempty"`
	SimSummary  *simulation.Result          `json:"simulation,omitempty"`
}

// SimulationParams control the per-product revenue simulation embedded
// in the report.
type SimulationParams struct {
	Deals   int
	Futures int
	Seed    int64
}

func NewBuilder(cfg *config.AppConfig) *Builder {
	return &Builder{cfg: cfg, store: pipeline.NewStore(cfg.MaxRows)}
}

// Build computes every product section. Products are independent, so
// they are assembled concurrently.
func (b *Builder) Build(sim SimulationParams) (*Data, error) {
	opps, err := b.store.Opportunities(b.cfg.SurvivalFile)
	if err != nil {
		return nil, err
	}
	values, err := b.store.DealValues(b.cfg.DealsFile)
	if err != nil {
		return nil, err
	}

	// Union of products across both tables, survival products first.
	seen := make(map[string]bool)
	var products []string
	for _, p := range opps.Products() {
		products = append(products, p)
		seen[p] = true
	}
	for _, p := range values.Products() {
		if !seen[p] {
			products = append(products, p)
		}
	}

	now := time.Now()
	sections := make([]ProductSection, len(products))

	var g errgroup.Group
	for i, product := range products {
		g.Go(func() error {
			section, err := b.buildSection(product, opps[product], values[product], now, sim)
			if err != nil {
				return fmt.Errorf("product %q: %w", product, err)
			}
			sections[i] = section
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Data{
		GeneratedAt: now.Format(time.RFC3339),
		Unit:        string(b.cfg.TimeUnit),
		LookAhead:   b.cfg.LookAhead,
		Products:    sections,
	}, nil
}

func (b *Builder) buildSection(product string, opps []pipeline.Opportunity, values []float64, now time.Time, sim SimulationParams) (ProductSection, error) {
	section := ProductSection{Product: product}

	if len(opps) > 0 {
		records, err := survival.DurationsFromOpportunities(opps, now, b.cfg.TimeUnit)
		if err != nil {
			return section, err
		}
		curve, err := survival.Fit(records, survival.Options{Confidence: b.cfg.Confidence})
		if err != nil {
			return section, err
		}
		section.WinRate = curve.WinRateSeries()

		cond, err := survival.ConditionalWinRates(curve.Survival(), b.cfg.LookAhead)
		if err != nil {
			return section, err
		}
		section.Conditional = cond
	}

	if len(values) > 0 {
		section.DealCount = len(values)
		section.DealMean = stats.Round1(stats.Mean(values))
		section.DealMedian = stats.Round1(stats.Median(values))
		section.Deals = simulation.NewHistogram(values, 50)

		engine := simulation.NewSeededEngine(values, sim.Seed)
		engine.SetMaxFutures(b.cfg.MaxFutures)
		result, err := engine.Run(sim.Deals, sim.Futures)
		if err != nil {
			return section, err
		}
		section.Simulated = simulation.NewHistogram(result.Totals, 50)
		result.Totals = nil // the histogram is enough for the page
		section.SimSummary = &result
	}

	return section, nil
}

// Render writes the report to outPath and optionally opens it in the
// default browser.
func (b *Builder) Render(data *Data, outPath string, open bool) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	script, err := minifyScript()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, map[string]any{
		"Payload": template.JS(payload),
		"Script":  template.JS(script),
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Msg("Report written")

	if open {
		if err := browser.OpenFile(outPath); err != nil {
			log.Warn().Err(err).Msg("Could not open browser, report is on disk")
		}
	}
	return nil
}

func minifyScript() (string, error) {
	result := api.Transform(plotScript, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("minify plot script: %s", result.Errors[0].Text)
	}
	return string(result.Code), nil
}
