// Package engine generates realistic-but-fake datasets for ACME Inc.,
// a B2B company selling a few product lines: dated sales opportunities
// with Weibull-distributed closing behaviour, and skewed historical
// deal sizes. The output matches the CSV/JSON shapes the analysis
// loaders accept.
package engine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"pipeline-lab/internal/pipeline"
)

type GeneratorConfig struct {
	Products      int
	Opportunities int // per product
	Deals         int // historical deal sizes per product
	Seed          int64
	Now           time.Time
}

// productProfile shapes one product line. Later products close slower
// and carry fatter deal-size tails, so the sample data tells the story
// the analysis is built to expose.
type productProfile struct {
	weibullK      float64
	weibullLambda float64 // weeks to close
	sizeMu        float64 // lognormal location
	sizeSigma     float64 // lognormal scale; bigger = more skew
}

func profile(i int) productProfile {
	return productProfile{
		weibullK:      1.6 - 0.3*float64(i%3),
		weibullLambda: 10 + 6*float64(i%3),
		sizeMu:        3.6 + 0.2*float64(i%3),
		sizeSigma:     0.35 + 0.3*float64(i%3),
	}
}

// Generate builds both tables. progress, if non-nil, is called once per
// generated row.
func Generate(cfg GeneratorConfig, progress func()) (pipeline.OpportunityTable, pipeline.ValueTable) {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	opps := make(pipeline.OpportunityTable)
	values := make(pipeline.ValueTable)

	for p := 0; p < cfg.Products; p++ {
		product := fmt.Sprintf("%d", p)
		prof := profile(p)

		for i := 0; i < cfg.Opportunities; i++ {
			// Openings spread uniformly over the past year.
			ageDays := rng.Float64() * 365
			opened := cfg.Now.AddDate(0, 0, -int(ageDays))

			opp := pipeline.Opportunity{Product: product, OpenedAt: opened}

			// Not every conversation can close; the rest would censor
			// forever and keep the curve honest about that.
			if rng.Float64() < 0.75 {
				closeWeeks := weibullSample(rng, prof.weibullK, prof.weibullLambda)
				won := opened.AddDate(0, 0, int(closeWeeks*7))
				if won.Before(cfg.Now) {
					opp.WonAt = &won
				}
			}

			opps[product] = append(opps[product], opp)
			if progress != nil {
				progress()
			}
		}

		for i := 0; i < cfg.Deals; i++ {
			size := math.Exp(prof.sizeMu + prof.sizeSigma*rng.NormFloat64())
			values[product] = append(values[product], math.Round(size*10)/10)
			if progress != nil {
				progress()
			}
		}
	}

	return opps, values
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes survival_data.csv and deals_data.json into outDir.
func Save(outDir string, opps pipeline.OpportunityTable, values pipeline.ValueTable) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(outDir, "survival_data.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ProductId", "SQLDate", "WonDate"}); err != nil {
		return err
	}
	for _, product := range opps.Products() {
		for _, opp := range opps[product] {
			won := ""
			if opp.WonAt != nil {
				won = opp.WonAt.Format("1/2/2006")
			}
			row := []string{product, opp.OpenedAt.Format("1/2/2006"), won}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fj, err := os.Create(filepath.Join(outDir, "deals_data.json"))
	if err != nil {
		return err
	}
	defer fj.Close()

	enc := json.NewEncoder(fj)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}
