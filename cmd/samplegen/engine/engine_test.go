package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pipeline-lab/internal/pipeline"
)

func testConfig() GeneratorConfig {
	return GeneratorConfig{
		Products:      3,
		Opportunities: 50,
		Deals:         100,
		Seed:          42,
		Now:           time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, av := Generate(testConfig(), nil)
	b, bv := Generate(testConfig(), nil)

	for _, product := range a.Products() {
		if len(a[product]) != len(b[product]) {
			t.Fatalf("product %s: %d vs %d opportunities", product, len(a[product]), len(b[product]))
		}
		for i := range a[product] {
			if !a[product][i].OpenedAt.Equal(b[product][i].OpenedAt) {
				t.Fatalf("product %s row %d: opened dates differ", product, i)
			}
		}
		for i := range av[product] {
			if av[product][i] != bv[product][i] {
				t.Fatalf("product %s deal %d: %v vs %v", product, i, av[product][i], bv[product][i])
			}
		}
	}
}

func TestGenerateShape(t *testing.T) {
	cfg := testConfig()
	opps, values := Generate(cfg, nil)

	if got := len(opps.Products()); got != cfg.Products {
		t.Fatalf("expected %d products, got %d", cfg.Products, got)
	}

	for _, product := range opps.Products() {
		if len(opps[product]) != cfg.Opportunities {
			t.Errorf("product %s: expected %d opportunities, got %d", product, cfg.Opportunities, len(opps[product]))
		}
		if len(values[product]) != cfg.Deals {
			t.Errorf("product %s: expected %d deals, got %d", product, cfg.Deals, len(values[product]))
		}

		won, censored := 0, 0
		for _, opp := range opps[product] {
			if opp.OpenedAt.After(cfg.Now) {
				t.Errorf("product %s: opportunity opened after now", product)
			}
			if opp.WonAt != nil {
				if opp.WonAt.Before(opp.OpenedAt) {
					t.Errorf("product %s: won before opened", product)
				}
				won++
			} else {
				censored++
			}
		}
		if won == 0 || censored == 0 {
			t.Errorf("product %s: expected a mix of won and censored, got %d won / %d censored", product, won, censored)
		}

		for _, v := range values[product] {
			if v <= 0 {
				t.Errorf("product %s: non-positive deal size %v", product, v)
			}
		}
	}
}

func TestGenerateProgressCallback(t *testing.T) {
	cfg := testConfig()
	calls := 0
	Generate(cfg, func() { calls++ })

	want := cfg.Products * (cfg.Opportunities + cfg.Deals)
	if calls != want {
		t.Fatalf("expected %d progress calls, got %d", want, calls)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	opps, values := Generate(testConfig(), nil)

	if err := Save(dir, opps, values); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cf, err := os.Open(filepath.Join(dir, "survival_data.csv"))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer cf.Close()

	loaded, err := pipeline.LoadOpportunities(cf, pipeline.DefaultMaxRows)
	if err != nil {
		t.Fatalf("LoadOpportunities: %v", err)
	}
	if len(loaded.Products()) != len(opps.Products()) {
		t.Fatalf("expected %d products after reload, got %d", len(opps.Products()), len(loaded.Products()))
	}
	for _, product := range opps.Products() {
		if len(loaded[product]) != len(opps[product]) {
			t.Errorf("product %s: %d rows written, %d loaded", product, len(opps[product]), len(loaded[product]))
		}
	}

	jf, err := os.Open(filepath.Join(dir, "deals_data.json"))
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer jf.Close()

	loadedValues, err := pipeline.LoadDealValuesJSON(jf, pipeline.DefaultMaxRows)
	if err != nil {
		t.Fatalf("LoadDealValuesJSON: %v", err)
	}
	for _, product := range values.Products() {
		if len(loadedValues[product]) != len(values[product]) {
			t.Errorf("product %s: %d deals written, %d loaded", product, len(values[product]), len(loadedValues[product]))
		}
	}
}
