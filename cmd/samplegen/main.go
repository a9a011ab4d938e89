package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"pipeline-lab/cmd/samplegen/engine"
)

func main() {
	products := flag.Int("products", 3, "number of product lines")
	opportunities := flag.Int("opportunities", 400, "opportunities per product")
	deals := flag.Int("deals", 2000, "historical deal sizes per product")
	seed := flag.Int64("seed", 0, "RNG seed (0 seeds from the clock)")
	out := flag.String("out", ".", "output directory")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	cfg := engine.GeneratorConfig{
		Products:      *products,
		Opportunities: *opportunities,
		Deals:         *deals,
		Seed:          *seed,
	}

	total := int64(*products) * int64(*opportunities+*deals)
	bar := progressbar.Default(total, "generating")

	opps, values := engine.Generate(cfg, func() { _ = bar.Add(1) })

	if err := engine.Save(*out, opps, values); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote survival_data.csv and deals_data.json to %s (seed %d)\n", *out, *seed)
}
