package simulation

// Histogram is an equal-width binning of a value collection, the shape
// the UI collaborators plot as a bar chart.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// NewHistogram bins values into the given number of equal-width
// buckets. Edges has bins+1 entries; Counts has bins. Degenerate input
// (no values, all identical) collapses to a single bucket.
func NewHistogram(values []float64, bins int) *Histogram {
	if bins <= 0 {
		bins = 50
	}
	if len(values) == 0 {
		return &Histogram{Edges: []float64{0, 0}, Counts: []int{0}}
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		return &Histogram{Edges: []float64{min, max}, Counts: []int{len(values)}}
	}

	width := (max - min) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = min + float64(i)*width
	}
	edges[bins] = max

	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins { // the maximum lands in the last bucket
			idx = bins - 1
		}
		counts[idx]++
	}

	return &Histogram{Edges: edges, Counts: counts}
}
