package pipeline

import (
	"slices"
	"time"
)

// Opportunity is a single sales conversation for one product line.
// A nil WonAt means the deal is still open (censored at analysis time).
type Opportunity struct {
	Product  string     `json:"product"`
	OpenedAt time.Time  `json:"openedAt"`
	WonAt    *time.Time `json:"wonAt,omitempty"`
}

// Won reports whether the opportunity has closed successfully.
func (o Opportunity) Won() bool {
	return o.WonAt != nil
}

// OpportunityTable holds the survival-domain input grouped by product.
type OpportunityTable map[string][]Opportunity

// ValueTable holds the distribution-domain input: historical deal sizes
// (thousands of USD in the sample data) per product.
type ValueTable map[string][]float64

// Products returns the product keys in sorted order.
func (t OpportunityTable) Products() []string {
	return sortedKeys(t)
}

// Products returns the product keys in sorted order.
func (t ValueTable) Products() []string {
	return sortedKeys(t)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
