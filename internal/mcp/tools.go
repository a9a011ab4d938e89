package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.impl, &mcp.Tool{
		Name:        "list_products",
		Description: "List the product lines present in the survival and deal-size datasets. Call this first to see what cohorts are available.",
		InputSchema: mustSchema[ListInput](map[string]string{
			"survival_file": "Optional path to a ProductId,SQLDate,WonDate CSV. Default: the configured sample file.",
			"deals_file":    "Optional path to a deal-size file (CSV or the sample JSON shape). Default: the configured sample file.",
		}),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, any, error) {
		return respond(s.listProducts(in))
	})

	mcp.AddTool(s.impl, &mcp.Tool{
		Name: "get_dataset_overview",
		Description: "Summarize each product's deal-size distribution: count, total, mean, median, standard deviation and the mean/median ratio. " +
			"A large ratio means the distribution is skewed and the average deal value overstates the health of the pipeline.",
		InputSchema: mustSchema[OverviewInput](map[string]string{
			"file": "Optional path to a deal-size file. Default: the configured sample file.",
		}),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in OverviewInput) (*mcp.CallToolResult, any, error) {
		return respond(s.datasetOverview(in))
	})

	mcp.AddTool(s.impl, &mcp.Tool{
		Name:        "get_deal_histogram",
		Description: "Bin one product's historical deal sizes into an equal-width histogram for plotting.",
		InputSchema: mustSchema[HistogramInput](map[string]string{
			"file":    "Optional path to a deal-size file. Default: the configured sample file.",
			"product": "Product id whose deals to bin.",
			"bins":    "Number of buckets. Default: 50.",
		}),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in HistogramInput) (*mcp.CallToolResult, any, error) {
		return respond(s.dealHistogram(in))
	})

	mcp.AddTool(s.impl, &mcp.Tool{
		Name: "get_win_rate_curve",
		Description: "Estimate the probability of winning a deal as it ages, per product line, using the Kaplan-Meier estimator over open/won dates. " +
			"Still-open deals are treated as censored, so young cohorts are comparable to old ones. " +
			"Returns the win-rate step curve with a pointwise confidence band, plus the underlying survival series.",
		InputSchema: mustSchema[CurveInput](map[string]string{
			"file":       "Optional path to a ProductId,SQLDate,WonDate CSV. Default: the configured sample file.",
			"product":    "Optional product id. Empty computes every product in the dataset.",
			"unit":       "Duration unit: day, week or month. Default: the configured unit (week).",
			"confidence": "Confidence level for the band, in (0,1). Default: 0.95.",
			"band":       "Confidence band formula: greenwood (default) or loglog.",
		}),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in CurveInput) (*mcp.CallToolResult, any, error) {
		return respond(s.winRateCurves(in))
	})

	mcp.AddTool(s.impl, &mcp.Tool{
		Name: "get_conditional_win_rate",
		Description: "Given that a deal is still open after t periods, estimate the probability it closes within the next k periods: 1 - S(min(t+k, last))/S(t). " +
			"Near the end of the observed range the look-ahead clamps to the last period, so late values degrade toward the curve tail; treat them as a lower bound, not a prediction.",
		InputSchema: mustSchema[ConditionalInput](map[string]string{
			"file":       "Optional path to a ProductId,SQLDate,WonDate CSV. Default: the configured sample file.",
			"product":    "Optional product id. Empty computes every product in the dataset.",
			"unit":       "Duration unit: day, week or month. Default: the configured unit (week).",
			"look_ahead": "Look-ahead window k in periods, >= 0. Default: the configured window.",
		}),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ConditionalInput) (*mcp.CallToolResult, any, error) {
		return respond(s.conditionalWinRates(in))
	})

	mcp.AddTool(s.impl, &mcp.Tool{
		Name: "simulate_revenue",
		Description: "Monte Carlo forecast of future revenue: sum deals_to_close random draws (with replacement) from one product's historical deal sizes, repeated futures times. " +
			"Returns the spread of simulated totals (mean, median, std dev, P10/P90) and a histogram. " +
			"Use this instead of multiplying deal count by the average deal size, which hides the risk carried by skewed distributions.",
		InputSchema: mustSchema[SimulateInput](map[string]string{
			"file":           "Optional path to a deal-size file. Default: the configured sample file.",
			"product":        "Product id whose deal history to resample.",
			"deals_to_close": "Number of deals assumed to close per simulated future, > 0.",
			"futures":        "Number of simulated futures, > 0 and below the configured cap. Default: 10000.",
			"seed":           "Optional RNG seed for reproducible runs.",
			"bins":           "Histogram buckets for the simulated totals. Default: 50.",
		}),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in SimulateInput) (*mcp.CallToolResult, any, error) {
		return respond(s.simulateRevenue(in))
	})
}

// respond folds the (payload, error) handler shape into an MCP result.
func respond[T any](payload T, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return nil, nil, err
	}
	return jsonText(payload), nil, nil
}

func mustSchema[T any](descriptions map[string]string) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(err)
	}
	for field, desc := range descriptions {
		if p, ok := schema.Properties[field]; ok {
			p.Description = desc
		}
	}
	return schema
}
