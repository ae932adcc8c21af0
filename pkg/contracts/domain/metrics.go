package domain

import (
	"math"
)

// MetricsReport is the input contract for the external report generators
// (Excel/PowerPoint/Word). They consume a flat mapping of named metrics,
// e.g. "average_monthly_profit" or "annual_revenue", and render fixed
// templates; they never see raw price files.
type MetricsReport map[string]float64

// PriceStatistics derives the basic price metrics a report generator can
// compute from the series alone. Business metrics that need plant
// parameters (profit, revenue) are added by the modeling layer, not here.
func PriceStatistics(series *PriceSeries) MetricsReport {
	m := MetricsReport{
		"hours": float64(len(series.Records)),
	}
	if len(series.Records) == 0 {
		return m
	}

	minPrice := math.Inf(1)
	maxPrice := math.Inf(-1)
	var sum float64
	for _, r := range series.Records {
		sum += r.Price
		if r.Price < minPrice {
			minPrice = r.Price
		}
		if r.Price > maxPrice {
			maxPrice = r.Price
		}
	}
	m["average_price"] = sum / float64(len(series.Records))
	m["min_price"] = minPrice
	m["max_price"] = maxPrice
	m["price_spread"] = maxPrice - minPrice
	return m
}
