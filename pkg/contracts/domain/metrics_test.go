package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceStatistics(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := &PriceSeries{Records: []HourlyPrice{
		{Date: date, Hour: 0, Price: 100, Currency: "EUR"},
		{Date: date, Hour: 1, Price: 50, Currency: "EUR"},
		{Date: date, Hour: 2, Price: 150, Currency: "EUR"},
	}}

	m := PriceStatistics(series)

	assert.Equal(t, 3.0, m["hours"])
	assert.InDelta(t, 100.0, m["average_price"], 1e-9)
	assert.Equal(t, 50.0, m["min_price"])
	assert.Equal(t, 150.0, m["max_price"])
	assert.Equal(t, 100.0, m["price_spread"])
}

func TestPriceStatistics_Empty(t *testing.T) {
	m := PriceStatistics(&PriceSeries{})
	require.Contains(t, m, "hours")
	assert.Equal(t, 0.0, m["hours"])
	assert.NotContains(t, m, "average_price")
}

func TestPriceKey_Before(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	a := HourlyPrice{Date: d1, Hour: 5}.Key()
	b := HourlyPrice{Date: d1, Hour: 6}.Key()
	c := HourlyPrice{Date: d2, Hour: 0}.Key()

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}
