package dataprocessing

import (
	"math"
	"strings"

	"opcomcli/pkg/contracts/domain"
)

// timeFallbackNames are the literal column names consulted for the hour
// when no hour column was detected and the date column carries no
// time-of-day.
var timeFallbackNames = map[string]bool{
	"time":     true,
	"ora":      true,
	"hour":     true,
	"interval": true,
}

// NormalizeHourly converts one batch into canonical hourly records,
// stamped with the source currency. Rows with an unresolvable date,
// out-of-range hour or non-numeric price are discarded outright; no
// partial records survive. The second return value counts dropped rows.
func NormalizeHourly(batch *RawBatch, schema Schema, currency string) ([]domain.HourlyPrice, int) {
	fallbackTimeCol := -1
	if schema.HourCol < 0 {
		for i, h := range batch.Headers {
			if i == schema.DateCol {
				continue
			}
			if timeFallbackNames[strings.ToLower(strings.TrimSpace(h))] {
				fallbackTimeCol = i
				break
			}
		}
	}

	var records []domain.HourlyPrice
	dropped := 0

	for _, row := range batch.Rows {
		cell := func(col int) string {
			if col >= 0 && col < len(row) {
				return row[col]
			}
			return ""
		}

		dt, hasTime, ok := parseDateTime(cell(schema.DateCol))
		if !ok {
			dropped++
			continue
		}

		hour := 0
		hourOK := true
		switch {
		case schema.HourCol >= 0:
			hour, hourOK = parseHour(cell(schema.HourCol))
		case hasTime:
			hour = dt.Hour()
		case fallbackTimeCol >= 0:
			hour, hourOK = parseHour(cell(fallbackTimeCol))
		}
		if !hourOK || hour < 0 || hour > 23 {
			dropped++
			continue
		}

		price, ok := parsePrice(cell(schema.PriceCol))
		if !ok || math.IsNaN(price) || math.IsInf(price, 0) {
			dropped++
			continue
		}

		records = append(records, domain.HourlyPrice{
			Date:     dateOnly(dt),
			Hour:     hour,
			Price:    price,
			Currency: currency,
		})
	}

	return records, dropped
}
