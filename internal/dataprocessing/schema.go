package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSchema marks a batch whose essential columns (date and price)
// could not be resolved. File-scoped: the caller skips the file.
var ErrNoSchema = errors.New("could not detect essential columns (date/price)")

// Schema holds the resolved column roles for one batch. HourCol is -1
// when no hour column resolved; the normalizer then derives the hour from
// the date column's time-of-day or falls back to a literally-named time
// column, and finally to hour 0.
type Schema struct {
	DateCol  int
	HourCol  int
	PriceCol int
}

// Header synonym lists, English and Romanian. Matching is
// case-insensitive on trimmed headers.
var (
	dateSynonyms  = []string{"date", "data", "delivery_date", "trading day", "zi"}
	hourSynonyms  = []string{"hour", "ora", "interval", "he", "hour index"}
	priceSynonyms = []string{
		"price", "pret", "preț", "pzu price", "pzu_price",
		"price eur/mwh", "price ron/mwh",
	}
)

// schemaSampleRows bounds how many rows the content-based fallbacks
// inspect per column.
const schemaSampleRows = 50

// DetectSchema maps the batch's headers to canonical roles. Named matches
// win; otherwise the date falls back to the first column whose values
// parse as dates or timestamps and the price to the last column whose
// values are purely numeric. Hour may legitimately stay unresolved.
func DetectSchema(batch *RawBatch) (Schema, error) {
	cols := make(map[string]int, len(batch.Headers))
	for i, h := range batch.Headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}

	pick := func(candidates []string) int {
		for _, c := range candidates {
			if i, ok := cols[c]; ok {
				return i
			}
		}
		return -1
	}

	s := Schema{
		DateCol:  pick(dateSynonyms),
		HourCol:  pick(hourSynonyms),
		PriceCol: pick(priceSynonyms),
	}

	if s.DateCol < 0 {
		for i := range batch.Headers {
			if columnLooksLikeDates(batch, i) {
				s.DateCol = i
				break
			}
		}
	}
	if s.PriceCol < 0 {
		for i := len(batch.Headers) - 1; i >= 0; i-- {
			if i != s.DateCol && columnIsNumeric(batch, i) {
				s.PriceCol = i
				break
			}
		}
	}

	if s.DateCol < 0 || s.PriceCol < 0 {
		return Schema{}, fmt.Errorf("%w: %s", ErrNoSchema, batch.Path)
	}
	return s, nil
}

// columnLooksLikeDates reports whether every sampled non-empty value in
// the column parses as a date or timestamp.
func columnLooksLikeDates(batch *RawBatch, col int) bool {
	nonEmpty := 0
	for i, row := range batch.Rows {
		if i >= schemaSampleRows {
			break
		}
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		if _, _, ok := parseDateTime(v); !ok {
			return false
		}
		nonEmpty++
	}
	return nonEmpty > 0
}

// columnIsNumeric reports whether every sampled non-empty value in the
// column coerces to a float.
func columnIsNumeric(batch *RawBatch, col int) bool {
	nonEmpty := 0
	for i, row := range batch.Rows {
		if i >= schemaSampleRows {
			break
		}
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		if _, ok := parsePrice(v); !ok {
			return false
		}
		nonEmpty++
	}
	return nonEmpty > 0
}
