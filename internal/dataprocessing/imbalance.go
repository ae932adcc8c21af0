package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"opcomcli/pkg/contracts/domain"
)

// ImbalanceSchema holds the resolved column roles for one
// balancing-market batch. Any field may be -1; the normalizer works with
// whatever subset resolved, but date-or-slot and price must exist.
type ImbalanceSchema struct {
	DateCol  int
	TimeCol  int
	SlotCol  int
	PriceCol int
	FreqCol  int
}

// Balancing-market synonym lists. The imbalance exports are messier than
// the day-ahead ones: some carry quarter-hour slot indices, some HH:MM
// interval labels, some full timestamps, and the Transelectrica estimated
// price export buries its headers under a title block.
var (
	imbalanceDateSynonyms = []string{"date", "data", "day", "zi", "delivery date", "datetime", "timestamp"}
	imbalanceTimeSynonyms = []string{"time", "ora", "interval", "minute", "timp", "hour"}
	imbalanceSlotSynonyms = []string{"slot", "index", "slot index", "interval index", "quarter"}
	imbalancePriceSynonyms = []string{
		"price", "pret", "preț", "imbalance price", "estimated imbalance price",
		"pip", "price ron/mwh", "price eur/mwh",
	}
	imbalanceFreqSynonyms = []string{"frequency", "frecventa", "frecvență", "hz"}
)

// DetectImbalanceSchema resolves column roles for a balancing-market
// batch. The Transelectrica "time interval" export is recognized by
// substring because its headers are long generated phrases rather than
// single words. Fails (file-scoped) when neither a date nor a slot
// column resolves, or no price column resolves.
func DetectImbalanceSchema(batch *RawBatch) (ImbalanceSchema, error) {
	s := ImbalanceSchema{DateCol: -1, TimeCol: -1, SlotCol: -1, PriceCol: -1, FreqCol: -1}

	hasTimeInterval := false
	for _, h := range batch.Headers {
		if strings.Contains(strings.ToLower(h), "time interval") {
			hasTimeInterval = true
			break
		}
	}

	if hasTimeInterval {
		for i, h := range batch.Headers {
			lower := strings.ToLower(h)
			switch {
			case strings.Contains(lower, "time interval"):
				s.TimeCol = i
			case strings.Contains(lower, "estimated price"):
				s.PriceCol = i
			case strings.Contains(lower, "frequency") || strings.Contains(lower, "frecv") || strings.Contains(lower, "hz"):
				s.FreqCol = i
			}
		}
	} else {
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
		s.DateCol = pick(imbalanceDateSynonyms)
		s.TimeCol = pick(imbalanceTimeSynonyms)
		s.SlotCol = pick(imbalanceSlotSynonyms)
		s.PriceCol = pick(imbalancePriceSynonyms)
		s.FreqCol = pick(imbalanceFreqSynonyms)
	}

	if s.PriceCol < 0 {
		for i := len(batch.Headers) - 1; i >= 0; i-- {
			if i != s.DateCol && i != s.TimeCol && columnIsNumeric(batch, i) {
				s.PriceCol = i
				break
			}
		}
	}

	if (s.DateCol < 0 && s.TimeCol < 0 && s.SlotCol < 0) || s.PriceCol < 0 {
		return ImbalanceSchema{}, fmt.Errorf("%w: %s", ErrNoSchema, batch.Path)
	}
	return s, nil
}

// NormalizeSlots converts one balancing-market batch into canonical
// quarter-hour records. Slot resolution order: explicit slot column, then
// time column, then the date column's own time-of-day. Rows with an
// unresolvable date, slot outside [0,95] or non-numeric price are
// dropped. The second return value counts dropped rows.
func NormalizeSlots(batch *RawBatch, schema ImbalanceSchema, currency string) ([]domain.SlotPrice, int) {
	var records []domain.SlotPrice
	dropped := 0

	for _, row := range batch.Rows {
		cell := func(col int) string {
			if col >= 0 && col < len(row) {
				return row[col]
			}
			return ""
		}

		dateCell := cell(schema.DateCol)
		if schema.DateCol < 0 {
			// Interval labels like "25.06.2024 10:00 - 10:15" carry the date
			// in their first token.
			dateCell = firstToken(cell(schema.TimeCol))
		}
		dt, hasTime, ok := parseDateTime(dateCell)
		if !ok {
			dropped++
			continue
		}

		slot := -1
		switch {
		case schema.SlotCol >= 0:
			if v, err := strconv.Atoi(strings.TrimSpace(cell(schema.SlotCol))); err == nil {
				slot = v
			}
		case schema.TimeCol >= 0:
			if v, ok := parseTimeToSlot(timePart(cell(schema.TimeCol), schema.DateCol < 0)); ok {
				slot = v
			}
		case hasTime:
			slot = dt.Hour()*4 + dt.Minute()/15
		}
		if slot < 0 || slot > 95 {
			dropped++
			continue
		}

		price, ok := parsePrice(cell(schema.PriceCol))
		if !ok || math.IsNaN(price) || math.IsInf(price, 0) {
			dropped++
			continue
		}

		record := domain.SlotPrice{
			Date:     dateOnly(dt),
			Slot:     slot,
			Price:    price,
			Currency: currency,
		}
		if schema.FreqCol >= 0 {
			if f, ok := parsePrice(cell(schema.FreqCol)); ok {
				record.Frequency = &f
			}
		}
		records = append(records, record)
	}

	return records, dropped
}

// parseTimeToSlot maps a time value to a quarter-hour slot. Accepts a
// plain slot integer, "HH:MM[:SS]" strings, and interval labels like
// "00:00-00:15" or "[00:00-00:15)" (taking the first hour/minute pair).
func parseTimeToSlot(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		hh, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err == nil {
			mm := 0
			if len(parts) > 1 {
				// The minute field may trail into an interval label, e.g.
				// "00-00" in "00:00-00:15"; digits before the break win.
				mm, _ = leadingInt(strings.TrimSpace(parts[1]))
			}
			return hh*4 + mm/15, true
		}
	}
	nums := splitNumbers(s)
	if len(nums) >= 2 {
		return nums[0]*4 + nums[1]/15, true
	}
	return 0, false
}

// firstToken returns the text before the first space.
func firstToken(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return s[:idx]
	}
	return s
}

// timePart extracts the time portion of an interval cell. When the cell
// also carries the date ("25.06.2024 10:00 - 10:15"), the second token
// holds the interval start.
func timePart(s string, dateEmbedded bool) string {
	s = strings.TrimSpace(s)
	if !dateEmbedded {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) >= 2 {
		return fields[1]
	}
	return s
}

// leadingInt parses the digits at the start of s.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// splitNumbers extracts every run of digits in s as an integer.
func splitNumbers(s string) []int {
	var nums []int
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if v, err := strconv.Atoi(s[start:i]); err == nil {
				nums = append(nums, v)
			}
			start = -1
		}
	}
	return nums
}
