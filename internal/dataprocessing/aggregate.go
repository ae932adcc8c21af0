package dataprocessing

import (
	"sort"
	"time"

	"opcomcli/pkg/contracts/domain"
)

// Aggregate merges per-file record batches into the finalized series.
// batches must be indexed by discovery sequence: when a (date, hour) key
// repeats, the record from the batch later in the slice wins and the
// earlier one is counted as a collision. Operators rely on this to
// override stale sources by directory placement order.
//
// The cutoff is inclusive: records dated before it are discarded. Zero
// usable batches yield an explicitly empty series, not an error.
func Aggregate(batches [][]domain.HourlyPrice, cutoff time.Time, hasCutoff bool) *domain.PriceSeries {
	byKey := make(map[domain.PriceKey]domain.HourlyPrice)
	collisions := 0

	for _, batch := range batches {
		for _, r := range batch {
			if hasCutoff && r.Date.Before(cutoff) {
				continue
			}
			key := r.Key()
			if _, exists := byKey[key]; exists {
				collisions++
			}
			byKey[key] = r
		}
	}

	records := make([]domain.HourlyPrice, 0, len(byKey))
	for _, r := range byKey {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key().Before(records[j].Key())
	})

	return &domain.PriceSeries{Records: records, Collisions: collisions}
}

// AggregateSlots is Aggregate for the quarter-hour balancing-market
// series, keyed by (date, slot).
func AggregateSlots(batches [][]domain.SlotPrice, cutoff time.Time, hasCutoff bool) *domain.SlotSeries {
	byKey := make(map[domain.SlotKey]domain.SlotPrice)
	collisions := 0

	for _, batch := range batches {
		for _, r := range batch {
			if hasCutoff && r.Date.Before(cutoff) {
				continue
			}
			key := r.Key()
			if _, exists := byKey[key]; exists {
				collisions++
			}
			byKey[key] = r
		}
	}

	records := make([]domain.SlotPrice, 0, len(byKey))
	for _, r := range byKey {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key().Before(records[j].Key())
	})

	return &domain.SlotSeries{Records: records, Collisions: collisions}
}
