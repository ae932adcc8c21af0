package domain

import (
	"time"
)

// HourlyPrice represents one canonical day-ahead market price observation.
// This is the primary unit exchanged between the normalization pipeline
// and everything downstream of it.
type HourlyPrice struct {
	Date     time.Time `json:"date" validate:"required"`
	Hour     int       `json:"hour" validate:"min=0,max=23"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency" validate:"required,len=3"`
}

// Key returns the deduplication key for the record.
func (p HourlyPrice) Key() PriceKey {
	return PriceKey{Date: p.Date, Hour: p.Hour}
}

// PriceKey identifies one hourly delivery slot. At most one record per key
// survives aggregation.
type PriceKey struct {
	Date time.Time
	Hour int
}

// Before reports whether k sorts ahead of other in (date, hour) order.
func (k PriceKey) Before(other PriceKey) bool {
	if !k.Date.Equal(other.Date) {
		return k.Date.Before(other.Date)
	}
	return k.Hour < other.Hour
}

// PriceSeries is the finalized aggregation result: deduplicated hourly
// records sorted ascending by (date, hour). Collisions counts records that
// were dropped because a later source supplied the same key.
type PriceSeries struct {
	Records    []HourlyPrice `json:"records"`
	Collisions int           `json:"collisions"`
}

// SlotPrice represents one balancing-market price observation at
// quarter-hour resolution. Slot 0 is 00:00-00:15, slot 95 is 23:45-24:00.
// Frequency is the grid frequency reading carried through from exports
// that provide one; nil when the source had no frequency column.
type SlotPrice struct {
	Date      time.Time `json:"date" validate:"required"`
	Slot      int       `json:"slot" validate:"min=0,max=95"`
	Price     float64   `json:"price"`
	Frequency *float64  `json:"frequency,omitempty"`
	Currency  string    `json:"currency" validate:"required,len=3"`
}

// Key returns the deduplication key for the record.
func (p SlotPrice) Key() SlotKey {
	return SlotKey{Date: p.Date, Slot: p.Slot}
}

// SlotKey identifies one quarter-hour delivery slot.
type SlotKey struct {
	Date time.Time
	Slot int
}

// Before reports whether k sorts ahead of other in (date, slot) order.
func (k SlotKey) Before(other SlotKey) bool {
	if !k.Date.Equal(other.Date) {
		return k.Date.Before(other.Date)
	}
	return k.Slot < other.Slot
}

// SlotSeries is the finalized quarter-hour aggregation result.
type SlotSeries struct {
	Records    []SlotPrice `json:"records"`
	Collisions int         `json:"collisions"`
}

// RunSummary captures what one aggregation run did to its inputs. It is
// logged at the end of the run and is the only place duplicate-key drops
// become visible to operators.
type RunSummary struct {
	FilesDiscovered int            `json:"files_discovered"`
	FilesParsed     int            `json:"files_parsed"`
	FilesSkipped    int            `json:"files_skipped"`
	RowsKept        int            `json:"rows_kept"`
	RowsDropped     int            `json:"rows_dropped"`
	Collisions      int            `json:"collisions"`
	StrategyHits    map[string]int `json:"strategy_hits,omitempty"`
}
