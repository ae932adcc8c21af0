package exporter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"opcomcli/pkg/contracts/domain"
)

// WindowYears are the trailing windows emitted alongside the full series
// when rolling-window output is enabled.
var WindowYears = []int{1, 2, 3}

// WriteHourlyWindows writes trailing N-year slices of the series to
// sibling paths encoding N, e.g. pzu_history_2y.csv next to
// pzu_history.csv. The lower bound is inclusive: date >= now - 365*N days.
func WriteHourlyWindows(path string, series *domain.PriceSeries, now time.Time) error {
	for _, years := range WindowYears {
		cutoff := windowCutoff(now, years)
		window := &domain.PriceSeries{Records: nil}
		for _, r := range series.Records {
			if !r.Date.Before(cutoff) {
				window.Records = append(window.Records, r)
			}
		}
		if err := WriteHourlySeries(windowPath(path, years), window); err != nil {
			return fmt.Errorf("failed to write %d-year window: %w", years, err)
		}
	}
	return nil
}

// WriteSlotWindows is WriteHourlyWindows for the quarter-hour series.
func WriteSlotWindows(path string, series *domain.SlotSeries, now time.Time) error {
	for _, years := range WindowYears {
		cutoff := windowCutoff(now, years)
		window := &domain.SlotSeries{Records: nil}
		for _, r := range series.Records {
			if !r.Date.Before(cutoff) {
				window.Records = append(window.Records, r)
			}
		}
		if err := WriteSlotSeries(windowPath(path, years), window); err != nil {
			return fmt.Errorf("failed to write %d-year window: %w", years, err)
		}
	}
	return nil
}

// windowCutoff computes the inclusive lower bound for a trailing N-year
// window relative to the write time, truncated to the calendar date.
func windowCutoff(now time.Time, years int) time.Time {
	cutoff := now.AddDate(0, 0, -365*years)
	return time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
}

// windowPath derives the sibling path for an N-year slice:
// data/pzu_history.csv -> data/pzu_history_2y.csv.
func windowPath(path string, years int) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + fmt.Sprintf("_%dy%s", years, ext)
}
