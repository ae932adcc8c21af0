package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"opcomcli/pkg/contracts/domain"
)

// hourlyHeaders is the output schema of the day-ahead series.
var hourlyHeaders = []string{"date", "hour", "price", "currency"}

// slotHeaders is the output schema of the balancing-market series. The
// frequency column is blank for records whose source had none.
var slotHeaders = []string{"date", "slot", "price", "frequency", "currency"}

// WriteHourlySeries writes the full hourly series to path, creating
// parent directories as needed. An empty series still produces a valid
// header-only file.
func WriteHourlySeries(path string, series *domain.PriceSeries) error {
	records := make([][]string, 0, len(series.Records))
	for _, r := range series.Records {
		records = append(records, []string{
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.Hour),
			formatPrice(r.Price),
			r.Currency,
		})
	}
	return writeCSV(path, hourlyHeaders, records)
}

// WriteSlotSeries writes the full quarter-hour series to path.
func WriteSlotSeries(path string, series *domain.SlotSeries) error {
	records := make([][]string, 0, len(series.Records))
	for _, r := range series.Records {
		frequency := ""
		if r.Frequency != nil {
			frequency = formatPrice(*r.Frequency)
		}
		records = append(records, []string{
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.Slot),
			formatPrice(r.Price),
			frequency,
			r.Currency,
		})
	}
	return writeCSV(path, slotHeaders, records)
}

// writeCSV writes headers and records to path with a UTF-8 BOM prefix
// for Excel compatibility.
func writeCSV(path string, headers []string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// formatPrice renders a price with the shortest representation that
// round-trips, keeping output byte-identical across runs.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
