package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
)

// StrategyOPCOMDialect is the strategy name recorded on batches produced
// by the OPCOM dialect parser.
const StrategyOPCOMDialect = "opcom-dialect"

const (
	// deliveryDayMarker prefixes the delivery date in line 1 of an OPCOM
	// PZU export: `PIP si volum tranzactionat pentru ziua de livrare: 29/9/2023`
	deliveryDayMarker = "ziua de livrare:"
	// zoneHeaderMarker is the line after which the hourly rows begin.
	zoneHeaderMarker = "Zona de tranzactionare"
	// tradingZone is the zone label rows must carry to be accepted.
	tradingZone = "Romania"
)

// ParseOPCOMDialect parses the bespoke quoted-CSV export OPCOM produces
// for the day-ahead market. The result uses canonical date/hour/price
// headers so it flows through the same schema and normalization path as
// every other batch; hours are already 0-indexed and prices already use a
// decimal point.
//
// A nil result means either the delivery-day marker is absent (wrong
// dialect) or no row validated. The two are indistinguishable on purpose;
// both make the caller fall through to the next read strategy.
func ParseOPCOMDialect(path string, data []byte) *RawBatch {
	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 {
		return nil
	}

	idx := strings.Index(lines[0], deliveryDayMarker)
	if idx < 0 {
		return nil
	}
	datePart := strings.Trim(strings.TrimSpace(lines[0][idx+len(deliveryDayMarker):]), `"`)
	date, ok := reformatDeliveryDate(datePart)
	if !ok {
		return nil
	}

	batch := &RawBatch{
		Path:     path,
		Strategy: StrategyOPCOMDialect,
		Headers:  []string{"date", "hour", "price"},
	}

	inHourlySection := false
	for _, raw := range lines[1:] {
		line := strings.Trim(strings.TrimSpace(raw), `"`)
		if strings.Contains(line, zoneHeaderMarker) {
			inHourlySection = true
			continue
		}
		if !inHourlySection || line == "" {
			continue
		}

		parts := strings.Split(line, `","`)
		for i := range parts {
			parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `"`)
		}
		if len(parts) < 3 || parts[0] != tradingZone {
			continue
		}

		// Interval field is 1..24; output hours are 0-indexed.
		hour, err := strconv.Atoi(parts[1])
		if err != nil || hour < 1 || hour > 24 {
			continue
		}
		// Prices use a decimal comma (Lei/MWh).
		price, err := strconv.ParseFloat(strings.ReplaceAll(parts[2], ",", "."), 64)
		if err != nil {
			continue
		}

		batch.Rows = append(batch.Rows, []string{
			date,
			strconv.Itoa(hour - 1),
			strconv.FormatFloat(price, 'f', -1, 64),
		})
	}

	if len(batch.Rows) == 0 {
		return nil
	}
	return batch
}

// reformatDeliveryDate converts D/M/YYYY with variable digit width to
// zero-padded ISO order, e.g. "29/9/2023" -> "2023-09-29".
func reformatDeliveryDate(s string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return "", false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1000 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
