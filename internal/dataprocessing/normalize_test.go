package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHourly_ExplicitColumns(t *testing.T) {
	batch := batchOf(
		[]string{"date", "hour", "price"},
		[]string{"2024-01-01", "0", "100.5"},
		[]string{"2024-01-01", "23", "101.5"},
	)
	schema := Schema{DateCol: 0, HourCol: 1, PriceCol: 2}

	records, dropped := NormalizeHourly(batch, schema, "RON")
	require.Len(t, records, 2)
	assert.Zero(t, dropped)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 0, records[0].Hour)
	assert.Equal(t, 100.5, records[0].Price)
	assert.Equal(t, "RON", records[0].Currency)
	assert.Equal(t, 23, records[1].Hour)
}

func TestNormalizeHourly_TimestampDerivesHour(t *testing.T) {
	batch := batchOf(
		[]string{"timestamp", "value"},
		[]string{"2024-01-01 05:00:00", "100.5"},
		[]string{"2024-01-01 18:30:00", "101.5"},
	)
	schema := Schema{DateCol: 0, HourCol: -1, PriceCol: 1}

	records, dropped := NormalizeHourly(batch, schema, "EUR")
	require.Len(t, records, 2)
	assert.Zero(t, dropped)
	assert.Equal(t, 5, records[0].Hour)
	assert.Equal(t, 18, records[1].Hour)
}

// An explicit hour column outranks the timestamp's own time-of-day.
func TestNormalizeHourly_HourColumnBeatsTimestamp(t *testing.T) {
	batch := batchOf(
		[]string{"timestamp", "hour", "price"},
		[]string{"2024-01-01 05:00:00", "7", "100.5"},
	)
	schema := Schema{DateCol: 0, HourCol: 1, PriceCol: 2}

	records, _ := NormalizeHourly(batch, schema, "EUR")
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].Hour)
}

func TestNormalizeHourly_TimeFallbackColumn(t *testing.T) {
	batch := batchOf(
		[]string{"date", "time", "price"},
		[]string{"2024-01-01", "05:00", "100.5"},
	)
	// Detection resolved no hour column; "time" is found by literal name.
	schema := Schema{DateCol: 0, HourCol: -1, PriceCol: 2}

	records, _ := NormalizeHourly(batch, schema, "EUR")
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].Hour)
}

func TestNormalizeHourly_DefaultHourZero(t *testing.T) {
	batch := batchOf(
		[]string{"date", "price"},
		[]string{"2024-01-01", "100.5"},
	)
	schema := Schema{DateCol: 0, HourCol: -1, PriceCol: 1}

	records, _ := NormalizeHourly(batch, schema, "EUR")
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Hour)
}

func TestNormalizeHourly_IntervalLabels(t *testing.T) {
	batch := batchOf(
		[]string{"date", "interval", "price"},
		[]string{"2024-01-01", "[01-02)", "100.5"},
		[]string{"2024-01-01", "[14-15)", "101.5"},
	)
	schema := Schema{DateCol: 0, HourCol: 1, PriceCol: 2}

	records, dropped := NormalizeHourly(batch, schema, "EUR")
	require.Len(t, records, 2)
	assert.Zero(t, dropped)
	assert.Equal(t, 1, records[0].Hour)
	assert.Equal(t, 14, records[1].Hour)
}

func TestNormalizeHourly_DropsInvalidRows(t *testing.T) {
	batch := batchOf(
		[]string{"date", "hour", "price"},
		[]string{"2024-01-01", "5", "100.5"}, // keep
		[]string{"not a date", "5", "100.5"},
		[]string{"2024-01-01", "24", "100.5"},
		[]string{"2024-01-01", "-1", "100.5"},
		[]string{"2024-01-01", "??", "100.5"},
		[]string{"2024-01-01", "5", "free"},
		[]string{"2024-01-01", "5", "NaN"},
		[]string{"2024-01-01", "5"}, // ragged row, price missing
		[]string{"", "", ""},
	)
	schema := Schema{DateCol: 0, HourCol: 1, PriceCol: 2}

	records, dropped := NormalizeHourly(batch, schema, "EUR")
	require.Len(t, records, 1)
	assert.Equal(t, 8, dropped)
	assert.Equal(t, 5, records[0].Hour)
}

func TestNormalizeHourly_DecimalCommaPrice(t *testing.T) {
	batch := batchOf(
		[]string{"data", "ora", "pret"},
		[]string{"2024-01-01", "5", "81,56"},
	)
	schema := Schema{DateCol: 0, HourCol: 1, PriceCol: 2}

	records, _ := NormalizeHourly(batch, schema, "RON")
	require.Len(t, records, 1)
	assert.InDelta(t, 81.56, records[0].Price, 1e-9)
}

func TestNormalizeHourly_EmptyBatch(t *testing.T) {
	batch := batchOf([]string{"date", "hour", "price"})
	schema := Schema{DateCol: 0, HourCol: 1, PriceCol: 2}

	records, dropped := NormalizeHourly(batch, schema, "EUR")
	assert.Empty(t, records)
	assert.Zero(t, dropped)
}
