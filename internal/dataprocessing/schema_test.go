package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchOf(headers []string, rows ...[]string) *RawBatch {
	return &RawBatch{Path: "test.csv", Strategy: "test", Headers: headers, Rows: rows}
}

func TestDetectSchema_NamedColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    Schema
	}{
		{
			name:    "english names",
			headers: []string{"Date", "Hour", "Price"},
			want:    Schema{DateCol: 0, HourCol: 1, PriceCol: 2},
		},
		{
			name:    "romanian names",
			headers: []string{"Data", "Ora", "Pret"},
			want:    Schema{DateCol: 0, HourCol: 1, PriceCol: 2},
		},
		{
			name:    "diacritics and units",
			headers: []string{"Zi", "Interval", "Preț"},
			want:    Schema{DateCol: 0, HourCol: 1, PriceCol: 2},
		},
		{
			name:    "spaced and mixed case",
			headers: []string{" Trading Day ", "HE", "PZU Price"},
			want:    Schema{DateCol: 0, HourCol: 1, PriceCol: 2},
		},
		{
			name:    "unit-qualified price",
			headers: []string{"date", "hour", "price eur/mwh"},
			want:    Schema{DateCol: 0, HourCol: 1, PriceCol: 2},
		},
		{
			name:    "shuffled order",
			headers: []string{"price", "date", "hour"},
			want:    Schema{DateCol: 1, HourCol: 2, PriceCol: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectSchema(batchOf(tt.headers))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Unrecognized headers with one date-parseable column and one purely
// numeric column must still resolve.
func TestDetectSchema_ContentFallback(t *testing.T) {
	batch := batchOf(
		[]string{"export day", "value"},
		[]string{"2024-01-01", "100.5"},
		[]string{"2024-01-02", "101.5"},
	)

	got, err := DetectSchema(batch)
	require.NoError(t, err)

	assert.Equal(t, 0, got.DateCol)
	assert.Equal(t, -1, got.HourCol)
	assert.Equal(t, 1, got.PriceCol)
}

func TestDetectSchema_PriceFallbackPicksLastNumeric(t *testing.T) {
	batch := batchOf(
		[]string{"date", "volume", "cost"},
		[]string{"2024-01-01", "10", "100.5"},
		[]string{"2024-01-02", "11", "101.5"},
	)

	got, err := DetectSchema(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PriceCol)
}

func TestDetectSchema_DecimalCommaColumnIsNumeric(t *testing.T) {
	batch := batchOf(
		[]string{"date", "valoare"},
		[]string{"2024-01-01", "81,56"},
	)

	got, err := DetectSchema(batch)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PriceCol)
}

func TestDetectSchema_Unresolvable(t *testing.T) {
	tests := []struct {
		name  string
		batch *RawBatch
	}{
		{
			name: "no date anywhere",
			batch: batchOf(
				[]string{"alpha", "beta"},
				[]string{"x", "100"},
			),
		},
		{
			name: "no price anywhere",
			batch: batchOf(
				[]string{"date", "note"},
				[]string{"2024-01-01", "holiday"},
			),
		},
		{
			name:  "empty batch",
			batch: batchOf([]string{"alpha", "beta"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectSchema(tt.batch)
			assert.ErrorIs(t, err, ErrNoSchema)
		})
	}
}

func TestDetectSchema_DuplicateHeadersFirstWins(t *testing.T) {
	batch := batchOf(
		[]string{"date", "price", "price"},
		[]string{"2024-01-01", "100", "999"},
	)

	got, err := DetectSchema(batch)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PriceCol)
}
