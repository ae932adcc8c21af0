package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadAny_CommaCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.csv", []byte("date,hour,price\n2024-01-01,5,100.5\n"))

	batch, err := ReadAny(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, `csv encoding=utf-8 sep=','`, batch.Strategy)
	assert.Equal(t, []string{"date", "hour", "price"}, batch.Headers)
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, []string{"2024-01-01", "5", "100.5"}, batch.Rows[0])
}

func TestReadAny_SemicolonCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "semi.csv", []byte("date;hour;price\n2024-01-01;5;100.5\n"))

	batch, err := ReadAny(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, `csv encoding=utf-8 sep=';'`, batch.Strategy)
	assert.Equal(t, []string{"date", "hour", "price"}, batch.Headers)
}

func TestReadAny_TabCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tabs.csv", []byte("date\thour\tprice\n2024-01-01\t5\t100.5\n"))

	batch, err := ReadAny(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "csv encoding=utf-8 sep='\\t'", batch.Strategy)
}

func TestReadAny_Latin1CSV(t *testing.T) {
	dir := t.TempDir()
	// "Preț" exported as latin-1-ish bytes: 0xFE is invalid UTF-8 here,
	// forcing the sweep past the utf-8 attempts.
	data := append([]byte("data,pre"), 0xFE)
	data = append(data, []byte(",ora\n2024-01-01,100.5,5\n")...)
	path := writeFile(t, dir, "legacy.csv", data)

	batch, err := ReadAny(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, `csv encoding=latin-1 sep=','`, batch.Strategy)
	assert.Len(t, batch.Headers, 3)
}

func TestReadAny_DialectRouted(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "opcom.csv", []byte(buildOPCOMExport("29/9/2023", 24)))

	batch, err := ReadAny(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, StrategyOPCOMDialect, batch.Strategy)
	assert.Len(t, batch.Rows, 24)
}

func TestReadAny_Workbook(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "export.xlsx", [][]interface{}{
		{"date", "hour", "price", "volume"},
		{"2024-01-01", "5", "100.5", "10"},
		{"2024-01-01", "6", "101.5", "11"},
	})

	batch, err := ReadAny(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, StrategySpreadsheet, batch.Strategy)
	assert.Equal(t, []string{"date", "hour", "price", "volume"}, batch.Headers)
	assert.Len(t, batch.Rows, 2)
}

func TestReadAny_WorkbookTitleBlock(t *testing.T) {
	dir := t.TempDir()
	// Title rows above the real header, as the estimated-price exports do.
	path := writeWorkbook(t, dir, "export.xlsx", [][]interface{}{
		{"Estimated imbalance prices"},
		{""},
		{"date", "hour", "price", "volume"},
		{"2024-01-01", "5", "100.5", "10"},
	})

	batch, err := ReadAny(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "hour", "price", "volume"}, batch.Headers)
	require.Len(t, batch.Rows, 1)
}

func TestReadAny_Unreadable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "junk.csv", []byte{0x00, 0x01, 0x02, 0xFF, 0xFE})

	_, err := ReadAny(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestReadAny_MissingFile(t *testing.T) {
	_, err := ReadAny(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestReadAny_CorruptWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.xlsx", []byte("this is not a zip archive"))

	_, err := ReadAny(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestReadAny_Cancelled(t *testing.T) {
	dir := t.TempDir()
	// Invalid UTF-8 so the sweep has work left when the context check runs.
	path := writeFile(t, dir, "slow.csv", []byte{0xFF, 'a', ',', 'b'})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAny(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
