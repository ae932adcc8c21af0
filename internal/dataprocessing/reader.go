package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnreadable marks a file no read strategy could make sense of. The
// caller skips the file; it is never fatal to the run.
var ErrUnreadable = errors.New("file unreadable by any strategy")

// StrategySpreadsheet is the strategy name recorded on batches read with
// the spreadsheet reader.
const StrategySpreadsheet = "spreadsheet"

// diagnosticPrefixLen bounds how many bytes of an unreadable file are
// logged for diagnosis.
const diagnosticPrefixLen = 1000

// sweepEncodings are tried in order against undeclared-encoding CSV
// files. latin-1/iso-8859-1 and cp1252/windows-1252 alias the same byte
// tables; the list mirrors the encoding names real exports have been
// observed to carry.
var sweepEncodings = []struct {
	name    string
	charset *charmap.Charmap // nil means plain UTF-8
}{
	{"utf-8", nil},
	{"latin-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
}

// sweepDelimiters are the candidate field separators for the encoding
// sweep.
var sweepDelimiters = []rune{',', ';', '\t'}

// ReadAny reads one file into a tabular batch, trying successive
// strategies until one succeeds:
//
//  1. spreadsheet formats via excelize
//  2. the OPCOM national dialect for CSV files carrying its marker
//  3. an encoding x delimiter sweep for plain delimited text
//
// All strategies failing yields ErrUnreadable after logging a bounded
// byte prefix of the file for diagnosis. Each file gets exactly one pass;
// there are no cross-file retries.
func ReadAny(ctx context.Context, path string) (*RawBatch, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".xls" || ext == ".xlsx" {
		batch, err := readSpreadsheet(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
		}
		return batch, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	if batch := ParseOPCOMDialect(path, data); batch != nil {
		return batch, nil
	}

	for _, enc := range sweepEncodings {
		for _, sep := range sweepDelimiters {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			batch, ok := tryDelimited(path, data, enc.name, enc.charset, sep)
			if ok {
				return batch, nil
			}
		}
	}

	prefix := data
	if len(prefix) > diagnosticPrefixLen {
		prefix = prefix[:diagnosticPrefixLen]
	}
	slog.Debug("no read strategy matched",
		slog.String("path", path),
		slog.String("prefix", fmt.Sprintf("%q", prefix)))
	return nil, fmt.Errorf("%w: %s", ErrUnreadable, path)
}

// readSpreadsheet reads the first sheet of an Excel workbook. Exports
// with multi-row title blocks above the real header are handled by
// skipping up to four leading rows until a row with enough columns
// appears.
func readSpreadsheet(path string) (*RawBatch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	headerIdx := 0
	if countNonEmpty(rows[0]) <= 3 {
		for i := 1; i < len(rows) && i <= 4; i++ {
			if countNonEmpty(rows[i]) > 3 {
				headerIdx = i
				break
			}
		}
	}

	headers := rows[headerIdx]
	if countNonEmpty(headers) == 0 {
		return nil, fmt.Errorf("no usable header row in sheet %s", sheets[0])
	}
	return &RawBatch{
		Path:     path,
		Strategy: StrategySpreadsheet,
		Headers:  headers,
		Rows:     rows[headerIdx+1:],
	}, nil
}

// tryDelimited attempts one encoding/delimiter combination. It succeeds
// only when the bytes decode cleanly and the result parses into more than
// one column.
func tryDelimited(path string, data []byte, encName string, charset *charmap.Charmap, sep rune) (*RawBatch, bool) {
	decoded := data
	if charset == nil {
		if !utf8.Valid(data) {
			return nil, false
		}
	} else {
		out, err := charset.NewDecoder().Bytes(data)
		if err != nil {
			return nil, false
		}
		decoded = out
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = sep
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 || len(records[0]) <= 1 {
		return nil, false
	}

	return &RawBatch{
		Path:     path,
		Strategy: fmt.Sprintf("csv encoding=%s sep=%q", encName, sep),
		Headers:  records[0],
		Rows:     records[1:],
	}, true
}

func countNonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}
