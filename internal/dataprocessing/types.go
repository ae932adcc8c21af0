package dataprocessing

// RawBatch is one file's rows exactly as read, before any schema
// resolution. It is transient: the normalizer consumes it and only
// canonical records survive.
type RawBatch struct {
	// Path is the source file the batch was read from.
	Path string
	// Strategy names the read strategy that produced the batch, e.g.
	// "spreadsheet" or "csv encoding=latin-1 sep=';'".
	Strategy string
	// Headers are the column names in source order.
	Headers []string
	// Rows hold the cell values as strings, row-major. Rows may be ragged;
	// consumers must bounds-check column access.
	Rows [][]string
}
