// Package exporter persists finalized price series as CSV.
//
// All writes happen after aggregation is complete and the in-memory
// series is immutable, so an aborted run never leaves partial output.
// Output carries a UTF-8 BOM so Excel opens it correctly.
package exporter
