// Package dataprocessing turns heterogeneous electricity price exports
// into one canonical, deduplicated, currency-normalized price series.
//
// # Architecture
//
// The package is organized as a linear pipeline over discovered files:
//
//  1. Reader: tries successive parsing strategies per file (spreadsheet,
//     OPCOM dialect, encoding/delimiter sweep) until one yields a batch
//  2. SchemaDetector: maps arbitrary bilingual column headers to the
//     canonical date/hour/price roles, with content-based fallbacks
//  3. Normalizer: converts one batch+schema into canonical records,
//     dropping rows whose date, hour or price cannot be resolved
//  4. Aggregator: merges all per-file records in discovery order, applies
//     the date cutoff, deduplicates last-write-wins and sorts
//  5. Converter: re-denominates prices for the one supported pair
//
// # Data Flow
//
//	File → Reader → RawBatch → Schema → HourlyPrice records → PriceSeries
//
// # Error Handling
//
// Two severities only. File-scoped failures (unreadable file, undetectable
// schema, unparseable rows) are logged and skipped; they never abort the
// run. Run-level failures (missing mandatory FX rate, unsupported currency
// pair) abort before any file is read and before any output exists.
//
// # Concurrency
//
// Files are parsed by a bounded worker pool. Results are keyed by the
// discovery sequence index, so completion order can never leak into the
// deduplication tie-break.
package dataprocessing
