// Package files enumerates candidate price export files for one
// aggregation run.
//
// Discovery order is load-bearing: the aggregator breaks deduplication
// ties in favor of the file later in discovery order, so the order must be
// stable across runs and independent of how files are parsed afterwards.
// Each discovered file therefore carries an explicit sequence index
// assigned here, never inferred downstream.
package files
