package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"opcomcli/internal/config"
	"opcomcli/internal/files"
	"opcomcli/pkg/contracts/domain"
)

// Processor runs the full ingestion pipeline for one configuration:
// discovery, concurrent per-file parsing, aggregation, and currency
// conversion. Nothing is written to disk here; callers persist the
// finalized series, so cancelling mid-run leaves no partial output.
type Processor struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewProcessor creates a processor for one run.
func NewProcessor(cfg *config.Config, logger *slog.Logger) *Processor {
	return &Processor{cfg: cfg, logger: logger, now: time.Now}
}

// RunHourly executes the day-ahead (hourly) pipeline and returns the
// finalized series plus a summary of what happened to the inputs.
func (p *Processor) RunHourly(ctx context.Context) (*domain.PriceSeries, *domain.RunSummary, error) {
	converter, sources, cutoff, hasCutoff, err := p.prepare()
	if err != nil {
		return nil, nil, err
	}

	// Results are indexed by the discovery sequence so the dedup
	// tie-break depends on discovery order, never completion order.
	results := make([][]domain.HourlyPrice, len(sources))
	strategies := make([]string, len(sources))
	dropped := make([]int, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Pipeline.Workers)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, p.cfg.Pipeline.FileTimeout)
			defer cancel()

			batch, err := ReadAny(fctx, src.Path)
			if err != nil {
				return p.skip(gctx, src.Path, err)
			}
			schema, err := DetectSchema(batch)
			if err != nil {
				return p.skip(gctx, src.Path, err)
			}
			records, drop := NormalizeHourly(batch, schema, converter.Source())

			results[src.Seq] = records
			strategies[src.Seq] = batch.Strategy
			dropped[src.Seq] = drop
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	summary := p.summarize(len(sources), strategies, dropped)
	series := Aggregate(results, cutoff, hasCutoff)
	converter.Apply(series)

	summary.RowsKept = len(series.Records)
	summary.Collisions = series.Collisions
	return series, summary, nil
}

// RunQuarterHourly executes the balancing-market (quarter-hour) pipeline.
func (p *Processor) RunQuarterHourly(ctx context.Context) (*domain.SlotSeries, *domain.RunSummary, error) {
	converter, sources, cutoff, hasCutoff, err := p.prepare()
	if err != nil {
		return nil, nil, err
	}

	results := make([][]domain.SlotPrice, len(sources))
	strategies := make([]string, len(sources))
	dropped := make([]int, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Pipeline.Workers)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, p.cfg.Pipeline.FileTimeout)
			defer cancel()

			batch, err := ReadAny(fctx, src.Path)
			if err != nil {
				return p.skip(gctx, src.Path, err)
			}
			schema, err := DetectImbalanceSchema(batch)
			if err != nil {
				return p.skip(gctx, src.Path, err)
			}
			records, drop := NormalizeSlots(batch, schema, converter.Source())

			results[src.Seq] = records
			strategies[src.Seq] = batch.Strategy
			dropped[src.Seq] = drop
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	summary := p.summarize(len(sources), strategies, dropped)
	series := AggregateSlots(results, cutoff, hasCutoff)
	converter.ApplySlots(series)

	summary.RowsKept = len(series.Records)
	summary.Collisions = series.Collisions
	return series, summary, nil
}

// prepare performs the fatal-if-wrong steps that must all succeed before
// any file is read: currency pair validation, cutoff resolution and
// discovery.
func (p *Processor) prepare() (*Converter, []files.SourceFile, time.Time, bool, error) {
	converter, err := NewConverter(p.cfg.Currency.Source, p.cfg.Currency.Target, p.cfg.Currency.FxRate)
	if err != nil {
		return nil, nil, time.Time{}, false, err
	}
	cutoff, hasCutoff, err := p.cfg.Cutoff(p.now())
	if err != nil {
		return nil, nil, time.Time{}, false, err
	}
	sources, err := files.Discover(p.cfg.Inputs.Dirs)
	if err != nil {
		return nil, nil, time.Time{}, false, err
	}

	p.logger.Info("starting aggregation",
		slog.Int("files_discovered", len(sources)),
		slog.Bool("cutoff_applied", hasCutoff),
		slog.String("source_currency", converter.Source()),
		slog.String("target_currency", converter.Target()))
	return converter, sources, cutoff, hasCutoff, nil
}

// skip records a file-scoped failure. Only cancellation propagates as an
// error; everything else is logged and the run continues.
func (p *Processor) skip(ctx context.Context, path string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.logger.Warn("skipping file",
		slog.String("path", path),
		slog.String("error", err.Error()))
	return nil
}

// summarize tallies per-file outcomes in discovery order.
func (p *Processor) summarize(discovered int, strategies []string, dropped []int) *domain.RunSummary {
	summary := &domain.RunSummary{
		FilesDiscovered: discovered,
		StrategyHits:    make(map[string]int),
	}
	for i, strategy := range strategies {
		if strategy == "" {
			summary.FilesSkipped++
			continue
		}
		summary.FilesParsed++
		summary.StrategyHits[strategy]++
		summary.RowsDropped += dropped[i]
	}
	return summary
}
