package etl

// pipeline.go sequences the ETL phases: connect, extract, transform, load,
// report. The phase machine is linear with no branching back; any phase
// failure short-circuits to PhaseFailed and skips the rest. A report failure
// is the one exception: the load has already committed, so the run still
// counts as successful.

import (
	"context"
	"log/slog"
	"time"

	"github.com/fernandoperilla54-svg/autoparts-database/internal/config"
	"github.com/fernandoperilla54-svg/autoparts-database/internal/source"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Phase indicates where the pipeline is in its run.
type Phase string

const (
	PhaseDisconnected Phase = "disconnected"
	PhaseConnected    Phase = "connected"
	PhaseExtracted    Phase = "extracted"
	PhaseTransformed  Phase = "transformed"
	PhaseLoaded       Phase = "loaded"
	PhaseReported     Phase = "reported"
	PhaseDone         Phase = "done"
	PhaseFailed       Phase = "failed"
)

// Pipeline orchestrates a single-shot, single-threaded batch run.
type Pipeline struct {
	cfg    *config.Config
	src    source.Source
	logger *slog.Logger
	phase  Phase
}

// NewPipeline creates a pipeline for one run.
func NewPipeline(cfg *config.Config, src source.Source, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		src:    src,
		logger: logger,
		phase:  PhaseDisconnected,
	}
}

// Phase returns the pipeline's current phase.
func (p *Pipeline) Phase() Phase { return p.phase }

// Run executes the full pipeline and returns its terminal outcome.
// The store connection is acquired at start and released on every exit path.
func (p *Pipeline) Run(ctx context.Context) RunResult {
	start := time.Now()
	p.logger.Info("starting autoparts ETL pipeline", "source", p.src.Name())

	pool, err := p.connect(ctx)
	if err != nil {
		return p.fail(start, "database connection failed", err)
	}
	defer func() {
		pool.Close()
		p.logger.Info("database connection closed")
	}()
	p.phase = PhaseConnected

	rows, err := p.src.Rows(ctx)
	if err != nil {
		return p.fail(start, "extraction failed", err)
	}
	p.phase = PhaseExtracted
	p.logger.Info("extraction complete", "source", p.src.Name(), "rows", len(rows))

	recs, err := Transform(p.logger, rows)
	if err != nil {
		return p.fail(start, "transformation failed", err)
	}
	p.phase = PhaseTransformed

	stats, err := p.load(ctx, pool, recs)
	if err != nil {
		return p.fail(start, "load failed", err)
	}
	p.phase = PhaseLoaded

	// A failed report never undoes a committed load.
	report, err := LowStockReport(ctx, pool)
	if err != nil {
		p.logger.Warn("low stock report failed", "error", err)
	} else {
		p.phase = PhaseReported
	}

	p.phase = PhaseDone
	duration := time.Since(start)
	p.summarize(stats, report, duration)

	return RunResult{
		OK:       true,
		Phase:    p.phase,
		Duration: duration,
		Stats:    stats,
		Report:   report,
	}
}

// connect builds the connection pool and verifies the store is reachable.
func (p *Pipeline) connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(p.cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(p.cfg.Database.MaxConns)
	poolConfig.MinConns = int32(p.cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = p.cfg.Database.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.Database.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	p.logger.Info("connected to database")
	return pool, nil
}

// load resolves lookups and runs the upsert loader inside one transaction.
// All-or-nothing: the first error rolls back everything written so far.
func (p *Pipeline) load(ctx context.Context, pool *pgxpool.Pool, recs []TransformedRecord) (LoadStats, error) {
	res, err := LoadResolver(ctx, pool, int32(p.cfg.Load.DefaultLookupID), p.logger)
	if err != nil {
		return LoadStats{}, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return LoadStats{}, err
	}
	defer tx.Rollback(ctx)

	loader := Loader{
		WarrantyMonths: p.cfg.Load.WarrantyMonths,
		MaxStockFactor: p.cfg.Load.MaxStockFactor,
	}
	stats, err := loader.Load(ctx, tx, res, recs, p.logger)
	if err != nil {
		return stats, err
	}

	if err := tx.Commit(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

// fail records the absorbing failure state and logs the cause.
func (p *Pipeline) fail(start time.Time, msg string, err error) RunResult {
	p.phase = PhaseFailed
	duration := time.Since(start)
	p.logger.Error(msg, "error", err, "duration", duration)
	return RunResult{OK: false, Phase: PhaseFailed, Duration: duration}
}

// summarize logs the human-readable end-of-run summary: totals plus the top
// low-stock items needing attention.
func (p *Pipeline) summarize(stats LoadStats, report []LowStockItem, duration time.Duration) {
	p.logger.Info("pipeline complete",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"low_stock_products", len(report),
		"duration", duration,
	)

	const maxShown = 5
	for i, it := range report {
		if i == maxShown {
			p.logger.Info("more products need attention", "additional", len(report)-maxShown)
			break
		}
		p.logger.Warn("product needs attention",
			"sku", it.SKU,
			"name", it.Name,
			"stock", it.CurrentStock,
			"minimum", it.MinimumStock,
			"location", it.Location,
			"status", string(it.Status),
		)
	}
}
