// Package pipeline sequences ingestion, valuation, and forecasting per
// company and drives batch runs across the universe.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fintide/internal/forecast"
	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/resilience"
	"github.com/sells-group/fintide/internal/statement"
	"github.com/sells-group/fintide/internal/store"
	"github.com/sells-group/fintide/internal/valuation"
)

// Config tunes orchestration.
type Config struct {
	// Parallelism bounds how many companies run at once in a batch.
	// Different companies share no mutable state; the per-statement
	// transaction covers the one real exclusion point. Default 1.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`

	// HistoryDays is the price-history window fed to the forecast engine.
	// Default 730.
	HistoryDays int `yaml:"history_days" mapstructure:"history_days"`

	// Retry governs bounded retry of store operations.
	Retry resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

func (c Config) withDefaults() Config {
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
	if c.HistoryDays <= 0 {
		c.HistoryDays = 730
	}
	return c
}

// Orchestrator owns the pipeline's unit of work. It is the sole writer of
// statements, valuations, and forecasts.
type Orchestrator struct {
	store   store.Store
	loaders map[model.StatementType]*statement.Loader
	calc    *valuation.Calculator
	engine  *forecast.Engine
	source  RecordSource
	cfg     Config

	now func() time.Time
}

// New wires an Orchestrator from its collaborators.
func New(s store.Store, loaders []*statement.Loader, calc *valuation.Calculator, engine *forecast.Engine, cfg Config) *Orchestrator {
	byType := make(map[model.StatementType]*statement.Loader, len(loaders))
	for _, l := range loaders {
		byType[l.Type()] = l
	}
	return &Orchestrator{
		store:   s,
		loaders: byType,
		calc:    calc,
		engine:  engine,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

// IngestStatement loads one raw record through the loader for its type.
// Transient store failures are retried with backoff; caller errors come
// back as ok=false with an error wrapping ErrMissingInput, never retried.
func (o *Orchestrator) IngestStatement(ctx context.Context, companyID int64, record model.RawRecord, periodDate time.Time, typ model.StatementType, annual bool) (bool, error) {
	loader, ok := o.loaders[typ]
	if !ok {
		return false, eris.Errorf("pipeline: no loader for statement type %q", typ)
	}

	retry := o.cfg.Retry
	retry.OnRetry = resilience.RetryLogger("ingest_statement")

	loaded, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (bool, error) {
		return loader.Load(ctx, companyID, record, periodDate, annual)
	})
	if errors.Is(err, ErrMissingInput) {
		zap.L().Warn("pipeline: rejecting statement record",
			zap.Int64("company_id", companyID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
	return loaded, err
}

// RecomputeValuation computes and persists the snapshot for a company as of
// a date. Returns (nil, nil) when there is nothing to compute yet.
func (o *Orchestrator) RecomputeValuation(ctx context.Context, companyID int64, asOf time.Time) (*model.ValuationSnapshot, error) {
	retry := o.cfg.Retry
	retry.OnRetry = resilience.RetryLogger("recompute_valuation")

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (*model.ValuationSnapshot, error) {
		snap, err := o.calc.Compute(ctx, companyID, asOf)
		if err != nil || snap == nil {
			return nil, err
		}
		if err := o.store.SaveValuation(ctx, snap); err != nil {
			return nil, err
		}
		return snap, nil
	})
}

// GenerateForecast projects forward from price history and the latest
// valuation. A nil targetDate requests the standard horizons ("current"
// mode); a concrete one requests exactly that horizon ("periodic" mode).
// Returns (nil, nil) when history is too sparse.
func (o *Orchestrator) GenerateForecast(ctx context.Context, companyID int64, forecastDate time.Time, targetDate *time.Time) ([]model.Forecast, error) {
	from := forecastDate.AddDate(0, 0, -o.cfg.HistoryDays)
	history, err := o.store.PriceHistory(ctx, companyID, from, forecastDate)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load price history")
	}

	snap, err := o.store.LatestValuation(ctx, companyID, forecastDate)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load valuation")
	}
	quarters, err := o.store.RecentQuarterlyIncome(ctx, companyID, 4)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load quarterly income")
	}

	in := forecast.Inputs{Valuation: snap, Quarters: quarters}

	var forecasts []model.Forecast
	if targetDate == nil {
		forecasts = o.engine.Current(companyID, history, in, forecastDate)
	} else {
		if fc := o.engine.Periodic(companyID, history, in, forecastDate, *targetDate); fc != nil {
			forecasts = []model.Forecast{*fc}
		}
	}
	if len(forecasts) == 0 {
		return nil, nil
	}

	retry := o.cfg.Retry
	retry.OnRetry = resilience.RetryLogger("save_forecast")
	for i := range forecasts {
		fc := &forecasts[i]
		if err := resilience.Do(ctx, retry, func(ctx context.Context) error {
			return o.store.SaveForecast(ctx, fc)
		}); err != nil {
			return nil, eris.Wrap(err, "pipeline: save forecast")
		}
	}

	zap.L().Info("forecasts generated",
		zap.Int64("company_id", companyID),
		zap.Time("forecast_date", forecastDate),
		zap.Int("count", len(forecasts)),
	)
	return forecasts, nil
}
