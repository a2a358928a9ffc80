package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/fintide/internal/model"
)

// StatementRecord is one pending raw filing awaiting ingestion.
type StatementRecord struct {
	Type       model.StatementType
	Record     model.RawRecord
	PeriodDate time.Time
	Annual     bool
}

// RecordSource supplies pending raw records per company. A batch run drains
// the source for each company before recomputing valuation and forecasts.
type RecordSource interface {
	PendingStatements(ctx context.Context, companyID int64) ([]StatementRecord, error)
}

// WithSource attaches a record source for batch ingestion sweeps.
func (o *Orchestrator) WithSource(src RecordSource) *Orchestrator {
	o.source = src
	return o
}

// CompanyStatus reports the outcome of one company in a batch run.
type CompanyStatus struct {
	CompanyID         int64
	StatementsLoaded  int
	StatementsSkipped int
	ValuationComputed bool
	Forecasts         int
	Err               string
}

// BatchSummary is the end-of-run report.
type BatchSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Succeeded  int
	Failed     int
	Companies  []CompanyStatus
}

// RunBatch processes companies through the full pipeline: pending-statement
// ingestion, valuation recompute, forecast generation. A failing company is
// recorded and skipped; the batch continues. Cancellation is honoured
// between companies, never mid-transaction.
func (o *Orchestrator) RunBatch(ctx context.Context, companyIDs []int64) (*BatchSummary, error) {
	summary := &BatchSummary{
		RunID:     uuid.New().String(),
		StartedAt: o.now(),
	}
	if len(companyIDs) == 0 {
		summary.FinishedAt = o.now()
		zap.L().Info("batch run empty", zap.String("run_id", summary.RunID))
		return summary, nil
	}

	zap.L().Info("batch run starting",
		zap.String("run_id", summary.RunID),
		zap.Int("companies", len(companyIDs)),
		zap.Int("parallelism", o.cfg.Parallelism),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Parallelism)

	var succeeded, failed atomic.Int64
	var mu sync.Mutex
	statuses := make([]CompanyStatus, 0, len(companyIDs))

	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			status := o.processCompany(gctx, companyID)
			if status.Err == "" {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			mu.Lock()
			statuses = append(statuses, status)
			mu.Unlock()
			return nil // don't abort batch on individual failure
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: batch run")
	}

	summary.FinishedAt = o.now()
	summary.Processed = len(statuses)
	summary.Succeeded = int(succeeded.Load())
	summary.Failed = int(failed.Load())
	summary.Companies = statuses

	zap.L().Info("batch run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("processed", summary.Processed),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, ctx.Err()
}

// processCompany runs the three pipeline stages for one company. Errors are
// captured into the status; nothing escapes to the batch loop.
func (o *Orchestrator) processCompany(ctx context.Context, companyID int64) (status CompanyStatus) {
	status.CompanyID = companyID
	log := zap.L().With(zap.Int64("company_id", companyID))

	defer func() {
		if r := recover(); r != nil {
			status.Err = fmt.Sprintf("panic: %v", r)
			log.Error("company processing panicked", zap.Any("panic", r))
		}
	}()

	asOf := o.now()

	if o.source != nil {
		records, err := o.source.PendingStatements(ctx, companyID)
		if err != nil {
			status.Err = eris.Wrap(err, "load pending statements").Error()
			log.Error("company processing failed", zap.Error(err))
			return status
		}
		for _, rec := range records {
			ok, err := o.IngestStatement(ctx, companyID, rec.Record, rec.PeriodDate, rec.Type, rec.Annual)
			switch {
			case errors.Is(err, ErrMissingInput):
				// Bad record, not a bad company.
				status.StatementsSkipped++
			case err != nil:
				status.Err = eris.Wrap(err, "ingest statement").Error()
				log.Error("statement ingestion failed",
					zap.String("statement_type", string(rec.Type)),
					zap.Time("period_date", rec.PeriodDate),
					zap.Error(err),
				)
				return status
			case !ok:
				status.StatementsSkipped++
			default:
				status.StatementsLoaded++
			}
		}
		if status.StatementsSkipped > 0 && status.StatementsLoaded == 0 && len(records) > 0 {
			status.Err = fmt.Sprintf("all %d pending statements rejected", status.StatementsSkipped)
			return status
		}
	}

	snap, err := o.RecomputeValuation(ctx, companyID, asOf)
	if err != nil {
		status.Err = eris.Wrap(err, "recompute valuation").Error()
		log.Error("valuation recompute failed", zap.Error(err))
		return status
	}
	status.ValuationComputed = snap != nil

	forecasts, err := o.GenerateForecast(ctx, companyID, asOf, nil)
	if err != nil {
		status.Err = eris.Wrap(err, "generate forecast").Error()
		log.Error("forecast generation failed", zap.Error(err))
		return status
	}
	status.Forecasts = len(forecasts)

	log.Info("company processed",
		zap.Int("statements_loaded", status.StatementsLoaded),
		zap.Bool("valuation", status.ValuationComputed),
		zap.Int("forecasts", status.Forecasts),
	)
	return status
}
