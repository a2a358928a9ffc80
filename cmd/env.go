package main

import (
	"context"
	"time"

	"github.com/sells-group/fintide/internal/config"
	"github.com/sells-group/fintide/internal/feed"
	"github.com/sells-group/fintide/internal/fields"
	"github.com/sells-group/fintide/internal/forecast"
	"github.com/sells-group/fintide/internal/pipeline"
	"github.com/sells-group/fintide/internal/resilience"
	"github.com/sells-group/fintide/internal/statement"
	"github.com/sells-group/fintide/internal/store"
	"github.com/sells-group/fintide/internal/valuation"
)

// env bundles the wired pipeline for a subcommand run.
type env struct {
	Store        *store.PostgresStore
	Orchestrator *pipeline.Orchestrator
}

func (e *env) Close() {
	_ = e.Store.Close()
}

// initEnv validates config for the mode, connects the store, and wires the
// loaders, calculator, engine, and orchestrator.
func initEnv(ctx context.Context, mode string) (*env, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := store.NewPostgres(ctx, cfg.Database.URL, &store.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, err
	}

	incomeSpecs, balanceSpecs, cashFlowSpecs, err := fields.LoadOverrides(cfg.Fields.AliasOverridePath)
	if err != nil {
		st.Close()
		return nil, err
	}

	loaders := []*statement.Loader{
		statement.NewLoader(st.Pool(), statement.IncomeDefinition(incomeSpecs)),
		statement.NewLoader(st.Pool(), statement.BalanceDefinition(balanceSpecs)),
		statement.NewLoader(st.Pool(), statement.CashFlowDefinition(cashFlowSpecs)),
	}

	engine := forecast.NewEngine(forecast.Config{
		MinObservations: cfg.Forecast.MinObservations,
		EWMASpan:        cfg.Forecast.EWMASpan,
		TrendWindow:     cfg.Forecast.TrendWindow,
	})

	orch := pipeline.New(st, loaders, valuation.New(st), engine, pipeline.Config{
		Parallelism: cfg.Pipeline.Parallelism,
		HistoryDays: cfg.Pipeline.HistoryDays,
		Retry:       retryFromConfig(cfg.Pipeline.Retry),
	})
	if cfg.Feed.Dir != "" {
		src := feed.NewSource(cfg.Feed.Dir, cfg.Feed.RatePerSecond, cfg.Feed.Burst).
			WithDefaultAnnual(cfg.Feed.DefaultsAnnual)
		orch = orch.WithSource(src)
	}

	return &env{Store: st, Orchestrator: orch}, nil
}

func retryFromConfig(rc config.RetryConfig) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    rc.MaxAttempts,
		InitialBackoff: time.Duration(rc.InitialBackoffMS) * time.Millisecond,
		MaxBackoff:     time.Duration(rc.MaxBackoffMS) * time.Millisecond,
		Multiplier:     rc.Multiplier,
		JitterFraction: rc.JitterFraction,
	}
}
