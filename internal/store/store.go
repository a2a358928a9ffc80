// Package store persists and queries the pipeline's relational entities.
package store

import (
	"context"
	"time"

	"github.com/sells-group/fintide/internal/model"
)

// QuarterlyIncome is a thin projection of recent quarterly income rows used
// by the forecast engine for EPS and revenue extrapolation.
type QuarterlyIncome struct {
	FiscalYear    int        `json:"fiscal_year"`
	FiscalQuarter string     `json:"fiscal_quarter"`
	PeriodEnd     time.Time  `json:"period_end"`
	Revenue       *float64   `json:"revenue,omitempty"`
	EPSDiluted    *float64   `json:"eps_diluted,omitempty"`
	NetIncome     *float64   `json:"net_income,omitempty"`
}

// EntityCounts summarizes row counts and freshness per entity for status
// reporting.
type EntityCounts struct {
	Companies   int64      `json:"companies"`
	Statements  int64      `json:"statements"`
	PricePoints int64      `json:"price_points"`
	Valuations  int64      `json:"valuations"`
	Forecasts   int64      `json:"forecasts"`
	LatestPrice *time.Time `json:"latest_price,omitempty"`
}

// Store defines the persistence interface for the analytics pipeline.
type Store interface {
	// Companies
	UpsertCompany(ctx context.Context, c *model.Company) (int64, error)
	GetCompany(ctx context.Context, id int64) (*model.Company, error)
	GetCompanyByTicker(ctx context.Context, ticker string) (*model.Company, error)
	ListCompanyIDs(ctx context.Context, activeOnly bool) ([]int64, error)

	// Statements (written by the loaders; read back for analytics)
	GetStatement(ctx context.Context, key model.StatementKey) (*model.FinancialStatement, error)
	LatestIncome(ctx context.Context, companyID int64, asOf time.Time) (*model.IncomeDetail, error)
	LatestBalance(ctx context.Context, companyID int64, asOf time.Time) (*model.BalanceDetail, error)
	RecentQuarterlyIncome(ctx context.Context, companyID int64, limit int) ([]QuarterlyIncome, error)

	// Prices
	UpsertPrices(ctx context.Context, points []model.PricePoint) (int64, error)
	PriceNear(ctx context.Context, companyID int64, asOf time.Time) (*model.PricePoint, error)
	PriceHistory(ctx context.Context, companyID int64, from, to time.Time) ([]model.PricePoint, error)

	// Valuations
	SaveValuation(ctx context.Context, v *model.ValuationSnapshot) error
	LatestValuation(ctx context.Context, companyID int64, asOf time.Time) (*model.ValuationSnapshot, error)

	// Forecasts
	SaveForecast(ctx context.Context, f *model.Forecast) error

	// Status
	Counts(ctx context.Context) (*EntityCounts, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
