package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/resilience"
	"github.com/sells-group/fintide/internal/store"
)

// fakeStore serves canned data and records writes for orchestrator tests.
// Failure injection counts down transient errors before a write succeeds.
type fakeStore struct {
	mu sync.Mutex

	income    *model.IncomeDetail
	balance   *model.BalanceDetail
	price     *model.PricePoint
	history   []model.PricePoint
	valuation *model.ValuationSnapshot
	quarters  []store.QuarterlyIncome

	historyErr error

	valuationFailures int
	forecastFailures  int

	savedValuations []*model.ValuationSnapshot
	savedForecasts  []*model.Forecast
}

func (f *fakeStore) PriceNear(context.Context, int64, time.Time) (*model.PricePoint, error) {
	return f.price, nil
}

func (f *fakeStore) LatestIncome(context.Context, int64, time.Time) (*model.IncomeDetail, error) {
	return f.income, nil
}

func (f *fakeStore) LatestBalance(context.Context, int64, time.Time) (*model.BalanceDetail, error) {
	return f.balance, nil
}

func (f *fakeStore) PriceHistory(context.Context, int64, time.Time, time.Time) ([]model.PricePoint, error) {
	return f.history, f.historyErr
}

func (f *fakeStore) LatestValuation(context.Context, int64, time.Time) (*model.ValuationSnapshot, error) {
	return f.valuation, nil
}

func (f *fakeStore) RecentQuarterlyIncome(context.Context, int64, int) ([]store.QuarterlyIncome, error) {
	return f.quarters, nil
}

func (f *fakeStore) SaveValuation(_ context.Context, v *model.ValuationSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.valuationFailures > 0 {
		f.valuationFailures--
		return resilience.NewTransientError(errTransientWrite)
	}
	f.savedValuations = append(f.savedValuations, v)
	return nil
}

func (f *fakeStore) SaveForecast(_ context.Context, fc *model.Forecast) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forecastFailures > 0 {
		f.forecastFailures--
		return resilience.NewTransientError(errTransientWrite)
	}
	f.savedForecasts = append(f.savedForecasts, fc)
	return nil
}

func (f *fakeStore) UpsertCompany(context.Context, *model.Company) (int64, error) { return 0, nil }
func (f *fakeStore) GetCompany(context.Context, int64) (*model.Company, error)    { return nil, nil }
func (f *fakeStore) GetCompanyByTicker(context.Context, string) (*model.Company, error) {
	return nil, nil
}
func (f *fakeStore) ListCompanyIDs(context.Context, bool) ([]int64, error) { return nil, nil }
func (f *fakeStore) GetStatement(context.Context, model.StatementKey) (*model.FinancialStatement, error) {
	return nil, nil
}
func (f *fakeStore) UpsertPrices(context.Context, []model.PricePoint) (int64, error) { return 0, nil }
func (f *fakeStore) Counts(context.Context) (*store.EntityCounts, error)             { return nil, nil }
func (f *fakeStore) Migrate(context.Context) error                                   { return nil }
func (f *fakeStore) Ping(context.Context) error                                      { return nil }
func (f *fakeStore) Close() error                                                    { return nil }

// fakeSource hands out pending records keyed by company.
type fakeSource struct {
	records map[int64][]StatementRecord
	err     error
}

func (f *fakeSource) PendingStatements(_ context.Context, companyID int64) ([]StatementRecord, error) {
	return f.records[companyID], f.err
}
