package valuation

import (
	"context"
	"time"

	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/store"
)

// fakeStore returns canned statement and price data for calculator tests.
type fakeStore struct {
	income  *model.IncomeDetail
	balance *model.BalanceDetail
	price   *model.PricePoint
	err     error

	saved []*model.ValuationSnapshot
}

func (f *fakeStore) PriceNear(_ context.Context, _ int64, _ time.Time) (*model.PricePoint, error) {
	return f.price, f.err
}

func (f *fakeStore) LatestIncome(_ context.Context, _ int64, _ time.Time) (*model.IncomeDetail, error) {
	return f.income, f.err
}

func (f *fakeStore) LatestBalance(_ context.Context, _ int64, _ time.Time) (*model.BalanceDetail, error) {
	return f.balance, f.err
}

func (f *fakeStore) SaveValuation(_ context.Context, v *model.ValuationSnapshot) error {
	f.saved = append(f.saved, v)
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
func (f *fakeStore) RecentQuarterlyIncome(context.Context, int64, int) ([]store.QuarterlyIncome, error) {
	return nil, nil
}
func (f *fakeStore) UpsertPrices(context.Context, []model.PricePoint) (int64, error) { return 0, nil }
func (f *fakeStore) PriceHistory(context.Context, int64, time.Time, time.Time) ([]model.PricePoint, error) {
	return nil, nil
}
func (f *fakeStore) LatestValuation(context.Context, int64, time.Time) (*model.ValuationSnapshot, error) {
	return nil, nil
}
func (f *fakeStore) SaveForecast(context.Context, *model.Forecast) error     { return nil }
func (f *fakeStore) Counts(context.Context) (*store.EntityCounts, error)     { return nil, nil }
func (f *fakeStore) Migrate(context.Context) error                           { return nil }
func (f *fakeStore) Ping(context.Context) error                              { return nil }
func (f *fakeStore) Close() error                                            { return nil }
