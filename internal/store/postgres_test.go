package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fintide/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_UpsertCompany(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO companies`).
		WithArgs("ACME", "Acme Corp", "Industrials", "NYSE", (*float64)(nil), "USD", true).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

	c := &model.Company{Ticker: "ACME", Name: "Acme Corp", Sector: "Industrials", Exchange: "NYSE", Currency: "USD", Active: true}
	id, err := s.UpsertCompany(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, int64(12), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCompany_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .* FROM companies WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	c, err := s.GetCompany(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetStatement(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	periodEnd := time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM financial_statements`).
		WithArgs(int64(1), 2024, "Q3", "income").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "fiscal_year", "fiscal_quarter", "statement_type", "period_end", "filing_date", "currency",
		}).AddRow(int64(5), int64(1), 2024, "Q3", "income", periodEnd, (*time.Time)(nil), "USD"))

	st, err := s.GetStatement(context.Background(), model.StatementKey{
		CompanyID: 1, FiscalYear: 2024, FiscalQuarter: "Q3", Type: model.StatementIncome,
	})
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, int64(5), st.ID)
	assert.Equal(t, model.StatementIncome, st.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetStatement_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .* FROM financial_statements`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	st, err := s.GetStatement(context.Background(), model.StatementKey{
		CompanyID: 1, FiscalYear: 2024, FiscalQuarter: "Q1", Type: model.StatementBalance,
	})
	require.NoError(t, err)
	assert.Nil(t, st)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PriceNear_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .* FROM price_points`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"company_id"}))

	p, err := s.PriceNear(context.Background(), 1, time.Now())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PriceHistory(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	d1 := time.Date(2024, time.November, 4, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM price_points`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(priceColumns).
			AddRow(int64(1), d1, 99.5, 101.2, 98.9, 100.0, 99.8, int64(1000)).
			AddRow(int64(1), d2, 100.1, 102.0, 99.7, 101.5, 101.5, int64(900)))

	points, err := s.PriceHistory(context.Background(), 1, d1, d2)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 100.0, points[0].Close)
	assert.Equal(t, d2, points[1].TradeDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecentQuarterlyIncome_ExcludesAnnual(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	periodEnd := time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC)
	rev := 1000.0
	eps := 1.5
	mock.ExpectQuery(`SELECT .* FROM income_details`).
		WithArgs(int64(1), model.AnnualTag, 4).
		WillReturnRows(pgxmock.NewRows([]string{
			"fiscal_year", "fiscal_quarter", "period_end", "revenue", "eps_diluted", "net_income",
		}).AddRow(2024, "Q3", periodEnd, &rev, &eps, (*float64)(nil)))

	quarters, err := s.RecentQuarterlyIncome(context.Background(), 1, 4)
	require.NoError(t, err)
	require.Len(t, quarters, 1)
	assert.Equal(t, "Q3", quarters[0].FiscalQuarter)
	require.NotNil(t, quarters[0].EPSDiluted)
	assert.Equal(t, 1.5, *quarters[0].EPSDiluted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertPrices_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.UpsertPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveValuation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO valuation_snapshots`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	pe := 20.0
	err := s.SaveValuation(context.Background(), &model.ValuationSnapshot{
		CompanyID:       1,
		CalculationDate: time.Date(2024, time.December, 2, 0, 0, 0, 0, time.UTC),
		Price:           50,
		PERatio:         &pe,
		PECategory:      model.PEFairlyValued,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveForecast(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO forecasts`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SaveForecast(context.Background(), &model.Forecast{
		CompanyID:       1,
		ForecastDate:    time.Date(2024, time.December, 2, 0, 0, 0, 0, time.UTC),
		TargetDate:      time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		TargetPrice:     105.5,
		Recommendation:  model.Hold,
		ConfidenceScore: 0.6,
		ModelVersion:    "math-v1.0",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestValuation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	calcDate := time.Date(2024, time.December, 2, 0, 0, 0, 0, time.UTC)
	pe := 18.5
	mock.ExpectQuery(`SELECT .* FROM valuation_snapshots`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{
			"company_id", "calculation_date", "price", "eps", "pe_ratio", "pb_ratio", "roe", "roa",
			"debt_to_equity", "gross_margin", "operating_margin", "net_margin", "book_value_per_share", "pe_category",
		}).AddRow(int64(1), calcDate, 50.0, (*float64)(nil), &pe, (*float64)(nil), (*float64)(nil), (*float64)(nil),
			(*float64)(nil), (*float64)(nil), (*float64)(nil), (*float64)(nil), (*float64)(nil), "Fairly Valued"))

	v, err := s.LatestValuation(context.Background(), 1, calcDate)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, model.PEFairlyValued, v.PECategory)
	require.NotNil(t, v.PERatio)
	assert.Equal(t, 18.5, *v.PERatio)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Counts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	latest := time.Date(2024, time.December, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT`).
		WillReturnRows(pgxmock.NewRows([]string{"c", "s", "p", "v", "f", "latest"}).
			AddRow(int64(3), int64(24), int64(5000), int64(12), int64(36), &latest))

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Companies)
	assert.Equal(t, int64(5000), counts.PricePoints)
	require.NotNil(t, counts.LatestPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate_LockFlow(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`SELECT pg_advisory_lock`).
		WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS companies`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`SELECT pg_advisory_unlock`).
		WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
