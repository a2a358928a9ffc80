package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fintide/internal/db"
	"github.com/sells-group/fintide/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool. Statement
// reuse comes from pgx's automatic statement cache; no manual preparation.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock and
// by the statement loaders, which share the store's pool for their
// transactional upserts.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

// Pool returns the underlying database pool for subsystems that need direct
// transactional access (the statement loaders).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	ticker     TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	sector     TEXT,
	exchange   TEXT,
	market_cap DOUBLE PRECISION,
	currency   TEXT NOT NULL DEFAULT 'USD',
	active     BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS financial_statements (
	id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	company_id     BIGINT NOT NULL REFERENCES companies(id),
	fiscal_year    INTEGER NOT NULL,
	fiscal_quarter TEXT NOT NULL,
	statement_type TEXT NOT NULL,
	period_end     DATE NOT NULL,
	filing_date    DATE,
	currency       TEXT NOT NULL DEFAULT 'USD',
	UNIQUE (company_id, fiscal_year, fiscal_quarter, statement_type)
);

CREATE TABLE IF NOT EXISTS income_details (
	statement_id       BIGINT PRIMARY KEY REFERENCES financial_statements(id) ON DELETE CASCADE,
	revenue            DOUBLE PRECISION,
	cost_of_revenue    DOUBLE PRECISION,
	gross_profit       DOUBLE PRECISION,
	operating_expenses DOUBLE PRECISION,
	operating_income   DOUBLE PRECISION,
	interest_expense   DOUBLE PRECISION,
	income_before_tax  DOUBLE PRECISION,
	income_tax_expense DOUBLE PRECISION,
	net_income         DOUBLE PRECISION,
	eps_basic          DOUBLE PRECISION,
	eps_diluted        DOUBLE PRECISION,
	shares_outstanding DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS balance_details (
	statement_id             BIGINT PRIMARY KEY REFERENCES financial_statements(id) ON DELETE CASCADE,
	total_assets             DOUBLE PRECISION,
	current_assets           DOUBLE PRECISION,
	cash_and_equivalents     DOUBLE PRECISION,
	accounts_receivable      DOUBLE PRECISION,
	inventory                DOUBLE PRECISION,
	non_current_assets       DOUBLE PRECISION,
	property_plant_equipment DOUBLE PRECISION,
	total_liabilities        DOUBLE PRECISION,
	current_liabilities      DOUBLE PRECISION,
	accounts_payable         DOUBLE PRECISION,
	short_term_debt          DOUBLE PRECISION,
	long_term_debt           DOUBLE PRECISION,
	total_equity             DOUBLE PRECISION,
	retained_earnings        DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS cash_flow_details (
	statement_id        BIGINT PRIMARY KEY REFERENCES financial_statements(id) ON DELETE CASCADE,
	operating_cash_flow DOUBLE PRECISION,
	investing_cash_flow DOUBLE PRECISION,
	financing_cash_flow DOUBLE PRECISION,
	net_change_in_cash  DOUBLE PRECISION,
	capital_expenditure DOUBLE PRECISION,
	free_cash_flow      DOUBLE PRECISION,
	dividends_paid      DOUBLE PRECISION,
	stock_repurchases   DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS price_points (
	company_id     BIGINT NOT NULL REFERENCES companies(id),
	trade_date     DATE NOT NULL,
	open           DOUBLE PRECISION NOT NULL,
	high           DOUBLE PRECISION NOT NULL,
	low            DOUBLE PRECISION NOT NULL,
	close          DOUBLE PRECISION NOT NULL,
	adjusted_close DOUBLE PRECISION NOT NULL,
	volume         BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (company_id, trade_date)
);

CREATE TABLE IF NOT EXISTS valuation_snapshots (
	company_id           BIGINT NOT NULL REFERENCES companies(id),
	calculation_date     DATE NOT NULL,
	price                DOUBLE PRECISION NOT NULL,
	eps                  DOUBLE PRECISION,
	pe_ratio             DOUBLE PRECISION,
	pb_ratio             DOUBLE PRECISION,
	roe                  DOUBLE PRECISION,
	roa                  DOUBLE PRECISION,
	debt_to_equity       DOUBLE PRECISION,
	gross_margin         DOUBLE PRECISION,
	operating_margin     DOUBLE PRECISION,
	net_margin           DOUBLE PRECISION,
	book_value_per_share DOUBLE PRECISION,
	pe_category          TEXT NOT NULL DEFAULT 'Unknown',
	PRIMARY KEY (company_id, calculation_date)
);

CREATE TABLE IF NOT EXISTS forecasts (
	company_id       BIGINT NOT NULL REFERENCES companies(id),
	forecast_date    DATE NOT NULL,
	target_date      DATE NOT NULL,
	target_price     DOUBLE PRECISION NOT NULL,
	forecast_revenue DOUBLE PRECISION,
	forecast_eps     DOUBLE PRECISION,
	recommendation   TEXT NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL CHECK (confidence_score >= 0 AND confidence_score <= 1),
	model_version    TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (company_id, forecast_date, target_date)
);

CREATE INDEX IF NOT EXISTS idx_statements_company_period ON financial_statements(company_id, period_end DESC);
CREATE INDEX IF NOT EXISTS idx_price_points_company_date ON price_points(company_id, trade_date DESC);
CREATE INDEX IF NOT EXISTS idx_forecasts_company_target ON forecasts(company_id, target_date);
`

const migrationLockID = 7390122

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

// Migrate applies the schema under a session advisory lock so overlapping
// deploys cannot run DDL concurrently.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return eris.Wrap(err, "postgres: acquire migration advisory lock")
	}
	defer func() {
		if _, err := s.pool.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			zap.L().Warn("postgres: failed to release migration advisory lock", zap.Error(err))
		}
	}()

	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertCompany(ctx context.Context, c *model.Company) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO companies (ticker, name, sector, exchange, market_cap, currency, active)
		 VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'USD'), $7)
		 ON CONFLICT (ticker) DO UPDATE SET
		   name = EXCLUDED.name, sector = EXCLUDED.sector, exchange = EXCLUDED.exchange,
		   market_cap = EXCLUDED.market_cap, currency = EXCLUDED.currency,
		   active = EXCLUDED.active, updated_at = now()
		 RETURNING id`,
		c.Ticker, c.Name, c.Sector, c.Exchange, c.MarketCap, c.Currency, c.Active,
	).Scan(&id)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: upsert company %s", c.Ticker)
	}
	c.ID = id
	return id, nil
}

func (s *PostgresStore) GetCompany(ctx context.Context, id int64) (*model.Company, error) {
	return s.scanCompany(s.pool.QueryRow(ctx,
		`SELECT id, ticker, name, COALESCE(sector, ''), COALESCE(exchange, ''), market_cap, currency, active, created_at, updated_at
		 FROM companies WHERE id = $1`, id))
}

func (s *PostgresStore) GetCompanyByTicker(ctx context.Context, ticker string) (*model.Company, error) {
	return s.scanCompany(s.pool.QueryRow(ctx,
		`SELECT id, ticker, name, COALESCE(sector, ''), COALESCE(exchange, ''), market_cap, currency, active, created_at, updated_at
		 FROM companies WHERE ticker = $1`, ticker))
}

func (s *PostgresStore) scanCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.Ticker, &c.Name, &c.Sector, &c.Exchange, &c.MarketCap, &c.Currency, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get company")
	}
	return &c, nil
}

func (s *PostgresStore) ListCompanyIDs(ctx context.Context, activeOnly bool) ([]int64, error) {
	query := `SELECT id FROM companies`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY ticker`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list companies iterate")
}

func (s *PostgresStore) GetStatement(ctx context.Context, key model.StatementKey) (*model.FinancialStatement, error) {
	var st model.FinancialStatement
	var stmtType string
	err := s.pool.QueryRow(ctx,
		`SELECT id, company_id, fiscal_year, fiscal_quarter, statement_type, period_end, filing_date, currency
		 FROM financial_statements
		 WHERE company_id = $1 AND fiscal_year = $2 AND fiscal_quarter = $3 AND statement_type = $4`,
		key.CompanyID, key.FiscalYear, key.FiscalQuarter, string(key.Type),
	).Scan(&st.ID, &st.CompanyID, &st.FiscalYear, &st.FiscalQuarter, &stmtType, &st.PeriodEnd, &st.FilingDate, &st.Currency)
	st.Type = model.StatementType(stmtType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get statement")
	}
	return &st, nil
}

func (s *PostgresStore) LatestIncome(ctx context.Context, companyID int64, asOf time.Time) (*model.IncomeDetail, error) {
	var d model.IncomeDetail
	err := s.pool.QueryRow(ctx,
		`SELECT d.statement_id, d.revenue, d.cost_of_revenue, d.gross_profit, d.operating_expenses,
		        d.operating_income, d.interest_expense, d.income_before_tax, d.income_tax_expense,
		        d.net_income, d.eps_basic, d.eps_diluted, d.shares_outstanding
		 FROM income_details d
		 JOIN financial_statements s ON s.id = d.statement_id
		 WHERE s.company_id = $1 AND COALESCE(s.filing_date, s.period_end) <= $2
		 ORDER BY s.period_end DESC
		 LIMIT 1`,
		companyID, asOf,
	).Scan(
		&d.StatementID, &d.Revenue, &d.CostOfRevenue, &d.GrossProfit, &d.OperatingExpenses,
		&d.OperatingIncome, &d.InterestExpense, &d.IncomeBeforeTax, &d.IncomeTaxExpense,
		&d.NetIncome, &d.EPSBasic, &d.EPSDiluted, &d.SharesOutstanding,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: latest income for company %d", companyID)
	}
	return &d, nil
}

func (s *PostgresStore) LatestBalance(ctx context.Context, companyID int64, asOf time.Time) (*model.BalanceDetail, error) {
	var d model.BalanceDetail
	err := s.pool.QueryRow(ctx,
		`SELECT d.statement_id, d.total_assets, d.current_assets, d.cash_and_equivalents,
		        d.accounts_receivable, d.inventory, d.non_current_assets, d.property_plant_equipment,
		        d.total_liabilities, d.current_liabilities, d.accounts_payable,
		        d.short_term_debt, d.long_term_debt, d.total_equity, d.retained_earnings
		 FROM balance_details d
		 JOIN financial_statements s ON s.id = d.statement_id
		 WHERE s.company_id = $1 AND COALESCE(s.filing_date, s.period_end) <= $2
		 ORDER BY s.period_end DESC
		 LIMIT 1`,
		companyID, asOf,
	).Scan(
		&d.StatementID, &d.TotalAssets, &d.CurrentAssets, &d.CashAndEquivalents,
		&d.AccountsReceivable, &d.Inventory, &d.NonCurrentAssets, &d.PropertyPlantEquipment,
		&d.TotalLiabilities, &d.CurrentLiabilities, &d.AccountsPayable,
		&d.ShortTermDebt, &d.LongTermDebt, &d.TotalEquity, &d.RetainedEarnings,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: latest balance for company %d", companyID)
	}
	return &d, nil
}

func (s *PostgresStore) RecentQuarterlyIncome(ctx context.Context, companyID int64, limit int) ([]QuarterlyIncome, error) {
	if limit <= 0 {
		limit = 4
	}
	rows, err := s.pool.Query(ctx,
		`SELECT s.fiscal_year, s.fiscal_quarter, s.period_end, d.revenue, d.eps_diluted, d.net_income
		 FROM income_details d
		 JOIN financial_statements s ON s.id = d.statement_id
		 WHERE s.company_id = $1 AND s.fiscal_quarter <> $2
		 ORDER BY s.period_end DESC
		 LIMIT $3`,
		companyID, model.AnnualTag, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: recent quarterly income for company %d", companyID)
	}
	defer rows.Close()

	var out []QuarterlyIncome
	for rows.Next() {
		var q QuarterlyIncome
		if err := rows.Scan(&q.FiscalYear, &q.FiscalQuarter, &q.PeriodEnd, &q.Revenue, &q.EPSDiluted, &q.NetIncome); err != nil {
			return nil, eris.Wrap(err, "postgres: scan quarterly income")
		}
		out = append(out, q)
	}
	return out, eris.Wrap(rows.Err(), "postgres: recent quarterly income iterate")
}

// priceColumns is the column order used by UpsertPrices and the price scans.
var priceColumns = []string{"company_id", "trade_date", "open", "high", "low", "close", "adjusted_close", "volume"}

func (s *PostgresStore) UpsertPrices(ctx context.Context, points []model.PricePoint) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(points))
	for _, p := range points {
		rows = append(rows, []any{p.CompanyID, p.TradeDate, p.Open, p.High, p.Low, p.Close, p.AdjustedClose, p.Volume})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "price_points",
		Columns:      priceColumns,
		ConflictKeys: []string{"company_id", "trade_date"},
	}, rows)
	return n, eris.Wrap(err, "postgres: upsert prices")
}

func (s *PostgresStore) PriceNear(ctx context.Context, companyID int64, asOf time.Time) (*model.PricePoint, error) {
	var p model.PricePoint
	err := s.pool.QueryRow(ctx,
		`SELECT company_id, trade_date, open, high, low, close, adjusted_close, volume
		 FROM price_points
		 WHERE company_id = $1 AND trade_date <= $2
		 ORDER BY trade_date DESC
		 LIMIT 1`,
		companyID, asOf,
	).Scan(
		&p.CompanyID, &p.TradeDate, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjustedClose, &p.Volume,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: price near %s for company %d", asOf.Format("2006-01-02"), companyID)
	}
	return &p, nil
}

func (s *PostgresStore) PriceHistory(ctx context.Context, companyID int64, from, to time.Time) ([]model.PricePoint, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company_id, trade_date, open, high, low, close, adjusted_close, volume
		 FROM price_points
		 WHERE company_id = $1 AND trade_date >= $2 AND trade_date <= $3
		 ORDER BY trade_date ASC`,
		companyID, from, to,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: price history for company %d", companyID)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.CompanyID, &p.TradeDate, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjustedClose, &p.Volume); err != nil {
			return nil, eris.Wrap(err, "postgres: scan price point")
		}
		points = append(points, p)
	}
	return points, eris.Wrap(rows.Err(), "postgres: price history iterate")
}

func (s *PostgresStore) SaveValuation(ctx context.Context, v *model.ValuationSnapshot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO valuation_snapshots
		 (company_id, calculation_date, price, eps, pe_ratio, pb_ratio, roe, roa, debt_to_equity,
		  gross_margin, operating_margin, net_margin, book_value_per_share, pe_category)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (company_id, calculation_date) DO UPDATE SET
		   price = EXCLUDED.price, eps = EXCLUDED.eps, pe_ratio = EXCLUDED.pe_ratio,
		   pb_ratio = EXCLUDED.pb_ratio, roe = EXCLUDED.roe, roa = EXCLUDED.roa,
		   debt_to_equity = EXCLUDED.debt_to_equity, gross_margin = EXCLUDED.gross_margin,
		   operating_margin = EXCLUDED.operating_margin, net_margin = EXCLUDED.net_margin,
		   book_value_per_share = EXCLUDED.book_value_per_share, pe_category = EXCLUDED.pe_category`,
		v.CompanyID, v.CalculationDate, v.Price, v.EPS, v.PERatio, v.PBRatio, v.ROE, v.ROA,
		v.DebtToEquity, v.GrossMargin, v.OperatingMargin, v.NetMargin, v.BookValuePerShare, string(v.PECategory),
	)
	return eris.Wrapf(err, "postgres: save valuation for company %d", v.CompanyID)
}

func (s *PostgresStore) LatestValuation(ctx context.Context, companyID int64, asOf time.Time) (*model.ValuationSnapshot, error) {
	var v model.ValuationSnapshot
	var category string
	err := s.pool.QueryRow(ctx,
		`SELECT company_id, calculation_date, price, eps, pe_ratio, pb_ratio, roe, roa, debt_to_equity,
		        gross_margin, operating_margin, net_margin, book_value_per_share, pe_category
		 FROM valuation_snapshots
		 WHERE company_id = $1 AND calculation_date <= $2
		 ORDER BY calculation_date DESC LIMIT 1`,
		companyID, asOf,
	).Scan(&v.CompanyID, &v.CalculationDate, &v.Price, &v.EPS, &v.PERatio, &v.PBRatio, &v.ROE, &v.ROA,
		&v.DebtToEquity, &v.GrossMargin, &v.OperatingMargin, &v.NetMargin, &v.BookValuePerShare, &category)
	v.PECategory = model.PECategory(category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: latest valuation for company %d", companyID)
	}
	return &v, nil
}

func (s *PostgresStore) SaveForecast(ctx context.Context, f *model.Forecast) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO forecasts
		 (company_id, forecast_date, target_date, target_price, forecast_revenue, forecast_eps,
		  recommendation, confidence_score, model_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (company_id, forecast_date, target_date) DO UPDATE SET
		   target_price = EXCLUDED.target_price, forecast_revenue = EXCLUDED.forecast_revenue,
		   forecast_eps = EXCLUDED.forecast_eps, recommendation = EXCLUDED.recommendation,
		   confidence_score = EXCLUDED.confidence_score, model_version = EXCLUDED.model_version,
		   created_at = now()`,
		f.CompanyID, f.ForecastDate, f.TargetDate, f.TargetPrice, f.ForecastRevenue, f.ForecastEPS,
		string(f.Recommendation), f.ConfidenceScore, f.ModelVersion,
	)
	return eris.Wrapf(err, "postgres: save forecast for company %d", f.CompanyID)
}

func (s *PostgresStore) Counts(ctx context.Context) (*EntityCounts, error) {
	var c EntityCounts
	err := s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT count(*) FROM companies),
		   (SELECT count(*) FROM financial_statements),
		   (SELECT count(*) FROM price_points),
		   (SELECT count(*) FROM valuation_snapshots),
		   (SELECT count(*) FROM forecasts),
		   (SELECT max(trade_date) FROM price_points)`,
	).Scan(&c.Companies, &c.Statements, &c.PricePoints, &c.Valuations, &c.Forecasts, &c.LatestPrice)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: counts")
	}
	return &c, nil
}
