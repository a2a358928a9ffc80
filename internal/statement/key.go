// Package statement ingests vendor statement records: it resolves the
// fiscal-period key, normalizes fields through the alias tables, applies
// derived fallbacks, and upserts one detail row per statement.
package statement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/fintide/internal/model"
)

// ErrDataIntegrity reports that statement-key resolution produced no id
// after both the insert and the fallback lookup. Fatal for that statement.
var ErrDataIntegrity = errors.New("statement key resolution returned no id")

// ErrMissingInput reports caller errors (no company id, no period date).
var ErrMissingInput = errors.New("missing required input")

// FiscalKey derives the fiscal period for a statement date. Fiscal year is
// the calendar year; the quarter tag is Q1..Q4 from the month, or the
// annual tag for full-year statements.
func FiscalKey(periodDate time.Time, annual bool) (year int, quarter string) {
	year = periodDate.Year()
	if annual {
		return year, model.AnnualTag
	}
	return year, fmt.Sprintf("Q%d", (int(periodDate.Month())-1)/3+1)
}

// resolveStatementID gets-or-creates the FinancialStatement row for the key
// inside the caller's transaction and returns its id. The insert races are
// settled by ON CONFLICT DO NOTHING plus a fallback lookup by the same
// natural key; this is the single shared implementation used by every
// loader. On the lookup path the statement's non-identity attributes
// (period end, filing date, currency) are overwritten from the new record.
func resolveStatementID(ctx context.Context, tx pgx.Tx, key model.StatementKey, periodEnd time.Time, filingDate *time.Time, currency string) (int64, error) {
	if currency == "" {
		currency = "USD"
	}

	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO financial_statements (company_id, fiscal_year, fiscal_quarter, statement_type, period_end, filing_date, currency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (company_id, fiscal_year, fiscal_quarter, statement_type) DO NOTHING
		 RETURNING id`,
		key.CompanyID, key.FiscalYear, key.FiscalQuarter, string(key.Type), periodEnd, filingDate, currency,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, eris.Wrap(err, "statement: insert statement key")
	}

	// Key already existed; look it up and refresh its attributes.
	err = tx.QueryRow(ctx,
		`SELECT id FROM financial_statements
		 WHERE company_id = $1 AND fiscal_year = $2 AND fiscal_quarter = $3 AND statement_type = $4`,
		key.CompanyID, key.FiscalYear, key.FiscalQuarter, string(key.Type),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, eris.Wrapf(ErrDataIntegrity,
				"statement: company %d %d%s %s", key.CompanyID, key.FiscalYear, key.FiscalQuarter, key.Type)
		}
		return 0, eris.Wrap(err, "statement: lookup statement key")
	}

	if _, err := tx.Exec(ctx,
		`UPDATE financial_statements SET period_end = $1, filing_date = $2, currency = $3 WHERE id = $4`,
		periodEnd, filingDate, currency, id,
	); err != nil {
		return 0, eris.Wrap(err, "statement: refresh statement attributes")
	}
	return id, nil
}
