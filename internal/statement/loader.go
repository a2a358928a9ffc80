package statement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fintide/internal/db"
	"github.com/sells-group/fintide/internal/fields"
	"github.com/sells-group/fintide/internal/model"
)

// Definition parameterizes the generic loader for one statement type. The
// alias table and the derived-fallback rules are the only per-type inputs;
// the load routine itself is shared.
type Definition struct {
	Type   model.StatementType
	Table  string                        // detail table; canonical field names match its columns
	Specs  []fields.Spec                 // ordered alias table
	Derive func(vals map[string]*float64) // type-specific fallbacks, applied after resolution
}

// Loader ingests raw records for one statement type.
type Loader struct {
	pool db.Pool
	def  Definition
}

// NewLoader builds a loader for the definition backed by the given pool.
func NewLoader(pool db.Pool, def Definition) *Loader {
	return &Loader{pool: pool, def: def}
}

// Type returns the statement type this loader handles.
func (l *Loader) Type() model.StatementType {
	return l.def.Type
}

// Load ingests one raw record for a company and period. It resolves the
// statement key and upserts the detail row inside a single transaction, so
// concurrent ingestions of the same company/period cannot race between the
// key lookup and the detail write.
//
// Missing company id, period date, or record body is a caller error: the
// returned error wraps ErrMissingInput so callers can skip the record
// instead of failing the company. Store failures return plain errors.
func (l *Loader) Load(ctx context.Context, companyID int64, record model.RawRecord, periodDate time.Time, annual bool) (bool, error) {
	if companyID == 0 || periodDate.IsZero() {
		return false, eris.Wrapf(ErrMissingInput,
			"statement: %s record company_id=%d has_period=%t", l.def.Type, companyID, !periodDate.IsZero())
	}
	if len(record) == 0 {
		return false, eris.Wrapf(ErrMissingInput,
			"statement: empty %s record for company %d", l.def.Type, companyID)
	}

	year, quarter := FiscalKey(periodDate, annual)
	key := model.StatementKey{
		CompanyID:     companyID,
		FiscalYear:    year,
		FiscalQuarter: quarter,
		Type:          l.def.Type,
	}

	vals := fields.ResolveAll(record, l.def.Specs)
	l.logGaps(key, vals)
	if l.def.Derive != nil {
		l.def.Derive(vals)
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return false, eris.Wrap(err, "statement: begin tx")
	}
	defer tx.Rollback(ctx)

	filingDate := resolveFilingDate(record)
	currency := resolveCurrency(record)

	statementID, err := resolveStatementID(ctx, tx, key, periodDate, filingDate, currency)
	if err != nil {
		return false, err
	}

	if err := l.upsertDetail(ctx, tx, statementID, vals); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, eris.Wrap(err, "statement: commit tx")
	}

	zap.L().Debug("statement loaded",
		zap.String("type", string(l.def.Type)),
		zap.Int64("company_id", companyID),
		zap.Int("fiscal_year", year),
		zap.String("fiscal_quarter", quarter),
	)
	return true, nil
}

// upsertDetail writes the detail row keyed by statement id, overwriting
// every column on conflict. Absent fields are nil and become NULL; a
// re-ingested record fully replaces prior values, never merges.
func (l *Loader) upsertDetail(ctx context.Context, tx pgx.Tx, statementID int64, vals map[string]*float64) error {
	cols := make([]string, 0, len(l.def.Specs)+1)
	args := make([]any, 0, len(l.def.Specs)+1)
	cols = append(cols, "statement_id")
	args = append(args, statementID)
	for _, s := range l.def.Specs {
		cols = append(cols, s.Canonical)
		args = append(args, vals[s.Canonical])
	}

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	var setClauses []string
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c != "statement_id" {
			setClauses = append(setClauses, fmt.Sprintf("%s = EXCLUDED.%s", quoted[i], quoted[i]))
		}
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (statement_id) DO UPDATE SET %s",
		pgx.Identifier{l.def.Table}.Sanitize(),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(setClauses, ", "),
	)

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return eris.Wrapf(err, "statement: upsert %s", l.def.Table)
	}
	return nil
}

// logGaps records required canonical fields that stayed absent after every
// alias was tried. The row is still written with nulls.
func (l *Loader) logGaps(key model.StatementKey, vals map[string]*float64) {
	for _, s := range l.def.Specs {
		if s.Required && vals[s.Canonical] == nil {
			zap.L().Warn("statement: field resolution gap",
				zap.String("type", string(key.Type)),
				zap.Int64("company_id", key.CompanyID),
				zap.Int("fiscal_year", key.FiscalYear),
				zap.String("fiscal_quarter", key.FiscalQuarter),
				zap.String("field", s.Canonical),
			)
		}
	}
}

// filingDateAliases and currencyAliases cover the record-level metadata
// vendors attach next to the numeric fields.
var filingDateAliases = []string{"filing_date", "filingDate", "fillingDate", "date_filed"}
var currencyAliases = []string{"currency", "reportedCurrency", "currency_code"}

func resolveFilingDate(record model.RawRecord) *time.Time {
	for _, alias := range filingDateAliases {
		raw, ok := record[alias]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case time.Time:
			return &v
		case string:
			for _, layout := range []string{"2006-01-02", time.RFC3339} {
				if t, err := time.Parse(layout, v); err == nil {
					return &t
				}
			}
		}
	}
	return nil
}

func resolveCurrency(record model.RawRecord) string {
	for _, alias := range currencyAliases {
		if v, ok := record[alias].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
