package model

import "time"

// StatementType identifies which of the three statement shapes a record is.
type StatementType string

const (
	StatementIncome   StatementType = "income"
	StatementBalance  StatementType = "balance"
	StatementCashFlow StatementType = "cash_flow"
)

// AnnualTag is the fiscal_quarter value for full-year statements.
const AnnualTag = "FY"

// StatementKey is the natural key of a FinancialStatement row. Exactly one
// statement exists per key; every detail upsert resolves through it.
type StatementKey struct {
	CompanyID     int64         `json:"company_id"`
	FiscalYear    int           `json:"fiscal_year"`
	FiscalQuarter string        `json:"fiscal_quarter"`
	Type          StatementType `json:"statement_type"`
}

// FinancialStatement is the superclass record owning one detail row.
type FinancialStatement struct {
	ID            int64         `json:"id"`
	CompanyID     int64         `json:"company_id"`
	FiscalYear    int           `json:"fiscal_year"`
	FiscalQuarter string        `json:"fiscal_quarter"`
	Type          StatementType `json:"statement_type"`
	PeriodEnd     time.Time     `json:"period_end"`
	FilingDate    *time.Time    `json:"filing_date,omitempty"`
	Currency      string        `json:"currency,omitempty"`
}

// Key returns the natural key of the statement.
func (s FinancialStatement) Key() StatementKey {
	return StatementKey{
		CompanyID:     s.CompanyID,
		FiscalYear:    s.FiscalYear,
		FiscalQuarter: s.FiscalQuarter,
		Type:          s.Type,
	}
}

// IncomeDetail holds the income-statement line items for one statement.
// Nil means the vendor never supplied the field and nothing could derive it.
type IncomeDetail struct {
	StatementID       int64    `json:"statement_id"`
	Revenue           *float64 `json:"revenue,omitempty"`
	CostOfRevenue     *float64 `json:"cost_of_revenue,omitempty"`
	GrossProfit       *float64 `json:"gross_profit,omitempty"`
	OperatingExpenses *float64 `json:"operating_expenses,omitempty"`
	OperatingIncome   *float64 `json:"operating_income,omitempty"`
	InterestExpense   *float64 `json:"interest_expense,omitempty"`
	IncomeBeforeTax   *float64 `json:"income_before_tax,omitempty"`
	IncomeTaxExpense  *float64 `json:"income_tax_expense,omitempty"`
	NetIncome         *float64 `json:"net_income,omitempty"`
	EPSBasic          *float64 `json:"eps_basic,omitempty"`
	EPSDiluted        *float64 `json:"eps_diluted,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
}

// BalanceDetail holds the balance-sheet line items for one statement.
type BalanceDetail struct {
	StatementID            int64    `json:"statement_id"`
	TotalAssets            *float64 `json:"total_assets,omitempty"`
	CurrentAssets          *float64 `json:"current_assets,omitempty"`
	CashAndEquivalents     *float64 `json:"cash_and_equivalents,omitempty"`
	AccountsReceivable     *float64 `json:"accounts_receivable,omitempty"`
	Inventory              *float64 `json:"inventory,omitempty"`
	NonCurrentAssets       *float64 `json:"non_current_assets,omitempty"`
	PropertyPlantEquipment *float64 `json:"property_plant_equipment,omitempty"`
	TotalLiabilities       *float64 `json:"total_liabilities,omitempty"`
	CurrentLiabilities     *float64 `json:"current_liabilities,omitempty"`
	AccountsPayable        *float64 `json:"accounts_payable,omitempty"`
	ShortTermDebt          *float64 `json:"short_term_debt,omitempty"`
	LongTermDebt           *float64 `json:"long_term_debt,omitempty"`
	TotalEquity            *float64 `json:"total_equity,omitempty"`
	RetainedEarnings       *float64 `json:"retained_earnings,omitempty"`
}
