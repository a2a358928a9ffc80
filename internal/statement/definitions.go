package statement

import (
	"github.com/sells-group/fintide/internal/fields"
	"github.com/sells-group/fintide/internal/model"
)

// IncomeDefinition returns the loader definition for income statements.
// The specs argument lets callers pass alias tables extended by an override
// file; pass fields.IncomeSpecs for the built-ins.
func IncomeDefinition(specs []fields.Spec) Definition {
	return Definition{
		Type:   model.StatementIncome,
		Table:  "income_details",
		Specs:  specs,
		Derive: deriveIncome,
	}
}

// BalanceDefinition returns the loader definition for balance sheets.
func BalanceDefinition(specs []fields.Spec) Definition {
	return Definition{
		Type:   model.StatementBalance,
		Table:  "balance_details",
		Specs:  specs,
		Derive: deriveBalance,
	}
}

// CashFlowDefinition returns the loader definition for cash-flow statements.
func CashFlowDefinition(specs []fields.Spec) Definition {
	return Definition{
		Type:   model.StatementCashFlow,
		Table:  "cash_flow_details",
		Specs:  specs,
		Derive: deriveCashFlow,
	}
}

// deriveIncome fills income fields computable from others. Fallback chain:
//   - eps_basic = net_income / shares_outstanding (share count must be > 0)
//   - gross_profit = revenue - cost_of_revenue
//   - operating_income = gross_profit - operating_expenses
func deriveIncome(v map[string]*float64) {
	if v["gross_profit"] == nil && v["revenue"] != nil && v["cost_of_revenue"] != nil {
		gp := *v["revenue"] - *v["cost_of_revenue"]
		v["gross_profit"] = &gp
	}
	if v["operating_income"] == nil && v["gross_profit"] != nil && v["operating_expenses"] != nil {
		oi := *v["gross_profit"] - *v["operating_expenses"]
		v["operating_income"] = &oi
	}
	if v["eps_basic"] == nil && v["net_income"] != nil && v["shares_outstanding"] != nil && *v["shares_outstanding"] > 0 {
		eps := *v["net_income"] / *v["shares_outstanding"]
		v["eps_basic"] = &eps
	}
}

// deriveBalance fills total_liabilities from the accounting identity when
// the vendor omits it.
func deriveBalance(v map[string]*float64) {
	if v["total_liabilities"] == nil && v["total_assets"] != nil && v["total_equity"] != nil {
		tl := *v["total_assets"] - *v["total_equity"]
		v["total_liabilities"] = &tl
	}
}

// deriveCashFlow fills free_cash_flow = operating_cash_flow + capex. Vendors
// report capital expenditure as a negative outflow; a missing capex counts
// as zero rather than leaving FCF null alongside a known OCF.
func deriveCashFlow(v map[string]*float64) {
	if v["free_cash_flow"] == nil && v["operating_cash_flow"] != nil {
		capex := 0.0
		if v["capital_expenditure"] != nil {
			capex = *v["capital_expenditure"]
		}
		fcf := *v["operating_cash_flow"] + capex
		v["free_cash_flow"] = &fcf
	}
}
