package fields

// Built-in alias tables, one per statement type. Order matters: the first
// alias present in a record wins. Canonical names double as detail column
// names in the store.

// IncomeSpecs maps income-statement canonical fields to vendor aliases.
var IncomeSpecs = []Spec{
	{Canonical: "revenue", Aliases: []string{"revenue", "totalRevenue", "total_revenue", "sales", "netSales"}, Required: true},
	{Canonical: "cost_of_revenue", Aliases: []string{"cost_of_revenue", "costOfRevenue", "costOfGoodsSold", "cogs"}},
	{Canonical: "gross_profit", Aliases: []string{"gross_profit", "grossProfit"}},
	{Canonical: "operating_expenses", Aliases: []string{"operating_expenses", "operatingExpenses", "totalOperatingExpenses"}},
	{Canonical: "operating_income", Aliases: []string{"operating_income", "operatingIncome", "ebit"}},
	{Canonical: "interest_expense", Aliases: []string{"interest_expense", "interestExpense"}},
	{Canonical: "income_before_tax", Aliases: []string{"income_before_tax", "incomeBeforeTax", "pretaxIncome"}},
	{Canonical: "income_tax_expense", Aliases: []string{"income_tax_expense", "incomeTaxExpense", "provisionForIncomeTaxes"}},
	{Canonical: "net_income", Aliases: []string{"net_income", "netIncome", "netIncomeCommonStockholders"}, Required: true},
	{Canonical: "eps_basic", Aliases: []string{"eps_basic", "epsBasic", "basicEPS", "eps"}},
	{Canonical: "eps_diluted", Aliases: []string{"eps_diluted", "epsDiluted", "dilutedEPS"}},
	{Canonical: "shares_outstanding", Aliases: []string{"shares_outstanding", "sharesOutstanding", "basicAverageShares", "weightedAverageShares"}},
}

// BalanceSpecs maps balance-sheet canonical fields to vendor aliases.
var BalanceSpecs = []Spec{
	{Canonical: "total_assets", Aliases: []string{"total_assets", "totalAssets"}, Required: true},
	{Canonical: "current_assets", Aliases: []string{"current_assets", "currentAssets", "totalCurrentAssets"}},
	{Canonical: "cash_and_equivalents", Aliases: []string{"cash_and_equivalents", "cashAndEquivalents", "cashAndCashEquivalents", "cash"}},
	{Canonical: "accounts_receivable", Aliases: []string{"accounts_receivable", "accountsReceivable", "netReceivables"}},
	{Canonical: "inventory", Aliases: []string{"inventory", "inventories"}},
	{Canonical: "non_current_assets", Aliases: []string{"non_current_assets", "nonCurrentAssets", "totalNonCurrentAssets"}},
	{Canonical: "property_plant_equipment", Aliases: []string{"property_plant_equipment", "propertyPlantEquipment", "netPPE", "ppe"}},
	{Canonical: "total_liabilities", Aliases: []string{"total_liabilities", "totalLiabilities", "totalLiab"}},
	{Canonical: "current_liabilities", Aliases: []string{"current_liabilities", "currentLiabilities", "totalCurrentLiabilities"}},
	{Canonical: "accounts_payable", Aliases: []string{"accounts_payable", "accountsPayable"}},
	{Canonical: "short_term_debt", Aliases: []string{"short_term_debt", "shortTermDebt", "currentDebt"}},
	{Canonical: "long_term_debt", Aliases: []string{"long_term_debt", "longTermDebt"}},
	{Canonical: "total_equity", Aliases: []string{"total_equity", "totalEquity", "totalStockholderEquity", "stockholdersEquity"}, Required: true},
	{Canonical: "retained_earnings", Aliases: []string{"retained_earnings", "retainedEarnings"}},
}

// CashFlowSpecs maps cash-flow canonical fields to vendor aliases.
var CashFlowSpecs = []Spec{
	{Canonical: "operating_cash_flow", Aliases: []string{"operating_cash_flow", "operatingCashFlow", "totalCashFromOperatingActivities", "cashFlowFromOperations"}, Required: true},
	{Canonical: "investing_cash_flow", Aliases: []string{"investing_cash_flow", "investingCashFlow", "totalCashflowsFromInvestingActivities"}},
	{Canonical: "financing_cash_flow", Aliases: []string{"financing_cash_flow", "financingCashFlow", "totalCashFromFinancingActivities"}},
	{Canonical: "net_change_in_cash", Aliases: []string{"net_change_in_cash", "netChangeInCash", "changeInCash"}},
	{Canonical: "capital_expenditure", Aliases: []string{"capital_expenditure", "capitalExpenditure", "capitalExpenditures", "capex"}},
	{Canonical: "free_cash_flow", Aliases: []string{"free_cash_flow", "freeCashFlow", "fcf"}},
	{Canonical: "dividends_paid", Aliases: []string{"dividends_paid", "dividendsPaid", "cashDividendsPaid"}},
	{Canonical: "stock_repurchases", Aliases: []string{"stock_repurchases", "stockRepurchases", "repurchaseOfStock", "buybacks"}},
}
