package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestDeriveIncome_EPSFromNetIncomeAndShares(t *testing.T) {
	v := map[string]*float64{
		"net_income":         f(1000000),
		"shares_outstanding": f(500000),
		"eps_basic":          nil,
	}
	deriveIncome(v)
	require.NotNil(t, v["eps_basic"])
	assert.Equal(t, 2.0, *v["eps_basic"])
}

func TestDeriveIncome_ExplicitEPSWins(t *testing.T) {
	v := map[string]*float64{
		"net_income":         f(1000000),
		"shares_outstanding": f(500000),
		"eps_basic":          f(1.95),
	}
	deriveIncome(v)
	assert.Equal(t, 1.95, *v["eps_basic"])
}

func TestDeriveIncome_ZeroSharesNoDivision(t *testing.T) {
	v := map[string]*float64{
		"net_income":         f(1000000),
		"shares_outstanding": f(0),
		"eps_basic":          nil,
	}
	deriveIncome(v)
	assert.Nil(t, v["eps_basic"])
}

func TestDeriveIncome_GrossProfitAndOperatingIncomeChain(t *testing.T) {
	v := map[string]*float64{
		"revenue":            f(1000),
		"cost_of_revenue":    f(600),
		"gross_profit":       nil,
		"operating_expenses": f(150),
		"operating_income":   nil,
	}
	deriveIncome(v)
	require.NotNil(t, v["gross_profit"])
	assert.Equal(t, 400.0, *v["gross_profit"])
	// operating_income chains off the freshly derived gross_profit.
	require.NotNil(t, v["operating_income"])
	assert.Equal(t, 250.0, *v["operating_income"])
}

func TestDeriveBalance_TotalLiabilitiesIdentity(t *testing.T) {
	v := map[string]*float64{
		"total_assets":      f(5000),
		"total_equity":      f(2000),
		"total_liabilities": nil,
	}
	deriveBalance(v)
	require.NotNil(t, v["total_liabilities"])
	assert.Equal(t, 3000.0, *v["total_liabilities"])
}

func TestDeriveBalance_MissingEquityLeavesNil(t *testing.T) {
	v := map[string]*float64{
		"total_assets":      f(5000),
		"total_equity":      nil,
		"total_liabilities": nil,
	}
	deriveBalance(v)
	assert.Nil(t, v["total_liabilities"])
}

func TestDeriveCashFlow_FCFWithNegativeCapex(t *testing.T) {
	v := map[string]*float64{
		"operating_cash_flow": f(800),
		"capital_expenditure": f(-300),
		"free_cash_flow":      nil,
	}
	deriveCashFlow(v)
	require.NotNil(t, v["free_cash_flow"])
	assert.Equal(t, 500.0, *v["free_cash_flow"])
}

func TestDeriveCashFlow_MissingCapexCountsAsZero(t *testing.T) {
	v := map[string]*float64{
		"operating_cash_flow": f(800),
		"capital_expenditure": nil,
		"free_cash_flow":      nil,
	}
	deriveCashFlow(v)
	require.NotNil(t, v["free_cash_flow"])
	assert.Equal(t, 800.0, *v["free_cash_flow"])
}

func TestDeriveCashFlow_NoOCFLeavesFCFNil(t *testing.T) {
	v := map[string]*float64{
		"operating_cash_flow": nil,
		"capital_expenditure": f(-300),
		"free_cash_flow":      nil,
	}
	deriveCashFlow(v)
	assert.Nil(t, v["free_cash_flow"])
}
