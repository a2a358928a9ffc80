// Package valuation derives ratio metrics from persisted statements and
// prices. Every ratio is null-safe: a zero or missing denominator yields
// nil, which the snapshot stores as "not computable", a normal state.
package valuation

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/store"
)

// Sanity ranges per ratio. A computed value outside its range is nulled and
// logged rather than stored; vendor data occasionally produces garbage
// denominators a few cents from zero.
const (
	peMin  = 0.0
	peMax  = 1000.0
	roeMin = -1.0
	roeMax = 2.0
	roaMin = -1.0
	roaMax = 1.0
	deMin  = 0.0
)

// Calculator computes ValuationSnapshots from stored data.
type Calculator struct {
	store store.Store
}

// New returns a Calculator reading from the given store.
func New(s store.Store) *Calculator {
	return &Calculator{store: s}
}

// Compute builds the snapshot for a company as of a date, from the latest
// income and balance statements filed on or before it and the nearest prior
// price. Returns (nil, nil) when no price or no statements exist yet; that
// is not an error, just nothing to compute.
func (c *Calculator) Compute(ctx context.Context, companyID int64, asOf time.Time) (*model.ValuationSnapshot, error) {
	price, err := c.store.PriceNear(ctx, companyID, asOf)
	if err != nil {
		return nil, eris.Wrap(err, "valuation: load price")
	}
	income, err := c.store.LatestIncome(ctx, companyID, asOf)
	if err != nil {
		return nil, eris.Wrap(err, "valuation: load income")
	}
	balance, err := c.store.LatestBalance(ctx, companyID, asOf)
	if err != nil {
		return nil, eris.Wrap(err, "valuation: load balance")
	}

	if price == nil || (income == nil && balance == nil) {
		zap.L().Info("valuation: insufficient data",
			zap.Int64("company_id", companyID),
			zap.Time("as_of", asOf),
			zap.Bool("has_price", price != nil),
			zap.Bool("has_income", income != nil),
			zap.Bool("has_balance", balance != nil),
		)
		return nil, nil
	}

	snap := &model.ValuationSnapshot{
		CompanyID:       companyID,
		CalculationDate: asOf,
		Price:           price.Close,
		PECategory:      model.PECategoryUnknown,
	}

	if income != nil {
		snap.EPS = firstNonNil(income.EPSBasic, income.EPSDiluted)
		snap.PERatio = c.validated("pe_ratio", companyID, priceOverPositive(price.Close, snap.EPS), peMin, peMax)
		snap.PECategory = categoryForPE(snap.PERatio, snap.EPS)
		snap.GrossMargin = div(income.GrossProfit, income.Revenue)
		snap.OperatingMargin = div(income.OperatingIncome, income.Revenue)
		snap.NetMargin = div(income.NetIncome, income.Revenue)
	}

	if balance != nil {
		snap.BookValuePerShare = bookValuePerShare(balance, income)
		snap.PBRatio = priceOverPositive(price.Close, snap.BookValuePerShare)
		snap.DebtToEquity = c.validated("debt_to_equity", companyID, debtToEquity(balance), deMin, math.Inf(1))
		if income != nil {
			snap.ROE = c.validated("roe", companyID, div(income.NetIncome, balance.TotalEquity), roeMin, roeMax)
			snap.ROA = c.validated("roa", companyID, div(income.NetIncome, balance.TotalAssets), roaMin, roaMax)
		}
	}

	return snap, nil
}

// div returns num/den, or nil when either side is missing or the
// denominator is zero.
func div(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

// priceOverPositive returns price/den only when den is present and strictly
// positive. P/E and P/B are undefined for non-positive denominators.
func priceOverPositive(price float64, den *float64) *float64 {
	if den == nil || *den <= 0 {
		return nil
	}
	v := price / *den
	return &v
}

func bookValuePerShare(balance *model.BalanceDetail, income *model.IncomeDetail) *float64 {
	if income == nil {
		return nil
	}
	return div(balance.TotalEquity, income.SharesOutstanding)
}

// debtToEquity treats a missing debt leg as zero but requires equity.
func debtToEquity(balance *model.BalanceDetail) *float64 {
	if balance.TotalEquity == nil || *balance.TotalEquity == 0 {
		return nil
	}
	debt := 0.0
	if balance.ShortTermDebt != nil {
		debt += *balance.ShortTermDebt
	}
	if balance.LongTermDebt != nil {
		debt += *balance.LongTermDebt
	}
	v := debt / *balance.TotalEquity
	return &v
}

func (c *Calculator) validated(name string, companyID int64, v *float64, min, max float64) *float64 {
	if v == nil {
		return nil
	}
	if *v < min || *v > max {
		zap.L().Warn("valuation: ratio outside sanity range, storing null",
			zap.String("ratio", name),
			zap.Int64("company_id", companyID),
			zap.Float64("value", *v),
		)
		return nil
	}
	return v
}

// categoryForPE labels the P/E for screening. Negative earnings are their
// own bucket regardless of the (null) ratio.
func categoryForPE(pe *float64, eps *float64) model.PECategory {
	if eps != nil && *eps <= 0 {
		return model.PENegativeEarnings
	}
	if pe == nil {
		return model.PECategoryUnknown
	}
	switch {
	case *pe < 15:
		return model.PEUndervalued
	case *pe < 25:
		return model.PEFairlyValued
	case *pe < 40:
		return model.PEOvervalued
	default:
		return model.PEHighlyOvervalued
	}
}

func firstNonNil(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
