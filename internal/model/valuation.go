package model

import "time"

// PECategory labels a P/E ratio for display and screening.
type PECategory string

const (
	PENegativeEarnings  PECategory = "Negative Earnings"
	PEUndervalued       PECategory = "Undervalued"
	PEFairlyValued      PECategory = "Fairly Valued"
	PEOvervalued        PECategory = "Overvalued"
	PEHighlyOvervalued  PECategory = "Highly Overvalued"
	PECategoryUnknown   PECategory = "Unknown"
)

// ValuationSnapshot holds the derived ratios for one company as of one date.
// A nil ratio means "not computable" (zero or missing denominator, or a
// value outside its sanity range), which is a normal business state.
type ValuationSnapshot struct {
	CompanyID         int64      `json:"company_id"`
	CalculationDate   time.Time  `json:"calculation_date"`
	Price             float64    `json:"price"`
	EPS               *float64   `json:"eps,omitempty"`
	PERatio           *float64   `json:"pe_ratio,omitempty"`
	PBRatio           *float64   `json:"pb_ratio,omitempty"`
	ROE               *float64   `json:"roe,omitempty"`
	ROA               *float64   `json:"roa,omitempty"`
	DebtToEquity      *float64   `json:"debt_to_equity,omitempty"`
	GrossMargin       *float64   `json:"gross_margin,omitempty"`
	OperatingMargin   *float64   `json:"operating_margin,omitempty"`
	NetMargin         *float64   `json:"net_margin,omitempty"`
	BookValuePerShare *float64   `json:"book_value_per_share,omitempty"`
	PECategory        PECategory `json:"pe_category"`
}
