package model

import "time"

// Recommendation is the action bucket derived from projected return.
type Recommendation string

const (
	StrongBuy  Recommendation = "Strong Buy"
	Buy        Recommendation = "Buy"
	Hold       Recommendation = "Hold"
	Sell       Recommendation = "Sell"
	StrongSell Recommendation = "Strong Sell"
)

// RecommendationForReturn buckets a projected fractional return.
// Thresholds: >15% strong buy, >7% buy, <-15% strong sell, <-7% sell.
func RecommendationForReturn(r float64) Recommendation {
	switch {
	case r > 0.15:
		return StrongBuy
	case r > 0.07:
		return Buy
	case r < -0.15:
		return StrongSell
	case r < -0.07:
		return Sell
	default:
		return Hold
	}
}

// Forecast is one projected price/EPS/revenue for a (forecast_date,
// target_date) pair. Distinct pairs coexist; recomputing a pair overwrites.
type Forecast struct {
	CompanyID        int64          `json:"company_id"`
	ForecastDate     time.Time      `json:"forecast_date"`
	TargetDate       time.Time      `json:"target_date"`
	TargetPrice      float64        `json:"target_price"`
	ForecastRevenue  *float64       `json:"forecast_revenue,omitempty"`
	ForecastEPS      *float64       `json:"forecast_eps,omitempty"`
	Recommendation   Recommendation `json:"recommendation"`
	ConfidenceScore  float64        `json:"confidence_score"`
	ModelVersion     string         `json:"model_version"`
	CreatedAt        time.Time      `json:"created_at,omitempty"`
}
