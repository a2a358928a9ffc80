// Package forecast projects forward prices, EPS, and revenue from price
// history and the latest valuation. Both the "current" (standard horizons)
// and "periodic" (exact horizon) modes funnel through one projection
// routine; the call sites differ only in which target dates they request.
package forecast

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/store"
)

// ModelVersion tags every forecast row with the projection math revision.
const ModelVersion = "math-v1.0"

// Config tunes the projection math. Zero values fall back to defaults.
type Config struct {
	// MinObservations is the sparsity guard: fewer closes than this and the
	// engine returns nothing rather than a low-confidence guess. Default 20.
	MinObservations int `yaml:"min_observations" mapstructure:"min_observations"`

	// EWMASpan is the span of the smoothed price level. Default 20.
	EWMASpan int `yaml:"ewma_span" mapstructure:"ewma_span"`

	// TrendWindow is how many recent closes feed the linear trend. Default 20.
	TrendWindow int `yaml:"trend_window" mapstructure:"trend_window"`

	// HorizonsDays are the standard horizons of a current forecast.
	// Default 30, 90, 365.
	HorizonsDays []int `yaml:"horizons_days" mapstructure:"horizons_days"`
}

func (c Config) withDefaults() Config {
	if c.MinObservations <= 0 {
		c.MinObservations = 20
	}
	if c.EWMASpan <= 0 {
		c.EWMASpan = 20
	}
	if c.TrendWindow <= 0 {
		c.TrendWindow = 20
	}
	if len(c.HorizonsDays) == 0 {
		c.HorizonsDays = []int{30, 90, 365}
	}
	return c
}

// Inputs carries the non-price context for a projection. Either field may
// be empty; the projection degrades gracefully without it.
type Inputs struct {
	Valuation *model.ValuationSnapshot
	Quarters  []store.QuarterlyIncome // newest first
}

// Engine computes forecasts. It is pure math over its arguments; the
// orchestrator owns fetching and persistence.
type Engine struct {
	cfg Config
}

// NewEngine returns an Engine with defaults applied.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Current produces the standard-horizon forecasts for one forecast date.
// Returns nil when the history is too sparse.
func (e *Engine) Current(companyID int64, history []model.PricePoint, in Inputs, forecastDate time.Time) []model.Forecast {
	targets := make([]time.Time, 0, len(e.cfg.HorizonsDays))
	for _, days := range e.cfg.HorizonsDays {
		targets = append(targets, forecastDate.AddDate(0, 0, days))
	}
	return e.project(companyID, history, in, forecastDate, targets)
}

// Periodic produces exactly one forecast for the supplied target date.
// Returns nil when the history is too sparse.
func (e *Engine) Periodic(companyID int64, history []model.PricePoint, in Inputs, forecastDate, targetDate time.Time) *model.Forecast {
	out := e.project(companyID, history, in, forecastDate, []time.Time{targetDate})
	if len(out) == 0 {
		return nil
	}
	return &out[0]
}

// project is the single shared projection routine. For each target date it
// blends a smoothed price level, a linear trend extrapolation, and a
// mean-reversion anchor, tilts by the valuation category, and scores
// confidence from momentum, volatility, and history depth.
func (e *Engine) project(companyID int64, history []model.PricePoint, in Inputs, forecastDate time.Time, targets []time.Time) []model.Forecast {
	closes := closesThrough(history, forecastDate)
	if len(closes) < e.cfg.MinObservations {
		zap.L().Info("forecast: history too sparse",
			zap.Int64("company_id", companyID),
			zap.Int("observations", len(closes)),
			zap.Int("min", e.cfg.MinObservations),
		)
		return nil
	}

	lastClose := closes[len(closes)-1]
	if lastClose <= 0 {
		return nil
	}

	smoothed := ewma(closes, e.cfg.EWMASpan)
	trendSlope := slope(tail(closes, e.cfg.TrendWindow))
	anchor := mean(tail(closes, e.cfg.TrendWindow*3))
	vol := annualizedVolatility(closes)
	momentum := clamp(lastClose/closes[0]-1, -1, 1)
	tilt := valuationTilt(in.Valuation)

	// Sparsity penalty: anything under half a trading year of history
	// drags confidence down proportionally.
	depth := clamp(float64(len(closes))/126.0, 0, 1)

	confidence := 0.5 + momentum*0.3 + (1.0/(1.0+vol))*0.2
	confidence = clamp(confidence*depth, 0.05, 0.95)

	forecastEPS := projectEPS(in.Quarters)
	forecastRevenue := projectRevenue(in.Quarters)

	out := make([]model.Forecast, 0, len(targets))
	for _, target := range targets {
		horizon := target.Sub(forecastDate).Hours() / 24
		if horizon < 1 {
			horizon = 1
		}

		trendForecast := lastClose + trendSlope*horizon
		targetPrice := (0.4*smoothed + 0.3*trendForecast + 0.3*anchor) * (1 + tilt)
		if targetPrice < 0 {
			targetPrice = 0
		}

		projectedReturn := targetPrice/lastClose - 1

		out = append(out, model.Forecast{
			CompanyID:       companyID,
			ForecastDate:    forecastDate,
			TargetDate:      target,
			TargetPrice:     targetPrice,
			ForecastRevenue: forecastRevenue,
			ForecastEPS:     forecastEPS,
			Recommendation:  model.RecommendationForReturn(projectedReturn),
			ConfidenceScore: confidence,
			ModelVersion:    ModelVersion,
		})
	}
	return out
}

// closesThrough extracts adjusted closes on or before the forecast date,
// in trade-date order.
func closesThrough(history []model.PricePoint, forecastDate time.Time) []float64 {
	closes := make([]float64, 0, len(history))
	for _, p := range history {
		if p.TradeDate.After(forecastDate) {
			continue
		}
		c := p.AdjustedClose
		if c == 0 {
			c = p.Close
		}
		closes = append(closes, c)
	}
	return closes
}

// valuationTilt nudges the blended price by the valuation category. A
// missing snapshot means no tilt.
func valuationTilt(v *model.ValuationSnapshot) float64 {
	if v == nil {
		return 0
	}
	switch v.PECategory {
	case model.PEUndervalued:
		return 0.02
	case model.PEOvervalued:
		return -0.02
	case model.PEHighlyOvervalued:
		return -0.04
	case model.PENegativeEarnings:
		return -0.03
	default:
		return 0
	}
}

// projectEPS extrapolates trailing-twelve-month EPS from the last four
// quarters of diluted EPS, with quarter-over-quarter growth dampened to
// avoid compounding one hot quarter. Needs at least two usable quarters.
func projectEPS(quarters []store.QuarterlyIncome) *float64 {
	eps := quarterSeries(quarters, func(q store.QuarterlyIncome) *float64 { return q.EPSDiluted })
	if len(eps) < 2 {
		return nil
	}

	ttm := 0.0
	for _, v := range eps {
		ttm += v
	}

	growth := clamp(avgQuarterlyGrowth(eps), -0.5, 0.5) * 0.7
	projected := ttm * (1 + growth*4)
	return &projected
}

// projectRevenue annualizes the latest quarter's revenue and applies the
// dampened growth rate.
func projectRevenue(quarters []store.QuarterlyIncome) *float64 {
	rev := quarterSeries(quarters, func(q store.QuarterlyIncome) *float64 { return q.Revenue })
	if len(rev) < 2 {
		return nil
	}

	latest := rev[len(rev)-1]
	if latest <= 0 {
		return nil
	}

	growth := clamp(avgQuarterlyGrowth(rev), -0.5, 0.5) * 0.75
	projected := latest * 4 * (1 + growth*4)
	return &projected
}

// quarterSeries extracts up to four non-nil values, oldest first.
func quarterSeries(quarters []store.QuarterlyIncome, pick func(store.QuarterlyIncome) *float64) []float64 {
	var vals []float64
	for _, q := range quarters {
		if len(vals) == 4 {
			break
		}
		if v := pick(q); v != nil {
			vals = append(vals, *v)
		}
	}
	// quarters arrive newest first; reverse into chronological order.
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}
	return vals
}

// avgQuarterlyGrowth is the mean fractional quarter-over-quarter change.
func avgQuarterlyGrowth(vals []float64) float64 {
	var growths []float64
	for i := 1; i < len(vals); i++ {
		prev := vals[i-1]
		if prev == 0 {
			continue
		}
		g := (vals[i] - prev) / prev
		// Sign flips around zero earnings produce meaningless growth rates.
		if prev < 0 {
			g = -g
		}
		growths = append(growths, g)
	}
	if len(growths) == 0 {
		return 0
	}
	return mean(growths)
}
