package model

import "time"

// PricePoint is one daily OHLCV bar. Unique per (company, trade date).
type PricePoint struct {
	CompanyID     int64     `json:"company_id"`
	TradeDate     time.Time `json:"trade_date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}
