// Package model defines the core domain types shared across the pipeline.
package model

import "time"

// Company is one publicly traded company in the universe. Rows are owned by
// the registry feed; the pipeline reads them and keys every time-series
// entity off the company id. Universe seed files may be JSON or YAML.
type Company struct {
	ID        int64     `json:"id" yaml:"id"`
	Ticker    string    `json:"ticker" yaml:"ticker"`
	Name      string    `json:"name" yaml:"name"`
	Sector    string    `json:"sector,omitempty" yaml:"sector,omitempty"`
	Exchange  string    `json:"exchange,omitempty" yaml:"exchange,omitempty"`
	MarketCap *float64  `json:"market_cap,omitempty" yaml:"market_cap,omitempty"`
	Currency  string    `json:"currency,omitempty" yaml:"currency,omitempty"`
	Active    bool      `json:"active" yaml:"active"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// RawRecord is one vendor-supplied field mapping for a single company and
// period. Keys are vendor field names; values are whatever the feed decoded
// (float64, int, json.Number, numeric string, or nil).
type RawRecord map[string]any
