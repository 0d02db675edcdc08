package model

import "time"

// Bar represents a single daily OHLCV candlestick.
// Bars for a symbol are unique per (Symbol, Timestamp) and ordered ascending.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Quote is a live snapshot from the market-data provider. It is never persisted.
type Quote struct {
	Symbol         string
	LastPrice      float64
	Volume         float64
	AvgTradedPrice float64
}

// UniverseEntry is one row of the scan universe.
type UniverseEntry struct {
	Symbol   string
	Exchange string
}
