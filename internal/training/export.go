// Package training builds the labeled feature table the classifier is trained
// on. Training itself happens outside this process; this is its input.
package training

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"SwingSentinel/internal/feature"
	"SwingSentinel/internal/label"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/store"
)

// keepColumns is the fixed exported column set, matching the feature order the
// model pipeline expects.
var keepColumns = []string{
	"open", "high", "low", "close", "volume",
	"EMA5", "EMA20", "EMA_diff", "RSI14",
	"MACD", "MACD_sig", "MACD_hist",
	"BB_%B", "BB_bandwidth", "ATR14", "OBV",
}

// BuildRows computes per-row features for every symbol in the bar store and
// labels them with a forward window. Rows with NaN features or insufficient
// lookahead are excluded, never defaulted.
func BuildRows(st *store.Store, p label.Params) ([]model.LabeledRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bySymbol, err := st.AllBars()
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	symbols := make([]string, 0, len(bySymbol))
	for sym := range bySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var out []model.LabeledRow
	for _, sym := range symbols {
		bars := bySymbol[sym]
		rows := feature.Table(bars)
		closes := make([]float64, len(bars))
		for i, b := range bars {
			closes[i] = b.Close
		}
		labels, err := label.Labels(closes, p)
		if err != nil {
			return nil, err
		}

		skipped := 0
		for i, lb := range labels {
			if rows[i].HasNaN() {
				skipped++
				continue
			}
			out = append(out, model.LabeledRow{
				Symbol:    sym,
				Timestamp: bars[i].Timestamp,
				Features:  rows[i],
				Label:     lb,
			})
		}
		if skipped > 0 {
			log.Printf("[INFO] %s: %d rows excluded for NaN features", sym, skipped)
		}
	}
	return out, nil
}

// Export writes the labeled training table to a CSV, committed atomically.
// Returns the number of rows written.
func Export(st *store.Store, p label.Params, path string) (int, error) {
	labeled, err := BuildRows(st, p)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".training-*.csv")
	if err != nil {
		return 0, fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	header := append([]string{"symbol", "timestamp"}, keepColumns...)
	header = append(header, "label")
	if err := w.Write(header); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write header: %w", err)
	}

	written := 0
	for _, row := range labeled {
		rec := make([]string, 0, len(header))
		rec = append(rec, row.Symbol, strconv.FormatInt(row.Timestamp.Unix(), 10))
		for _, col := range keepColumns {
			rec = append(rec, strconv.FormatFloat(row.Features[col], 'f', 6, 64))
		}
		rec = append(rec, strconv.Itoa(row.Label))
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return 0, fmt.Errorf("write row: %w", err)
		}
		written++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("commit output: %w", err)
	}
	return written, nil
}
