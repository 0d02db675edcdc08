package store

import (
	"database/sql"
	"fmt"
	"time"

	"SwingSentinel/internal/model"
)

// AppendBar appends one bar to the log, deduplicating on (symbol, timestamp).
// Returns true when the bar was actually inserted. Bars are never updated or
// deleted once stored.
func (s *Store) AppendBar(b model.Bar) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT OR IGNORE INTO bars
		(symbol, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`,
		b.Symbol, b.Timestamp.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume,
	)
	if err != nil {
		return false, fmt.Errorf("append bar %s: %w", b.Symbol, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BarsFor returns the full bar sequence for one symbol, ascending by timestamp.
func (s *Store) BarsFor(symbol string) ([]model.Bar, error) {
	rows, err := s.db.Query(`SELECT symbol, timestamp, open, high, low, close, volume
		FROM bars WHERE symbol = ? ORDER BY timestamp ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query bars %s: %w", symbol, err)
	}
	defer rows.Close()
	return scanBars(rows)
}

// AllBars returns every stored bar grouped by symbol, each sequence ascending.
func (s *Store) AllBars() (map[string][]model.Bar, error) {
	rows, err := s.db.Query(`SELECT symbol, timestamp, open, high, low, close, volume
		FROM bars ORDER BY symbol ASC, timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("query all bars: %w", err)
	}
	defer rows.Close()

	bars, err := scanBars(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.Bar)
	for _, b := range bars {
		out[b.Symbol] = append(out[b.Symbol], b)
	}
	return out, nil
}

func scanBars(rows *sql.Rows) ([]model.Bar, error) {
	var out []model.Bar
	for rows.Next() {
		var b model.Bar
		var ts int64
		if err := rows.Scan(&b.Symbol, &ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Timestamp = time.Unix(ts, 0)
		out = append(out, b)
	}
	return out, rows.Err()
}
