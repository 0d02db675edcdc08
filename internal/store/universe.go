package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"SwingSentinel/internal/model"
)

// Universe returns the scan universe, ordered for deterministic scan cycles.
func (s *Store) Universe() ([]model.UniverseEntry, error) {
	rows, err := s.db.Query(`SELECT symbol, exchange FROM universe ORDER BY exchange, symbol`)
	if err != nil {
		return nil, fmt.Errorf("query universe: %w", err)
	}
	defer rows.Close()

	var out []model.UniverseEntry
	for rows.Next() {
		var e model.UniverseEntry
		if err := rows.Scan(&e.Symbol, &e.Exchange); err != nil {
			return nil, fmt.Errorf("scan universe row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddUniverseEntry inserts one universe row, ignoring duplicates.
func (s *Store) AddUniverseEntry(e model.UniverseEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR IGNORE INTO universe (symbol, exchange) VALUES (?,?)`,
		e.Symbol, e.Exchange)
	if err != nil {
		return fmt.Errorf("add universe entry %s: %w", e.Symbol, err)
	}
	return nil
}

// ImportUniverseCSV seeds the universe table from a CSV file with a header row
// containing "symbol" and "exchange" columns. Returns the number of rows read.
func (s *Store) ImportUniverseCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open universe csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read universe header: %w", err)
	}
	symIdx, exIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "symbol":
			symIdx = i
		case "exchange":
			exIdx = i
		}
	}
	if symIdx < 0 || exIdx < 0 {
		return 0, fmt.Errorf("universe csv %s: missing symbol/exchange columns", path)
	}

	count := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read universe row: %w", err)
		}
		entry := model.UniverseEntry{
			Symbol:   strings.TrimSpace(rec[symIdx]),
			Exchange: strings.TrimSpace(rec[exIdx]),
		}
		if entry.Symbol == "" {
			continue
		}
		if err := s.AddUniverseEntry(entry); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
