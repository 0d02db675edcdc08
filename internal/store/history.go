package store

import (
	"database/sql"
	"fmt"
	"time"

	"SwingSentinel/internal/model"
)

// OpenRecord opens a history record for a symbol that entered the Top-K.
// If the symbol already has an open record this is a no-op, which makes
// reconciliation idempotent.
func (s *Store) OpenRecord(symbol string, entryPrice, targetPrice float64, pickedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM history WHERE symbol = ? AND dropped_at IS NULL`,
		symbol).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check open record %s: %w", symbol, err)
	}
	if existing > 0 {
		return nil
	}

	_, err = s.db.Exec(`INSERT INTO history (symbol, picked_at, entry_price, target_price)
		VALUES (?,?,?,?)`,
		symbol, pickedAt.Unix(), entryPrice, targetPrice)
	if err != nil {
		return fmt.Errorf("open record %s: %w", symbol, err)
	}
	return nil
}

// CloseRecord resolves an open record. Closed records are terminal: the WHERE
// clause refuses to touch a record that already has dropped_at set.
func (s *Store) CloseRecord(id int64, exitPrice float64, hit model.Outcome, pctChange float64, droppedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE history
		SET dropped_at = ?, exit_price = ?, target_hit = ?, pct_change = ?
		WHERE id = ? AND dropped_at IS NULL`,
		droppedAt.Unix(), exitPrice, string(hit), pctChange, id)
	if err != nil {
		return fmt.Errorf("close record %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("close record %d: not open", id)
	}
	return nil
}

// OpenRecords returns all records still in the Open state.
func (s *Store) OpenRecords() ([]model.HistoryRecord, error) {
	return s.queryRecords(`SELECT id, symbol, picked_at, entry_price, dropped_at,
		exit_price, target_price, target_hit, pct_change
		FROM history WHERE dropped_at IS NULL ORDER BY id`)
}

// Recent returns the most recent n records, newest first.
func (s *Store) Recent(n int) ([]model.HistoryRecord, error) {
	return s.queryRecords(`SELECT id, symbol, picked_at, entry_price, dropped_at,
		exit_price, target_price, target_hit, pct_change
		FROM history ORDER BY id DESC LIMIT ?`, n)
}

// HitRate returns closed Hit count / total closed count as a percentage.
// Open picks do not dilute the rate. Returns 0 when nothing has closed yet.
func (s *Store) HitRate() (float64, error) {
	var hits, total int
	err := s.db.QueryRow(`SELECT
		COUNT(CASE WHEN target_hit = 'Hit' THEN 1 END),
		COUNT(*)
		FROM history WHERE dropped_at IS NOT NULL`).Scan(&hits, &total)
	if err != nil {
		return 0, fmt.Errorf("query hit rate: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(hits) / float64(total) * 100, nil
}

func (s *Store) queryRecords(query string, args ...any) ([]model.HistoryRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []model.HistoryRecord
	for rows.Next() {
		var r model.HistoryRecord
		var pickedAt int64
		var droppedAt sql.NullInt64
		var exit, pct sql.NullFloat64
		var hit sql.NullString
		if err := rows.Scan(&r.ID, &r.Symbol, &pickedAt, &r.EntryPrice,
			&droppedAt, &exit, &r.TargetPrice, &hit, &pct); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.PickedAt = time.Unix(pickedAt, 0)
		if droppedAt.Valid {
			t := time.Unix(droppedAt.Int64, 0)
			r.DroppedAt = &t
		}
		r.ExitPrice = exit.Float64
		r.PctChange = pct.Float64
		r.TargetHit = model.Outcome(hit.String)
		out = append(out, r)
	}
	return out, rows.Err()
}
