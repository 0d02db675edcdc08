package scanner

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"SwingSentinel/internal/model"
)

// writeOutput fully replaces the scan artifact with the cycle's candidates.
// The file is written to a temp path and renamed so concurrent readers never
// observe a partial table. An empty cycle leaves a header-only file, which is
// the explicit "no picks" state.
func (s *Scanner) writeOutput(records []model.ScoredCandidate) error {
	header := append([]string{"symbol", "price", "score", "target_price", "volume"},
		s.snapshotColumns()...)

	dir := filepath.Dir(s.OutputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".scan-*.csv")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Symbol,
			strconv.FormatFloat(rec.Price, 'f', 2, 64),
			strconv.FormatFloat(rec.Score, 'f', 4, 64),
			strconv.FormatFloat(rec.TargetPrice, 'f', 2, 64),
			strconv.FormatFloat(rec.Volume, 'f', 0, 64),
		}
		for _, col := range header[5:] {
			row = append(row, strconv.FormatFloat(rec.Features[col], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %s: %w", rec.Symbol, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.OutputPath); err != nil {
		return fmt.Errorf("commit output: %w", err)
	}
	return nil
}

// snapshotColumns returns the model's feature names that belong in the
// artifact, in the model's trained order for stable headers.
func (s *Scanner) snapshotColumns() []string {
	var cols []string
	for _, name := range s.Model.FeatureOrder() {
		if !rawColumns[name] {
			cols = append(cols, name)
		}
	}
	return cols
}
