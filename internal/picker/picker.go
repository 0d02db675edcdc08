// Package picker turns ranked scan output into a bounded actionable pick list
// and reconciles it against the persistent pick history.
package picker

import (
	"fmt"
	"log"
	"time"

	"SwingSentinel/internal/model"
	"SwingSentinel/internal/store"
)

// Params controls pick selection.
type Params struct {
	ConfidenceThreshold float64 // minimum classifier score
	MinTargetPct        float64 // minimum target uplift, target/price - 1
	TopK                int     // picks retained after filtering
	StopPct             float64 // stop distance below entry
}

// DefaultParams mirrors the production thresholds.
func DefaultParams() Params {
	return Params{
		ConfidenceThreshold: 0.5,
		MinTargetPct:        0.025,
		TopK:                5,
		StopPct:             0.01,
	}
}

// TopCandidates applies the selection filters in order: confidence threshold,
// target uplift hurdle, then top K by score. Input is already sorted by score
// descending, so retaining order keeps the K best.
func TopCandidates(records []model.ScoredCandidate, p Params) []model.ScoredCandidate {
	var out []model.ScoredCandidate
	for _, rec := range records {
		if rec.Score < p.ConfidenceThreshold {
			continue
		}
		if rec.Price <= 0 || rec.TargetPrice/rec.Price-1 < p.MinTargetPct {
			continue
		}
		out = append(out, rec)
		if len(out) == p.TopK {
			break
		}
	}
	return out
}

// BuildPicks computes stop levels and Hold/Sell actions for the surviving
// candidates. live maps symbol to a freshly fetched price; a symbol missing
// from live falls back to its entry price (and is logged, since action
// classification on a stale price is exactly the bug this input exists to
// avoid).
func BuildPicks(top []model.ScoredCandidate, live map[string]float64, p Params) []model.Pick {
	picks := make([]model.Pick, 0, len(top))
	for _, rec := range top {
		entry := rec.Price
		ltp, ok := live[rec.Symbol]
		if !ok || ltp == 0 {
			log.Printf("[WARN] no live price for %s, falling back to entry", rec.Symbol)
			ltp = entry
		}
		stop := entry * (1 - p.StopPct)

		action := model.ActionHold
		if ltp <= stop || ltp >= rec.TargetPrice {
			action = model.ActionSell
		}

		pctChange := 0.0
		if entry != 0 {
			pctChange = (ltp - entry) / entry * 100
		}
		picks = append(picks, model.Pick{
			Symbol:      rec.Symbol,
			EntryPrice:  entry,
			LTP:         ltp,
			PctChange:   pctChange,
			Score:       rec.Score,
			StopLevel:   stop,
			TargetPrice: rec.TargetPrice,
			Action:      action,
		})
	}
	return picks
}

// Select is the full selection pass: filters, top K, stops, actions.
func Select(records []model.ScoredCandidate, live map[string]float64, p Params) []model.Pick {
	return BuildPicks(TopCandidates(records, p), live, p)
}

// Reconcile updates the history store against the current pick set.
//
// Every Top-K entrant opens a history record, including one whose live price
// already crossed its stop or target on arrival; the close pass then resolves
// it within the same cycle, so an immediate Hit still reaches the hit rate.
// An open record whose symbol left the Top-K, or whose live price crossed its
// stop or target, closes with Hit when the exit price reached the target and
// Miss otherwise. Closed records are terminal; running Reconcile twice on
// identical input changes nothing.
func Reconcile(st *store.Store, picks []model.Pick, live map[string]float64, p Params, now time.Time) error {
	inTopK := make(map[string]bool, len(picks))
	for _, pk := range picks {
		inTopK[pk.Symbol] = true
		if err := st.OpenRecord(pk.Symbol, pk.EntryPrice, pk.TargetPrice, now); err != nil {
			return fmt.Errorf("open %s: %w", pk.Symbol, err)
		}
	}

	open, err := st.OpenRecords()
	if err != nil {
		return fmt.Errorf("load open records: %w", err)
	}
	for _, rec := range open {
		ltp, ok := live[rec.Symbol]
		if !ok || ltp == 0 {
			log.Printf("[WARN] no live price for %s, falling back to entry", rec.Symbol)
			ltp = rec.EntryPrice
		}
		stop := rec.EntryPrice * (1 - p.StopPct)
		crossed := ltp <= stop || ltp >= rec.TargetPrice
		if inTopK[rec.Symbol] && !crossed {
			continue
		}

		outcome := model.OutcomeMiss
		if ltp >= rec.TargetPrice {
			outcome = model.OutcomeHit
		}
		pctChange := 0.0
		if rec.EntryPrice != 0 {
			pctChange = (ltp - rec.EntryPrice) / rec.EntryPrice * 100
		}
		if err := st.CloseRecord(rec.ID, ltp, outcome, pctChange, now); err != nil {
			return fmt.Errorf("close %s: %w", rec.Symbol, err)
		}
		log.Printf("[INFO] closed %s: %s (%.2f%%)", rec.Symbol, outcome, pctChange)
	}
	return nil
}
