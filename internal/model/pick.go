package model

import "time"

// ScoredCandidate is one row of scanner output, produced fresh each cycle.
type ScoredCandidate struct {
	Symbol      string
	Price       float64
	Score       float64 // classifier probability in [0,1]
	TargetPrice float64
	Volume      float64
	Features    FeatureVector
}

// Action is the recommendation computed for an active pick.
type Action string

const (
	ActionHold Action = "Hold"
	ActionSell Action = "Sell"
)

// Pick is a Top-K candidate promoted to an actionable recommendation.
type Pick struct {
	Symbol      string
	EntryPrice  float64
	LTP         float64 // freshly fetched live price
	PctChange   float64
	Score       float64
	StopLevel   float64
	TargetPrice float64
	Action      Action
}

// Outcome is the terminal state of a closed history record.
type Outcome string

const (
	OutcomeHit  Outcome = "Hit"
	OutcomeMiss Outcome = "Miss"
)

// HistoryRecord tracks one pick from selection to resolution.
// Lifecycle: Open (DroppedAt nil) -> Hit/Miss, terminal once closed.
type HistoryRecord struct {
	ID          int64
	Symbol      string
	PickedAt    time.Time
	EntryPrice  float64
	DroppedAt   *time.Time
	ExitPrice   float64
	TargetPrice float64
	TargetHit   Outcome // empty while open
	PctChange   float64
}

// Closed reports whether the record has reached a terminal state.
func (r *HistoryRecord) Closed() bool { return r.DroppedAt != nil }
