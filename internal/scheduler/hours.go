package scheduler

import (
	"fmt"
	"time"
)

// MarketHours gates scan cycles to a local trading window. Force overrides
// the gate for development.
type MarketHours struct {
	Location *time.Location
	Open     time.Duration // offset from midnight, local
	Close    time.Duration
	Force    bool
}

// NewMarketHours parses "HH:MM" open/close times in the given IANA timezone.
func NewMarketHours(tz, open, close string, force bool) (*MarketHours, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", tz, err)
	}
	openOff, err := parseClock(open)
	if err != nil {
		return nil, fmt.Errorf("parse open time: %w", err)
	}
	closeOff, err := parseClock(close)
	if err != nil {
		return nil, fmt.Errorf("parse close time: %w", err)
	}
	if closeOff <= openOff {
		return nil, fmt.Errorf("close time %s must be after open time %s", close, open)
	}
	return &MarketHours{Location: loc, Open: openOff, Close: closeOff, Force: force}, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// OpenAt reports whether the market window contains the given instant.
func (m *MarketHours) OpenAt(t time.Time) bool {
	if m.Force {
		return true
	}
	local := t.In(m.Location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, m.Location)
	off := local.Sub(midnight)
	return off >= m.Open && off <= m.Close
}
