package model

import (
	"fmt"
	"time"
)

type Timeframe string

const (
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeAll     Timeframe = "all"
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeWeekly, TimeframeMonthly, TimeframeAll, "":
		if s == "" {
			return TimeframeAll, nil
		}
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}

// WindowStart returns the inclusive lower bound for submission timestamps.
// Monthly is a calendar-month subtraction, not a fixed 30 days. The zero
// time means unbounded.
func (tf Timeframe) WindowStart(now time.Time) time.Time {
	switch tf {
	case TimeframeWeekly:
		return now.AddDate(0, 0, -7)
	case TimeframeMonthly:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// LeaderboardEntry is derived, never persisted; every query recomputes it.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}
