package eventstudy

import (
	"fmt"
	"sort"
	"time"
)

// Align maps a calendar date to the nearest trading day in the series and
// returns its position and normalized date. Breach disclosures routinely
// land on weekends, holidays, or gaps in thin trading histories, so the
// match is by nearest absolute calendar distance; an exact tie between an
// earlier and a later trading day resolves to the earlier one.
//
// An empty series, or a nearest trading day farther than toleranceDays,
// yields ErrNoTradingData.
func (s *ReturnSeries) Align(target time.Time, toleranceDays int) (int, time.Time, error) {
	if s.Len() == 0 {
		return 0, time.Time{}, fmt.Errorf("%w: series %q is empty", ErrNoTradingData, s.entityID)
	}

	date := NormalizeDate(target)

	// First position at or after the target date. The candidates are that
	// position and the one before it; nothing else can be nearer.
	i := sort.Search(len(s.obs), func(i int) bool {
		return !s.obs[i].Date.Before(date)
	})

	best := -1
	bestDist := 0
	if i < len(s.obs) {
		best = i
		bestDist = calendarDays(date, s.obs[i].Date)
	}
	if i > 0 {
		prevDist := calendarDays(s.obs[i-1].Date, date)
		// The earlier day wins ties.
		if best == -1 || prevDist <= bestDist {
			best = i - 1
			bestDist = prevDist
		}
	}

	if bestDist > toleranceDays {
		return 0, time.Time{}, fmt.Errorf("%w: nearest trading day %s is %d calendar days from %s (tolerance %d)",
			ErrNoTradingData,
			s.obs[best].Date.Format("2006-01-02"),
			bestDist,
			date.Format("2006-01-02"),
			toleranceDays,
		)
	}

	return best, s.obs[best].Date, nil
}

// calendarDays returns the whole calendar days from a to b. Both must be
// normalized UTC midnights with a not after b.
func calendarDays(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
