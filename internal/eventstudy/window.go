package eventstudy

import (
	"fmt"
)

// ExtractWindow resolves the observation window around an aligned event
// position. The pre-window is strict: exactly cfg.PreWindowDays trading days
// must exist before eventIdx, and fewer is ErrInsufficientPreWindow rather
// than a shortened window. Post-event horizons are judged independently: a
// horizon of h trading days is sufficient when at least ceil(h/2) trading
// days exist strictly after eventIdx, and its end position is capped at the
// end of the series. Only when every horizon is insufficient does the
// extraction fail with ErrInsufficientPostWindow.
func ExtractWindow(s *ReturnSeries, eventIdx int, cfg Config) (EventWindow, error) {
	if eventIdx < 0 || eventIdx >= s.Len() {
		return EventWindow{}, fmt.Errorf("event index %d out of range for series %q with %d observations", eventIdx, s.EntityID(), s.Len())
	}

	preStart := eventIdx - cfg.PreWindowDays
	if preStart < 0 {
		return EventWindow{}, fmt.Errorf("%w: %d trading days before %s, need %d",
			ErrInsufficientPreWindow,
			eventIdx,
			s.Date(eventIdx).Format("2006-01-02"),
			cfg.PreWindowDays,
		)
	}

	after := s.Len() - 1 - eventIdx
	shortOK := after >= minPostDays(cfg.ShortHorizon)
	longOK := after >= minPostDays(cfg.LongHorizon)
	if !shortOK && !longOK {
		return EventWindow{}, fmt.Errorf("%w: %d trading days after %s, need %d for the %dd horizon",
			ErrInsufficientPostWindow,
			after,
			s.Date(eventIdx).Format("2006-01-02"),
			minPostDays(cfg.ShortHorizon),
			cfg.ShortHorizon,
		)
	}

	return EventWindow{
		PreStart:   preStart,
		EventIndex: eventIdx,
		ShortEnd:   eventIdx + min(cfg.ShortHorizon, after),
		LongEnd:    eventIdx + min(cfg.LongHorizon, after),
		ShortOK:    shortOK,
		LongOK:     longOK,
	}, nil
}

// minPostDays is the minimum count of trading days strictly after the event
// required for a horizon of h days: ceil(h/2).
func minPostDays(h int) int {
	return (h + 1) / 2
}
