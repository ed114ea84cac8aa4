package bot

import (
	"fmt"
	"time"

	"bayon/models"
)

// A close time numerically before the open time means the window runs past
// midnight (18:00-02:00). "Open right now" therefore has to consider both
// today's window and yesterday's spillover.

func parseHHMM(s string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func hourForWeekday(hours []models.OpeningHour, weekday int) *models.OpeningHour {
	for i := range hours {
		if hours[i].Weekday == weekday {
			return &hours[i]
		}
	}
	return nil
}

// IsOpenAt reports whether the business is open at now.
func IsOpenAt(hours []models.OpeningHour, now time.Time) bool {
	minute := now.Hour()*60 + now.Minute()
	weekday := int(now.Weekday())

	if today := hourForWeekday(hours, weekday); today != nil && !today.Closed {
		open, okOpen := parseHHMM(today.OpenTime)
		closeAt, okClose := parseHHMM(today.CloseTime)
		if okOpen && okClose {
			if open < closeAt && minute >= open && minute < closeAt {
				return true
			}
			// cross-midnight window: open until tomorrow
			if closeAt <= open && minute >= open {
				return true
			}
		}
	}

	// yesterday's window can spill past midnight into now
	yesterday := hourForWeekday(hours, (weekday+6)%7)
	if yesterday != nil && !yesterday.Closed {
		open, okOpen := parseHHMM(yesterday.OpenTime)
		closeAt, okClose := parseHHMM(yesterday.CloseTime)
		if okOpen && okClose && closeAt <= open && minute < closeAt {
			return true
		}
	}

	return false
}

// NextOpening finds the next time the business opens at or after now.
// Returns the weekday (0=Sunday) and "HH:MM" open time, or ok=false when
// no open window exists at all.
func NextOpening(hours []models.OpeningHour, now time.Time) (weekday int, openTime string, ok bool) {
	minute := now.Hour()*60 + now.Minute()
	for offset := 0; offset < 7; offset++ {
		wd := (int(now.Weekday()) + offset) % 7
		h := hourForWeekday(hours, wd)
		if h == nil || h.Closed {
			continue
		}
		open, valid := parseHHMM(h.OpenTime)
		if !valid {
			continue
		}
		if offset == 0 && open <= minute {
			continue
		}
		return wd, h.OpenTime, true
	}
	return 0, "", false
}
