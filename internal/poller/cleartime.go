package poller

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrBadClearTime marks a stored clear time the poller cannot read. Rows
// carrying one are skipped with a warning, never cleared.
var ErrBadClearTime = errors.New("malformed clear time")

// clearLookahead disambiguates a bare HHMM wall-clock entry: a candidate
// this far in the future is taken as "later today, not due yet", anything
// further out is read as yesterday's time, already overdue. "0130" typed
// in the evening means 1:30 AM that has already passed, not 1:30 AM
// tomorrow.
const clearLookahead = 60 * time.Minute

// ClearTimeDue reports whether a stored clear-time string has passed,
// evaluated against now. The stored value has no date; see clearLookahead
// for how the day is picked.
func ClearTimeDue(stored string, now time.Time) (bool, error) {
	s := strings.TrimSpace(stored)
	s = strings.ReplaceAll(s, ":", "")
	if len(s) != 4 {
		return false, ErrBadClearTime
	}
	if _, err := strconv.Atoi(s); err != nil {
		return false, ErrBadClearTime
	}

	hh, _ := strconv.Atoi(s[:2])
	mm, _ := strconv.Atoi(s[2:])
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())

	if !candidate.After(now) {
		return true, nil
	}
	if candidate.Sub(now) > clearLookahead {
		// Entered before midnight, polled after: shift to yesterday.
		return !candidate.AddDate(0, 0, -1).After(now), nil
	}
	return false, nil
}
