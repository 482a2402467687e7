package service

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var errBadTowDate = errors.New("bad tow date")

// ParseTowDate reads the date fields as typed on the search and quick-call
// forms: month/day/year with a slash separator, 2-digit years meaning
// 20YY. Anything without a separator is not a date filter at all and is
// rejected by the caller before this runs.
func ParseTowDate(raw string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return time.Time{}, errBadTowDate
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, errBadTowDate
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, errBadTowDate
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, errBadTowDate
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, errBadTowDate
	}

	parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes 2/30 into March; reject anything that moved.
	if parsed.Day() != day || parsed.Month() != time.Month(month) {
		return time.Time{}, errBadTowDate
	}
	return parsed, nil
}
