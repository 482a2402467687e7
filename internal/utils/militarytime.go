package utils

import (
	"errors"
	"strconv"
	"strings"
)

var ErrBadMilitaryTime = errors.New("not a 4-digit military time")

// NormalizeMilitaryTime validates a wall-clock milestone entry and returns
// it as a zero-padded "HHMM" string. Accepts an optional colon separator
// ("8:30" is not valid, "08:30" is).
func NormalizeMilitaryTime(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ":", "")
	if len(s) != 4 {
		return "", ErrBadMilitaryTime
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "", ErrBadMilitaryTime
	}
	hh, _ := strconv.Atoi(s[:2])
	mm, _ := strconv.Atoi(s[2:])
	if hh > 23 || mm > 59 {
		return "", ErrBadMilitaryTime
	}
	return s, nil
}

// MilitaryTimeParts splits a normalized "HHMM" string into hours and
// minutes. Callers must normalize first.
func MilitaryTimeParts(normalized string) (int, int) {
	hh, _ := strconv.Atoi(normalized[:2])
	mm, _ := strconv.Atoi(normalized[2:])
	return hh, mm
}
