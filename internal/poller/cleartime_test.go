package poller

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func TestClearTimeDue(t *testing.T) {
	cases := []struct {
		name   string
		stored string
		now    string
		want   bool
	}{
		{"past this morning", "0130", "2026-03-10 08:00", true},
		{"exactly now", "0800", "2026-03-10 08:00", true},
		{"one minute ago", "0759", "2026-03-10 08:00", true},
		{"due in 30 minutes", "0830", "2026-03-10 08:00", false},
		{"due in exactly 60 minutes", "0900", "2026-03-10 08:00", false},
		{"61 minutes out reads as yesterday", "0901", "2026-03-10 08:00", true},
		{"evening entry polled after midnight", "2359", "2026-03-10 00:05", true},
		{"colon separator accepted", "01:30", "2026-03-10 08:00", true},
		{"end of day already past", "2359", "2026-03-11 00:05", true},
		{"midnight entry", "0000", "2026-03-10 08:00", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ClearTimeDue(tc.stored, mustTime(t, tc.now))
			if err != nil {
				t.Fatalf("ClearTimeDue(%q): %v", tc.stored, err)
			}
			if got != tc.want {
				t.Errorf("ClearTimeDue(%q, now=%s) = %v, want %v", tc.stored, tc.now, got, tc.want)
			}
		})
	}
}

func TestClearTimeDueExhaustiveValidTimes(t *testing.T) {
	now := mustTime(t, "2026-03-10 12:00")
	for hh := 0; hh < 24; hh++ {
		for mm := 0; mm < 60; mm += 7 {
			stored := time.Date(2026, 3, 10, hh, mm, 0, 0, time.Local).Format("1504")
			candidate := time.Date(2026, 3, 10, hh, mm, 0, 0, time.Local)

			want := !candidate.After(now)
			if !want && candidate.Sub(now) > time.Hour {
				want = !candidate.AddDate(0, 0, -1).After(now)
			}

			got, err := ClearTimeDue(stored, now)
			if err != nil {
				t.Fatalf("ClearTimeDue(%q): %v", stored, err)
			}
			if got != want {
				t.Errorf("ClearTimeDue(%q) = %v, want %v", stored, got, want)
			}
		}
	}
}

func TestClearTimeDueMalformed(t *testing.T) {
	now := mustTime(t, "2026-03-10 08:00")
	for _, stored := range []string{"", "abc", "12345", "830", "12a0", "12 30", "1,30"} {
		if _, err := ClearTimeDue(stored, now); err == nil {
			t.Errorf("ClearTimeDue(%q): expected error", stored)
		}
	}
}
