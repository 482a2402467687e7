package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTowDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"two digit year", "3/5/26", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local)},
		{"padded fields", "03/05/26", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local)},
		{"four digit year", "12/31/2025", time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local)},
		{"leap day", "2/29/24", time.Date(2024, time.February, 29, 0, 0, 0, 0, time.Local)},
		{"surrounding spaces", " 7/4/26 ", time.Date(2026, time.July, 4, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTowDate(tt.raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseTowDateRejectsInvalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"3/5",
		"3/5/26/1",
		"13/5/26",
		"0/5/26",
		"2/30/26",
		"2/29/25",
		"4/31/26",
		"a/b/c",
		"3-5-26",
	} {
		_, err := ParseTowDate(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
