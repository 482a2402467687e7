package utils

import "testing"

func TestNormalizeMilitaryTime(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0830", "0830", false},
		{"08:30", "0830", false},
		{" 2359 ", "2359", false},
		{"0000", "0000", false},
		{"2400", "", true},
		{"0860", "", true},
		{"830", "", true},
		{"08301", "", true},
		{"8:30", "", true},
		{"ab30", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeMilitaryTime(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeMilitaryTime(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeMilitaryTime(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeMilitaryTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMilitaryTimeParts(t *testing.T) {
	hh, mm := MilitaryTimeParts("0145")
	if hh != 1 || mm != 45 {
		t.Errorf("MilitaryTimeParts(0145) = %d, %d", hh, mm)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 4); got != "abc" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Errorf("Truncate zero = %q", got)
	}
}

func TestNormalizePlate(t *testing.T) {
	if got := NormalizePlate(" abc-123 "); got != "ABC123" {
		t.Errorf("NormalizePlate = %q", got)
	}
}
