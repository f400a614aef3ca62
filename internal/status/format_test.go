package status

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0.0s"},
		{59.9, "59.9s"},
		{60.0, "1.0m"},
		{90, "1.5m"},
		{544.5, "9.1m"},
		{3599.9, "60.0m"},
		{3600.0, "1.0h"},
		{5400, "1.5h"},
		{86400, "24.0h"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
