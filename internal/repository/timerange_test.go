package repository

import (
	"testing"
	"time"
)

func TestParseTimeRange(t *testing.T) {
	cases := []struct {
		token string
		want  time.Duration
	}{
		{"24h", 24 * time.Hour},
		{"1h", time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"30D", 30 * 24 * time.Hour},
		{" 12h ", 12 * time.Hour},
		{"", DefaultTimeRange},
		{"h", DefaultTimeRange},
		{"abc", DefaultTimeRange},
		{"7w", DefaultTimeRange},
		{"-3h", DefaultTimeRange},
		{"0d", DefaultTimeRange},
	}
	for _, tc := range cases {
		if got := ParseTimeRange(tc.token); got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.token, got, tc.want)
		}
	}
}
