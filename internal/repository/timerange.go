package repository

import (
	"strconv"
	"strings"
	"time"
)

// DefaultTimeRange is used when a range token is missing or unparseable.
const DefaultTimeRange = 7 * 24 * time.Hour

// ParseTimeRange parses a compact range token like "24h" or "7d". Anything
// it cannot parse falls back to seven days.
func ParseTimeRange(token string) time.Duration {
	token = strings.TrimSpace(strings.ToLower(token))
	if len(token) < 2 {
		return DefaultTimeRange
	}

	n, err := strconv.Atoi(token[:len(token)-1])
	if err != nil || n <= 0 {
		return DefaultTimeRange
	}

	switch token[len(token)-1] {
	case 'h':
		return time.Duration(n) * time.Hour
	case 'd':
		return time.Duration(n) * 24 * time.Hour
	default:
		return DefaultTimeRange
	}
}
