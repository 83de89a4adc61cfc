package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysUntil_IgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2026, 4, 10, 23, 59, 0, 0, time.UTC)
	target := time.Date(2026, 4, 13, 0, 1, 0, 0, time.UTC)
	require.Equal(t, 3, DaysUntil(now, target))

	now = time.Date(2026, 4, 10, 0, 1, 0, 0, time.UTC)
	target = time.Date(2026, 4, 10, 23, 59, 0, 0, time.UTC)
	require.Equal(t, 0, DaysUntil(now, target))
}

func TestDaysUntil_PastIsNegative(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	target := time.Date(2026, 4, 5, 22, 0, 0, 0, time.UTC)
	require.Equal(t, -5, DaysUntil(now, target))
}

func TestTruncateToDay(t *testing.T) {
	ts := time.Date(2026, 4, 10, 17, 45, 12, 999, time.UTC)
	got := TruncateToDay(ts)
	require.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), got)
}
