package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDailyOffsetStableWithinDay(t *testing.T) {
	morning := time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC)

	require.Equal(t, dailyOffset(morning, 7), dailyOffset(evening, 7))
}

func TestDailyOffsetInRange(t *testing.T) {
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for count := int64(1); count <= 20; count++ {
		off := dailyOffset(day, count)
		require.GreaterOrEqual(t, off, 0)
		require.Less(t, int64(off), count)
	}
}
