package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	sameDayEarlier := now.Add(-3 * time.Hour)
	lastWeek := now.AddDate(0, 0, -7)

	t.Run("first login starts at one", func(t *testing.T) {
		require.Equal(t, 1, nextStreak(0, nil, now))
	})

	t.Run("same day does not advance", func(t *testing.T) {
		require.Equal(t, 5, nextStreak(5, &sameDayEarlier, now))
	})

	t.Run("consecutive day extends", func(t *testing.T) {
		require.Equal(t, 6, nextStreak(5, &yesterday, now))
	})

	t.Run("gap resets to one", func(t *testing.T) {
		require.Equal(t, 1, nextStreak(12, &lastWeek, now))
	})

	t.Run("same day with corrupt zero streak repairs to one", func(t *testing.T) {
		require.Equal(t, 1, nextStreak(0, &sameDayEarlier, now))
	})
}
