package plays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestCurrentStreak(t *testing.T) {
	today := day(2025, 6, 10)

	assert.Equal(t, 0, CurrentStreak(nil, today))

	// Played today plus the two days before.
	days := []time.Time{day(2025, 6, 8), day(2025, 6, 9), day(2025, 6, 10)}
	assert.Equal(t, 3, CurrentStreak(days, today))

	// Last play was yesterday: streak is alive until midnight.
	days = []time.Time{day(2025, 6, 8), day(2025, 6, 9)}
	assert.Equal(t, 2, CurrentStreak(days, today))

	// Last play two days ago: streak is broken.
	days = []time.Time{day(2025, 6, 7), day(2025, 6, 8)}
	assert.Equal(t, 0, CurrentStreak(days, today))

	// A gap resets the count to the most recent run.
	days = []time.Time{day(2025, 6, 5), day(2025, 6, 6), day(2025, 6, 9), day(2025, 6, 10)}
	assert.Equal(t, 2, CurrentStreak(days, today))

	// Duplicate plays on a day and mid-day timestamps collapse.
	days = []time.Time{
		time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 21, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 1, CurrentStreak(days, time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)))
}

func TestLongestStreak(t *testing.T) {
	assert.Equal(t, 0, LongestStreak(nil))
	assert.Equal(t, 1, LongestStreak([]time.Time{day(2025, 6, 1)}))

	days := []time.Time{
		day(2025, 6, 1), day(2025, 6, 2), day(2025, 6, 3), // run of 3
		day(2025, 6, 7), day(2025, 6, 8), // run of 2
	}
	assert.Equal(t, 3, LongestStreak(days))

	// Unordered input and duplicates do not inflate the run.
	days = []time.Time{day(2025, 6, 8), day(2025, 6, 7), day(2025, 6, 7), day(2025, 6, 9)}
	assert.Equal(t, 3, LongestStreak(days))
}
