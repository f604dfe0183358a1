package plays

import (
	"sort"
	"time"
)

// CurrentStreak returns the run of consecutive days ending today or
// yesterday. A streak that last fired yesterday is still alive (the user has
// until midnight to extend it); anything older is 0.
func CurrentStreak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}

	set := make(map[time.Time]bool, len(days))
	for _, d := range days {
		set[dateOnly(d)] = true
	}

	anchor := dateOnly(today)
	if !set[anchor] {
		anchor = anchor.AddDate(0, 0, -1)
		if !set[anchor] {
			return 0
		}
	}

	streak := 0
	for set[anchor] {
		streak++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days anywhere in the
// history.
func LongestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}

	unique := make(map[time.Time]bool, len(days))
	for _, d := range days {
		unique[dateOnly(d)] = true
	}
	sorted := make([]time.Time, 0, len(unique))
	for d := range unique {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// dateOnly truncates to midnight UTC so calendar-day comparisons ignore the
// time of day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
